package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(WarnLevel)

	Info().Msg("hidden")
	Warn().Str("step", "3").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Contains(t, buf.String(), `"step":"3"`)

	buf.Reset()
	SetLevel(DebugLevel)
	Debug().Msg("detail")
	assert.Contains(t, buf.String(), "detail")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(InfoLevel)

	l := With("experiment")
	l.Info().Msg("ready")
	assert.Contains(t, buf.String(), `"component":"experiment"`)
}
