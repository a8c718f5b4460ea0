package metrics

import (
	"fmt"
	"io"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// Reporter writes one formatted energy line per observation.
type Reporter struct {
	w     io.Writer
	lines int
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) Observe(sys dynamo.ParticleSystem, step int) error {
	s, err := Compute(sys)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.w, Format(s)); err != nil {
		return fmt.Errorf("%w: write report: %w", dynamo.ErrIO, err)
	}
	r.lines++
	return nil
}

// Lines is the number of reports written so far.
func (r *Reporter) Lines() int { return r.lines }
