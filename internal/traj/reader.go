package traj

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/mdsim/internal/dynamo"
)

type Frame struct {
	Step   int
	Coords [][3]float64
	Box    [3]float64
}

type Reader struct {
	f      *os.File
	close  func()
	r      *bufio.Reader
	header map[string]string
	natoms int
	div    float64
}

// Open reads the header of a trajectory written by Writer.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open trajectory: %w", dynamo.ErrIO, err)
	}

	tr := &Reader{f: f, header: make(map[string]string)}
	if isGzip(path) {
		gz, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: gzip: %w", dynamo.ErrIO, err)
		}
		tr.close = func() { gz.Close() }
		tr.r = bufio.NewReader(gz)
	} else {
		dec, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: zstd: %w", dynamo.ErrIO, err)
		}
		tr.close = dec.Close
		tr.r = bufio.NewReader(dec)
	}

	if err := tr.readHeader(); err != nil {
		tr.Close()
		return nil, err
	}
	return tr, nil
}

func (t *Reader) readHeader() error {
	for {
		line, err := t.r.ReadString('\n')
		if err != nil {
			return fmt.Errorf("%w: read header: %w", dynamo.ErrIO, err)
		}
		line = strings.TrimSuffix(line, "\n")

		if strings.HasPrefix(line, "**") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "**")))
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: bad atom count %q", dynamo.ErrIO, line)
			}
			t.natoms = n
			break
		}

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%w: malformed header line %q", dynamo.ErrIO, line)
		}
		t.header[k] = v
	}

	prec := DefaultPrecision
	if p, ok := t.header["prec"]; ok {
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("%w: bad precision %q", dynamo.ErrIO, p)
		}
		prec = n
	}
	t.div = math.Pow(10, float64(prec))
	return nil
}

func (t *Reader) Header() map[string]string { return t.header }

func (t *Reader) Len() int { return t.natoms }

// Next returns the next frame, or io.EOF after the last one.
func (t *Reader) Next() (*Frame, error) {
	line, err := t.r.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read frame: %w", dynamo.ErrIO, err)
	}

	line = strings.TrimSpace(line)
	fr := &Frame{Coords: make([][3]float64, t.natoms)}
	if _, err := fmt.Sscanf(line, "# step %d", &fr.Step); err != nil {
		return nil, fmt.Errorf("%w: bad frame marker %q", dynamo.ErrIO, line)
	}

	for i := 0; i < t.natoms; i++ {
		line, err := t.r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d truncated at atom %d", dynamo.ErrIO, fr.Step, i)
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: frame %d atom %d: %q", dynamo.ErrIO, fr.Step, i, strings.TrimSpace(line))
		}
		for k, s := range fields {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: frame %d atom %d: %w", dynamo.ErrIO, fr.Step, i, err)
			}
			fr.Coords[i][k] = float64(v) / t.div
		}
	}

	line, err = t.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: frame %d: %w", dynamo.ErrIO, fr.Step, err)
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(line), "* %g %g %g", &fr.Box[0], &fr.Box[1], &fr.Box[2]); err != nil {
		return nil, fmt.Errorf("%w: frame %d has no box line", dynamo.ErrIO, fr.Step)
	}

	return fr, nil
}

func (t *Reader) Close() error {
	if t.close != nil {
		t.close()
		t.close = nil
	}
	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	if err != nil {
		return fmt.Errorf("%w: close trajectory: %w", dynamo.ErrIO, err)
	}
	return nil
}
