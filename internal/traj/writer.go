// Package traj stores trajectories as compressed text frames.
//
// A file starts with key=value header lines and a "** <natoms>" marker. Each
// frame is a "# step <n>" line, one line of three integers per atom (the
// coordinate in Å times 10^prec) and a "* <bx> <by> <bz>" terminator. Files
// ending in .gz are gzip compressed, everything else zstd.
package traj

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/mdsim/internal/dynamo"
)

const DefaultPrecision = 3

// Snapshotter is a system whose configuration can be written as a frame.
type Snapshotter interface {
	Coordinates() [][3]float64
	Box() [3]float64
}

type writerOptions struct {
	prec  int
	level zstd.EncoderLevel
}

type Option func(*writerOptions)

// Precision sets the number of decimals kept for each coordinate.
func Precision(decimals int) Option {
	return func(o *writerOptions) { o.prec = decimals }
}

// Level sets the zstd encoder level. Ignored for gzip output.
func Level(l zstd.EncoderLevel) Option {
	return func(o *writerOptions) { o.level = l }
}

// flushWriteCloser is a compressor that can emit everything written so far
// as a complete block.
type flushWriteCloser interface {
	io.WriteCloser
	Flush() error
}

type Writer struct {
	path   string
	f      *os.File
	z      flushWriteCloser
	w      *bufio.Writer
	natoms int
	mult   float64
	frames int
	closed bool
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// Create truncates path and writes the header. The "prec" header key is set
// from the Precision option and overrides any value in header.
func Create(path string, natoms int, header map[string]string, opts ...Option) (*Writer, error) {
	o := writerOptions{prec: DefaultPrecision, level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(&o)
	}
	if natoms <= 0 {
		return nil, fmt.Errorf("%w: trajectory needs at least one atom", dynamo.ErrParameterBounds)
	}
	if o.prec < 0 || o.prec > 8 {
		return nil, fmt.Errorf("%w: precision must be in [0, 8], got %d", dynamo.ErrParameterBounds, o.prec)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create trajectory: %w", dynamo.ErrIO, err)
	}

	var z flushWriteCloser
	if isGzip(path) {
		z = gzip.NewWriter(f)
	} else {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(o.level))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: zstd encoder: %w", dynamo.ErrIO, err)
		}
		z = enc
	}

	tw := &Writer{
		path:   path,
		f:      f,
		z:      z,
		w:      bufio.NewWriter(z),
		natoms: natoms,
		mult:   math.Pow(10, float64(o.prec)),
	}

	keys := make([]string, 0, len(header)+1)
	for k := range header {
		if k != "prec" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(tw.w, "%s=%s\n", k, header[k])
	}
	fmt.Fprintf(tw.w, "prec=%d\n", o.prec)
	fmt.Fprintf(tw.w, "** %d\n", natoms)
	if err := tw.flush(); err != nil {
		tw.Close()
		return nil, fmt.Errorf("%w: write header: %w", dynamo.ErrIO, err)
	}

	return tw, nil
}

func (t *Writer) Path() string { return t.path }

// Frames is the number of frames written.
func (t *Writer) Frames() int { return t.frames }

func (t *Writer) WriteFrame(step int, coords [][3]float64, box [3]float64) error {
	if t.closed {
		return fmt.Errorf("%w: trajectory %s is closed", dynamo.ErrIO, t.path)
	}
	if len(coords) != t.natoms {
		return fmt.Errorf("%w: frame has %d atoms, trajectory has %d", dynamo.ErrInvalidState, len(coords), t.natoms)
	}

	t.w.WriteString("# step ")
	t.w.WriteString(strconv.Itoa(step))
	t.w.WriteByte('\n')

	buf := make([]byte, 0, 64)
	for _, c := range coords {
		buf = buf[:0]
		for k := 0; k < 3; k++ {
			if k > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(math.RoundToEven(c[k]*t.mult)), 10)
		}
		buf = append(buf, '\n')
		t.w.Write(buf)
	}
	fmt.Fprintf(t.w, "* %g %g %g\n", box[0], box[1], box[2])

	if err := t.flush(); err != nil {
		return fmt.Errorf("%w: write frame %d: %w", dynamo.ErrIO, step, err)
	}
	t.frames++
	return nil
}

// flush pushes buffered text through the compressor to the file, so a frame
// survives the process being killed once WriteFrame returns.
func (t *Writer) flush() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	return t.z.Flush()
}

// Observe appends the current configuration of sys.
func (t *Writer) Observe(sys dynamo.ParticleSystem, step int) error {
	s, ok := sys.(Snapshotter)
	if !ok {
		return fmt.Errorf("%w: %T has no coordinates to write", dynamo.ErrInvalidState, sys)
	}
	return t.WriteFrame(step, s.Coordinates(), s.Box())
}

func (t *Writer) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	var first error
	if err := t.w.Flush(); err != nil {
		first = err
	}
	if err := t.z.Close(); err != nil && first == nil {
		first = err
	}
	if err := t.f.Close(); err != nil && first == nil {
		first = err
	}
	if first != nil {
		return fmt.Errorf("%w: close trajectory: %w", dynamo.ErrIO, first)
	}
	return nil
}
