package viz

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/metrics"
	"github.com/san-kum/mdsim/internal/traj"
)

const (
	width           = 48
	height          = 20
	historyCapacity = 600
)

// Update is one observation forwarded to the view. Positions is a private
// copy and may be nil for systems without coordinates.
type Update struct {
	Step      int
	Sample    metrics.Sample
	Positions [][3]float64
	Box       [3]float64
}

// DoneMsg reports the end of the run to the view.
type DoneMsg struct {
	Result *experiment.Result
	Err    error
}

type streamClosedMsg struct{}

// Stream is an observer that forwards updates to a channel without ever
// blocking the simulation; updates the view has not consumed are dropped.
type Stream struct {
	ch      chan Update
	mu      sync.Mutex
	dropped int
	once    sync.Once
}

func NewStream(buffer int) *Stream {
	return &Stream{ch: make(chan Update, buffer)}
}

func (s *Stream) Updates() <-chan Update { return s.ch }

func (s *Stream) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *Stream) Observe(sys dynamo.ParticleSystem, step int) error {
	sample, err := metrics.Compute(sys)
	if err != nil {
		return err
	}

	u := Update{Step: step, Sample: sample}
	if snap, ok := sys.(traj.Snapshotter); ok {
		u.Positions = append([][3]float64(nil), snap.Coordinates()...)
		u.Box = snap.Box()
	}

	select {
	case s.ch <- u:
	default:
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
	}
	return nil
}

// Close ends the stream. Safe to call more than once.
func (s *Stream) Close() {
	s.once.Do(func() { close(s.ch) })
}

type Model struct {
	title   string
	total   int
	updates <-chan Update
	cancel  context.CancelFunc

	canvas *Canvas
	plane  Plane
	theme  int
	st     styles

	last    Update
	have    bool
	energy  []float64
	temps   []float64
	done    bool
	result  *experiment.Result
	err     error
	stopped bool
}

func NewModel(title string, totalSteps int, updates <-chan Update, cancel context.CancelFunc) Model {
	return Model{
		title:   title,
		total:   totalSteps,
		updates: updates,
		cancel:  cancel,
		canvas:  NewCanvas(width, height),
		st:      newStyles(Themes[0]),
		energy:  make([]float64, 0, historyCapacity),
		temps:   make([]float64, 0, historyCapacity),
	}
}

func waitForUpdate(ch <-chan Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return u
	}
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func push(series []float64, v float64) []float64 {
	if len(series) == historyCapacity {
		series = append(series[:0], series[1:]...)
	}
	return append(series, v)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			m.stopped = !m.done
			return m, tea.Quit
		case "p":
			m.plane = (m.plane + 1) % 3
			m.redraw()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.st = newStyles(Themes[m.theme])
		}
	case Update:
		m.last, m.have = msg, true
		m.energy = push(m.energy, msg.Sample.TotalPerAtom)
		m.temps = push(m.temps, msg.Sample.Temperature)
		m.redraw()
		return m, waitForUpdate(m.updates)
	case streamClosedMsg:
		return m, nil
	case DoneMsg:
		m.done = true
		m.result, m.err = msg.Result, msg.Err
	}
	return m, nil
}

func (m *Model) redraw() {
	m.canvas.Clear()
	if m.have {
		m.canvas.DrawAtoms(m.last.Positions, m.last.Box, m.plane)
	}
}

func (m Model) View() string {
	st := m.st
	var s strings.Builder

	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.err.Render("FAILED: "+m.err.Error()) + "\n\n")
	case m.done:
		s.WriteString(st.status.Render("FINISHED") + "\n\n")
	default:
		s.WriteString(st.status.Render("RUNNING") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(36),
			asciigraph.Precision(4), asciigraph.Caption("Etot (eV/atom)"))
		s.WriteString(st.graph.Render(chart) + "\n")
		chart = asciigraph.Plot(m.temps, asciigraph.Height(4), asciigraph.Width(36),
			asciigraph.Precision(0), asciigraph.Caption("T (K)"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	if m.have {
		row("Step", fmt.Sprintf("%d / %d", m.last.Step, m.total))
		row("Epot", fmt.Sprintf("%.4f eV", m.last.Sample.PotentialPerAtom))
		row("Ekin", fmt.Sprintf("%.4f eV", m.last.Sample.KineticPerAtom))
		row("Etot", fmt.Sprintf("%.4f eV", m.last.Sample.TotalPerAtom))
		row("T", fmt.Sprintf("%.0f K", m.last.Sample.Temperature))
	} else {
		row("Step", "waiting")
	}
	if m.result != nil {
		row("Drift", fmt.Sprintf("%.2e eV", m.result.Summary.MaxDrift))
	}
	row("Plane", m.plane.String())

	s.WriteString(st.help.Render("─────────────────────\nQ:Quit  P:Plane  T:Theme"))

	canvasView := st.canvas.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
}

// Stopped reports whether the user quit before the run finished.
func (m Model) Stopped() bool { return m.stopped }

// Run drives exp in the background while the live view is on screen.
// Quitting the view cancels the run.
func Run(ctx context.Context, exp *experiment.Experiment, title string, interval int) (*experiment.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := NewStream(16)
	if err := exp.Attach(stream, interval); err != nil {
		return nil, err
	}

	p := tea.NewProgram(NewModel(title, exp.Config().Steps, stream.Updates(), cancel), tea.WithAltScreen())

	var (
		res    *experiment.Result
		runErr error
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		res, runErr = exp.Run(ctx)
		stream.Close()
		p.Send(DoneMsg{Result: res, Err: runErr})
	}()

	_, uiErr := p.Run()
	cancel()
	<-done

	if uiErr != nil {
		return res, fmt.Errorf("live view: %w", uiErr)
	}
	return res, runErr
}
