// Package progress renders a determinate progress bar on stderr while a
// batch of repositories is processed.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/dmzDAWG/workspaces/internal/ui/styles"
)

type update struct {
	done  int
	total int
}

// Bar is a progress bar driven from worker goroutines.
// The zero value is not usable; call New.
type Bar struct {
	out     io.Writer
	label   string
	updates chan update
	stopped chan struct{}

	mu      sync.Mutex
	program *tea.Program
	running bool
	last    update
}

type model struct {
	bar     progress.Model
	label   string
	updates chan update
	state   update
}

func (m model) Init() tea.Cmd {
	return m.wait()
}

func (m model) wait() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.updates
		if !ok {
			return tea.Quit()
		}
		return u
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case update:
		m.state = msg
		return m, m.wait()
	default:
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		return m, cmd
	}
}

func (m model) View() tea.View {
	return tea.NewView(m.render())
}

func (m model) render() string {
	percent := 0.0
	if m.state.total > 0 {
		percent = float64(m.state.done) / float64(m.state.total)
	}
	return fmt.Sprintf("%s %d/%d %s", m.bar.ViewAs(percent), m.state.done, m.state.total, m.label)
}

// New returns a Bar labelled label that draws on out (normally stderr).
func New(out io.Writer, label string) *Bar {
	return &Bar{
		out:     out,
		label:   label,
		updates: make(chan update, 16),
		stopped: make(chan struct{}),
	}
}

// Start draws the bar.
func (b *Bar) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return
	}

	theme := styles.Current()
	m := model{
		bar: progress.New(
			progress.WithWidth(30),
			progress.WithoutPercentage(),
			progress.WithColors(theme.Primary, theme.Accent),
		),
		label:   b.label,
		updates: b.updates,
		state:   b.last,
	}
	b.program = tea.NewProgram(m, tea.WithoutSignalHandler(), tea.WithInput(nil), tea.WithOutput(b.out))
	b.running = true

	go func() {
		_, _ = b.program.Run()
		close(b.stopped)
	}()
}

// Set records that done of total items have finished.
// It matches batch.ProgressFunc and is safe for concurrent use.
func (b *Bar) Set(done, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	u := update{done: done, total: total}
	b.last = u
	if !b.running {
		return
	}
	select {
	case b.updates <- u:
	default: // drop frames rather than block a worker
	}
}

// Stop removes the bar from the terminal.
func (b *Bar) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	close(b.updates)
	b.mu.Unlock()

	select {
	case <-b.stopped:
	case <-time.After(500 * time.Millisecond):
		b.program.Quit()
	}
	fmt.Fprint(b.out, "\r\033[K")
}
