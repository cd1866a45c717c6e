// Package tui renders the interactive pieces of the clip command.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/video-clip-cli/tui/styles"
)

// ErrInterrupted is returned when the user aborts a running job.
var ErrInterrupted = errors.New("interrupted")

// jobDoneMsg is sent when the background job returns.
type jobDoneMsg struct {
	err error
}

// progressModel shows a spinner and elapsed time while a job runs.
type progressModel struct {
	spinner spinner.Model
	label   string
	started time.Time
	now     func() time.Time
	job     func() error
	cancel  context.CancelFunc
	done    bool
	err     error
}

func newProgressModel(label string, job func() error, cancel context.CancelFunc) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Amber)
	return progressModel{
		spinner: s,
		label:   label,
		started: time.Now(),
		now:     time.Now,
		job:     job,
		cancel:  cancel,
	}
}

func (m progressModel) runJob() tea.Msg {
	return jobDoneMsg{err: m.job()}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runJob)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case jobDoneMsg:
		m.done = true
		if m.err == nil {
			m.err = msg.err
		}
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// the job sees the cancelled context and returns a jobDoneMsg
			m.cancel()
			m.err = ErrInterrupted
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	elapsed := m.now().Sub(m.started).Truncate(time.Second)
	return fmt.Sprintf("%s %s %s\n", m.spinner.View(), styles.Header.Render(m.label), styles.Muted.Render(elapsed.String()))
}

// RunWithSpinner runs job while showing a spinner. job receives a context
// that is cancelled when the user presses ctrl+c.
func RunWithSpinner(ctx context.Context, label string, job func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newProgressModel(label, func() error { return job(ctx) }, cancel)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("progress display: %w", err)
	}

	fm := final.(progressModel)
	if errors.Is(fm.err, ErrInterrupted) {
		return ErrInterrupted
	}
	return fm.err
}
