// Package ui is the terminal form for submitting batch jobs: one run-file
// input, a submit action and a help panel.
package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/fsutil"
	"github.com/vk/orabatch/internal/launcher"
	"github.com/vk/orabatch/internal/subgui"
)

const helpMarkdown = `# Submit PyOrator batch job

Type or paste the full path of a run file (**` + config.FnameRun + `** or any
other *.xlsx* workbook). The batch job runs in the directory holding it.

| Key | Action |
|-----|--------|
| enter, ctrl+s | submit the batch job |
| f1 (or ? on an empty line) | show or hide this help |
| ctrl+u | clear the run file |
| esc, ctrl+c | remember the run file and exit |

Submitted jobs run on their own; their progress is written to the job log,
not shown here.
`

// Submitter starts a batch job.
type Submitter func(ctx context.Context, job launcher.Job) (launcher.Submission, error)

type submittedMsg struct {
	sub launcher.Submission
	err error
}

// Options configure the form.
type Options struct {
	Settings  *subgui.Settings
	RunFn     string
	Submit    Submitter
	// JobOutput receives the output of submitted jobs.
	JobOutput io.Writer
	Theme     string
	// HelpStyle is a glamour standard style; empty detects the terminal.
	HelpStyle string
}

type model struct {
	ctx      context.Context
	opts     Options
	styles   styles
	runFn    string
	status   string
	errMsg   string
	showHelp bool
	help     string
	width    int
	jobs     []launcher.Submission
	saveErr  error
}

func initialModel(ctx context.Context, opts Options) model {
	if opts.Submit == nil {
		opts.Submit = launcher.Submit
	}
	return model{
		ctx:    ctx,
		opts:   opts,
		styles: newStyles(paletteFor(opts.Theme)),
		runFn:  opts.RunFn,
		width:  80,
	}
}

// tea.Model implementation ---------------------------------------------------
func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.showHelp {
			m.help = renderHelp(m.opts.HelpStyle, m.width)
		}
		return m, nil

	case submittedMsg:
		if msg.err != nil {
			m.errMsg = "Could not submit batch job: " + msg.err.Error()
			return m, nil
		}
		m.jobs = append(m.jobs, msg.sub)
		m.status = fmt.Sprintf("Submitted job %s (pid %d)", shortID(msg.sub.ID), msg.sub.PID)
		return m, nil

	case tea.KeyMsg:
		k := msg.String()
		switch k {
		case "esc", "ctrl+c":
			return m.quit()
		case "enter", "ctrl+s":
			return m.submit()
		case "f1":
			return m.toggleHelp(), nil
		case "?":
			// Help only from an empty line; otherwise it is part of the path.
			if m.runFn == "" {
				return m.toggleHelp(), nil
			}
		case "ctrl+u":
			m.runFn = ""
			return m, nil
		case "backspace":
			if r := []rune(m.runFn); len(r) > 0 {
				m.runFn = string(r[:len(r)-1])
			}
			return m, nil
		}
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.runFn += string(msg.Runes)
			m.errMsg = ""
		}
	}
	return m, nil
}

func (m model) toggleHelp() model {
	m.showHelp = !m.showHelp
	if m.showHelp {
		m.help = renderHelp(m.opts.HelpStyle, m.width)
	}
	return m
}

func (m model) submit() (tea.Model, tea.Cmd) {
	m.status, m.errMsg = "", ""
	runFn := strings.TrimSpace(m.runFn)
	if !strings.EqualFold(filepath.Ext(runFn), ".xlsx") {
		m.errMsg = "Run file must be an Excel workbook (*.xlsx)"
		return m, nil
	}
	if !fsutil.IsFile(runFn) {
		m.errMsg = "Run file " + runFn + " does not exist"
		return m, nil
	}
	runFn = filepath.Clean(runFn)
	m.runFn = runFn

	job := m.opts.Settings.Job(runFn, m.opts.JobOutput)
	submit, ctx := m.opts.Submit, m.ctx
	m.status = "Submitting batch job for " + job.RunDir
	return m, func() tea.Msg {
		sub, err := submit(ctx, job)
		return submittedMsg{sub: sub, err: err}
	}
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.saveErr = subgui.WriteConfig(m.opts.Settings.ConfigFile, m.runFn)
	if m.saveErr != nil {
		ctxlog.FromContext(m.ctx).Error("Could not write form config.", "path", m.opts.Settings.ConfigFile, "error", m.saveErr)
	}
	return m, tea.Quit
}

func (m model) View() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Submit PyOrator batch job"))
	b.WriteString("\n")
	b.WriteString(s.Label.Render("Run file"))
	b.WriteString("\n")

	inputWidth := m.width - 4
	if inputWidth < 20 {
		inputWidth = 20
	}
	b.WriteString(s.Input.Width(inputWidth).Render(m.runFn + "█"))
	b.WriteString("\n")

	switch {
	case m.errMsg != "":
		b.WriteString(s.Error.Render(m.errMsg))
	case m.status != "":
		b.WriteString(s.Status.Render(m.status))
	default:
		b.WriteString(s.Warn.Render(fmt.Sprintf("%d job(s) submitted this session", len(m.jobs))))
	}
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(s.Panel.Render(strings.TrimRight(m.help, "\n")))
		b.WriteString("\n")
	}
	b.WriteString(s.Footer.Render("enter submit • f1 help • esc save and exit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func renderHelp(style string, width int) string {
	wrap := width - 8
	if wrap < 40 {
		wrap = 40
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return helpMarkdown
	}
	rendered, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return rendered
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
