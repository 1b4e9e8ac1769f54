// Package tui provides a Bubble Tea terminal user interface for socrata-downloader.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/socrata-downloader/internal/activity"
	"github.com/handiism/socrata-downloader/internal/config"
	"github.com/handiism/socrata-downloader/internal/download"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

type levelLook struct {
	style  lipgloss.Style
	prefix string
}

var levelLooks = map[download.ProgressLevel]levelLook{
	download.LevelError:   {errorStyle, "x"},
	download.LevelWarning: {warningStyle, "!"},
	download.LevelSuccess: {successStyle, "+"},
	download.LevelInfo:    {infoStyle, ">"},
}

var errCancelled = errors.New("cancelled by user")

// maxLogs is the number of progress lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	logger  *activity.Logger
	events  chan download.ProgressEvent
	summary *download.Summary

	// Download progress
	receivedBytes int64
	doneFiles     int32
	failedFiles   int32
	totalFiles    int32
	skipped       int

	verbose bool

	keys keyMap
	help help.Model
}

// NewModel creates a new TUI model seeded with settings. A nil settings
// value uses config.DefaultSettings.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "data.cdc.gov"
	if settings.APIURL != "" {
		ti.SetValue(settings.APIURL)
	} else {
		ti.SetValue(settings.Domain)
	}
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan download.ProgressEvent, 256),
		keys:      newKeyMap(),
		help:      help.New(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.listenForEvents())
}

// Message types
type (
	// ProgressMsg is sent when the manager reports progress.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// InitDoneMsg is sent when the catalog has been fetched and planned.
	InitDoneMsg struct {
		Manager *download.Manager
		Logger  *activity.Logger
		Skipped int
		Err     error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Summary *download.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		keys := m.keys.forState(m.state)
		switch {
		case key.Matches(msg, keys.Abort):
			m.cancel()
			return m, tea.Quit

		case key.Matches(msg, keys.Cancel):
			m.cancel()
			m.state = StateError
			m.err = errCancelled
			return m, nil

		case key.Matches(msg, keys.Start):
			if strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initializeDownload(), m.spinner.Tick)
			}

		case key.Matches(msg, keys.Verbose):
			m.verbose = !m.verbose
			return m, nil

		case key.Matches(msg, keys.Restart):
			m.reset()
			return m, nil

		case key.Matches(msg, keys.Quit):
			if m.state != StateInput || msg.String() == "esc" {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.listenForEvents())
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			if msg.Logger != nil {
				msg.Logger.Close()
			}
		} else {
			m.manager = msg.Manager
			m.logger = msg.Logger
			m.skipped = msg.Skipped
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		if m.logger != nil {
			m.logger.Close()
		}
		m.summary = msg.Summary
		if m.manager != nil {
			m.receivedBytes, m.doneFiles, m.failedFiles, m.totalFiles = m.manager.GetProgress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			m.receivedBytes, m.doneFiles, m.failedFiles, m.totalFiles = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// percent is the share of tasks that reached an outcome.
func (m Model) percent() float64 {
	if m.totalFiles == 0 {
		return 0
	}
	return float64(m.doneFiles+m.failedFiles) / float64(m.totalFiles)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// listenForEvents waits for the next progress event of the manager.
func (m Model) listenForEvents() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Socrata Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download the datasets and files of an open-data site"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys.forState(m.state)))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter Socrata domain or site URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output\n", verboseCheck))
	b.WriteString(fmt.Sprintf("  Concurrency: %d\n", m.settings.Concurrency))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching catalog..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("%d asset(s) to download", m.totalFiles)))
	if m.skipped > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(", %d skipped", m.skipped)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Failed: %d | Downloaded: %.2f MB",
		m.doneFiles,
		m.totalFiles,
		m.failedFiles,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	title := "Download Complete!"
	failed := int(m.failedFiles)
	if m.summary != nil {
		failed = m.summary.Failed
	}
	if failed > 0 {
		title = "Download finished with failures"
	}

	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Downloaded: %d\n"+
			"Failed: %d\n"+
			"Skipped: %d\n"+
			"Size: %.2f MB",
		title,
		m.doneFiles,
		failed,
		m.skipped,
		float64(m.receivedBytes)/1024/1024,
	))
	b.WriteString(box)
	b.WriteString("\n")

	if m.summary != nil {
		for _, r := range m.summary.Failures {
			b.WriteString(errorStyle.Render(fmt.Sprintf("x %s: %v", r.ID, r.Err)))
			b.WriteString("\n")
		}
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Activity log: %s", m.settings.LogPath())))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder
	for _, log := range m.logs {
		look, ok := levelLooks[log.Level]
		if !ok {
			look = levelLook{dimStyle, "-"}
		}
		b.WriteString(look.style.Render(look.prefix + " " + log.Message))
		b.WriteString("\n")
	}
	return b.String()
}

// reset returns the model to the input state for another run.
func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.summary = nil
	m.manager = nil
	m.logger = nil
	m.receivedBytes = 0
	m.doneFiles = 0
	m.failedFiles = 0
	m.totalFiles = 0
	m.skipped = 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.Focus()
}

// initializeDownload opens the activity log, fetches the catalog and
// plans the downloads.
func (m Model) initializeDownload() tea.Cmd {
	settings := *m.settings
	if site := strings.TrimSpace(m.textInput.Value()); strings.Contains(site, "://") {
		settings.APIURL = site
	} else {
		settings.Domain = site
		settings.APIURL = ""
	}
	ctx := m.ctx
	events := m.events

	return func() tea.Msg {
		if err := settings.Validate(); err != nil {
			return InitDoneMsg{Err: err}
		}

		logger, err := activity.Open(settings.LogPath(), nil)
		if err != nil {
			return InitDoneMsg{Err: err}
		}

		manager := download.NewManager(&settings, logger, func(event download.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		})

		if err := manager.Initialize(ctx); err != nil {
			return InitDoneMsg{Logger: logger, Err: err}
		}

		return InitDoneMsg{
			Manager: manager,
			Logger:  logger,
			Skipped: len(manager.Plan().Skipped),
		}
	}
}

// startDownload runs the planned downloads in the background.
func (m Model) startDownload() tea.Cmd {
	manager := m.manager
	ctx := m.ctx

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: download.ErrNotInitialized}
		}

		summary, err := manager.StartDownloads(ctx)
		return DownloadDoneMsg{Summary: summary, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
