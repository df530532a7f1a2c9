// Package tui provides a Bubble Tea terminal user interface for the converter.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redtide/ConvertWithMoss/internal/config"
	"github.com/redtide/ConvertWithMoss/internal/convert"
	"github.com/redtide/ConvertWithMoss/internal/notify"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
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

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateConverting
	StateComplete
	StateError
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []notify.Event
	files     []string
	err       error

	// Conversion context
	ctx    context.Context
	cancel context.CancelFunc

	// Conversion manager reference
	manager *convert.Manager

	// Events emitted by the manager, bridged into Bubble Tea messages
	events chan notify.Event

	// Conversion progress
	converted  int32
	failed     int32
	totalFiles int32

	// Options
	analyzeOnly bool
	verbose     bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "/path/to/kontakt/instruments"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	if settings.SourceFolder != "" {
		ti.SetValue(settings.SourceFolder)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:       StateInput,
		textInput:   ti,
		spinner:     sp,
		progress:    prog,
		settings:    settings,
		logs:        make([]notify.Event, 0),
		events:      make(chan notify.Event, 64),
		ctx:         ctx,
		cancel:      cancel,
		analyzeOnly: settings.AnalyzeOnly,
		verbose:     settings.Verbose,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// EventMsg wraps a progress event from the manager.
	EventMsg struct {
		Event notify.Event
	}

	// ScanDoneMsg is sent when the folder scan completes.
	ScanDoneMsg struct {
		Files   []string
		Manager *convert.Manager
		Err     error
	}

	// ConvertDoneMsg is sent when all conversions complete.
	ConvertDoneMsg struct {
		Converted int32
		Failed    int32
		Total     int32
		Err       error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateScanning || m.state == StateConverting {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.settings.SourceFolder = m.textInput.Value()
				m.settings.AnalyzeOnly = m.analyzeOnly
				m.settings.Verbose = m.verbose
				m.state = StateScanning
				return m, tea.Batch(m.initializeScan(), m.spinner.Tick, m.listenEvents())
			}

		case "ctrl+a":
			// Handled before the text input sees the key, toggling must
			// not also move the cursor.
			if m.state == StateInput {
				m.analyzeOnly = !m.analyzeOnly
				return m, nil
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new conversion
				m.state = StateInput
				m.logs = nil
				m.files = nil
				m.err = nil
				m.converted = 0
				m.failed = 0
				m.totalFiles = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level != notify.LevelVerbose || m.verbose {
			m.logs = append(m.logs, msg.Event)
			// Trim to the configured log window
			maxLines := m.settings.MaxLogLines
			if maxLines <= 0 {
				maxLines = 10
			}
			if len(m.logs) > maxLines {
				m.logs = m.logs[len(m.logs)-maxLines:]
			}
		}
		cmds = append(cmds, m.listenEvents())

	case ScanDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.files = msg.Files
			m.manager = msg.Manager
			m.state = StateConverting
			// Start the actual conversion and tick for progress updates
			cmds = append(cmds, m.startConversion(), m.tickProgress())
		}

	case ConvertDoneMsg:
		m.converted = msg.Converted
		m.failed = msg.Failed
		m.totalFiles = msg.Total
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateConverting {
			converted, failed, total := m.manager.GetProgress()
			m.converted = converted
			m.failed = failed
			m.totalFiles = total

			// Calculate percentage and animate progress bar
			var percent float64
			if total > 0 {
				percent = float64(converted+failed) / float64(total)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// listenEvents waits for the next manager event.
func (m Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		return EventMsg{Event: <-m.events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎹 ConvertWithMoss"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Convert Kontakt instruments to SFZ"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateConverting:
		b.WriteString(m.viewConverting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter source folder:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	analyzeCheck := "[ ]"
	if m.analyzeOnly {
		analyzeCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Analyze only, write nothing (ctrl+a)\n", analyzeCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Destination: %s", m.settings.DestinationFolder)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning for instruments..."))
	b.WriteString("\n\n")

	// Show logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewConverting() string {
	var b strings.Builder

	// Files found
	if len(m.files) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d instrument file(s):", len(m.files))))
		b.WriteString("\n")
		for _, file := range m.files {
			b.WriteString(fileStyle.Render(fmt.Sprintf("  ♪ %s", file)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Progress bar
	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.converted+m.failed) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Failed: %d",
		m.converted+m.failed,
		m.totalFiles,
		m.failed,
	)))
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	title := "✨ Conversion Complete!"
	if m.analyzeOnly {
		title = "✨ Analysis Complete!"
	}
	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Converted: %d\n"+
			"Failed: %d\n"+
			"Files: %d",
		title,
		m.converted,
		m.failed,
		m.totalFiles,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case notify.LevelError:
			style = errorStyle
			prefix = "✗"
		case notify.LevelWarning:
			style = warningStyle
			prefix = "!"
		case notify.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case notify.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+a: analyze only • ctrl+v: verbose • esc: quit"
	case StateScanning, StateConverting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new conversion • q: quit"
	}
	return ""
}

// initializeScan scans the source folder and creates the manager.
func (m *Model) initializeScan() tea.Cmd {
	settings := m.settings
	events := m.events
	ctx := m.ctx

	return func() tea.Msg {
		// Bridge manager events into the UI channel. Drop events when the
		// UI cannot keep up, conversion must not block on rendering.
		manager := convert.NewManager(settings, func(event notify.Event) {
			select {
			case events <- event:
			default:
			}
		})

		if err := manager.Initialize(ctx); err != nil {
			return ScanDoneMsg{Err: err}
		}

		// Remember the folders for the next run.
		_ = settings.Save(config.DefaultPath())

		return ScanDoneMsg{
			Files:   manager.GetFiles(),
			Manager: manager,
			Err:     nil,
		}
	}
}

// startConversion runs the actual conversion in background.
func (m *Model) startConversion() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return ConvertDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := m.manager.Start(m.ctx)
		converted, failed, total := m.manager.GetProgress()

		return ConvertDoneMsg{
			Converted: converted,
			Failed:    failed,
			Total:     total,
			Err:       err,
		}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
