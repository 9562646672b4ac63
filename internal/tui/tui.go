// Package tui provides a Bubble Tea terminal user interface for trimtofit.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/trimtofit/internal/audio"
	"github.com/handiism/trimtofit/internal/config"
	"github.com/handiism/trimtofit/internal/model"
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

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateMenu State = iota
	StateInput
	StateProcessing
	StateComplete
	StateError
)

// Operation identifies the audio operation the user picked from the menu.
type Operation int

const (
	OpTrim Operation = iota
	OpSpeed
	OpConvert
	OpMerge
)

var operations = []struct {
	op          Operation
	name        string
	description string
}{
	{OpTrim, "Trim", "Remove (or keep only) time ranges"},
	{OpSpeed, "Speed", "Change playback speed, pitch preserved"},
	{OpConvert, "Convert", "Convert to another audio format"},
	{OpMerge, "Merge", "Concatenate several files into one MP3"},
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   audio.ProgressLevel
}

// tracker collects progress callbacks from the processor goroutine so the
// UI can poll them on its own schedule via TickMsg.
type tracker struct {
	mu       sync.Mutex
	fraction float64
	events   []audio.ProgressEvent
}

func (t *tracker) setFraction(f float64) {
	t.mu.Lock()
	t.fraction = f
	t.mu.Unlock()
}

func (t *tracker) record(event audio.ProgressEvent) {
	t.mu.Lock()
	t.events = append(t.events, event)
	t.mu.Unlock()
}

// drain returns the current fraction and hands over any events recorded
// since the previous call.
func (t *tracker) drain() (float64, []audio.ProgressEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := t.events
	t.events = nil
	return t.fraction, events
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state  State
	op     Operation
	cursor int

	pathInput  textinput.Model
	paramInput textinput.Model
	focusParam bool

	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry

	tracker    *tracker
	outputPath string
	err        error

	ctx    context.Context
	cancel context.CancelFunc

	// Options
	keepSelected bool
	previewMode  bool
	verbose      bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	path := textinput.New()
	path.CharLimit = 500
	path.Width = 60

	param := textinput.New()
	param.CharLimit = 500
	param.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		settings = config.DefaultSettings()
	}

	return Model{
		state:      StateMenu,
		pathInput:  path,
		paramInput: param,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		logs:       make([]LogEntry, 0),
		tracker:    &tracker{},
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProcessDoneMsg is sent when the running operation finishes.
	ProcessDoneMsg struct {
		Output string
		Err    error
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
			switch m.state {
			case StateMenu:
				return m, tea.Quit
			case StateInput:
				m.state = StateMenu
				m.blurInputs()
			case StateProcessing:
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "up", "k":
			if m.state == StateMenu && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.state == StateMenu && m.cursor < len(operations)-1 {
				m.cursor++
			}

		case "enter":
			if m.state == StateMenu {
				m.enterInput(operations[m.cursor].op)
				return m, textinput.Blink
			}
			if m.state == StateInput && m.pathInput.Value() != "" {
				m.state = StateProcessing
				m.logs = nil
				m.tracker = &tracker{}
				return m, tea.Batch(m.startProcessing(), m.spinner.Tick, m.tickProgress())
			}

		case "tab":
			if m.state == StateInput {
				m.focusParam = !m.focusParam
				if m.focusParam {
					m.pathInput.Blur()
					m.paramInput.Focus()
				} else {
					m.paramInput.Blur()
					m.pathInput.Focus()
				}
			}

		case "ctrl+k":
			if m.state == StateInput && m.op == OpTrim {
				m.keepSelected = !m.keepSelected
			}

		case "ctrl+p":
			if m.state == StateInput && m.op == OpTrim {
				m.previewMode = !m.previewMode
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for another operation
				m.state = StateMenu
				m.logs = nil
				m.err = nil
				m.outputPath = ""
				m.tracker = &tracker{}
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.blurInputs()
				m.pathInput.SetValue("")
				m.paramInput.SetValue("")
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProcessDoneMsg:
		m.outputPath = msg.Output
		m.drainEvents()
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateProcessing {
			fraction := m.drainEvents()
			cmds = append(cmds, m.progress.SetPercent(fraction), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text inputs
	if m.state == StateInput {
		var cmd tea.Cmd
		if m.focusParam {
			m.paramInput, cmd = m.paramInput.Update(msg)
		} else {
			m.pathInput, cmd = m.pathInput.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// drainEvents moves pending processor events into the visible log and
// returns the latest progress fraction.
func (m *Model) drainEvents() float64 {
	fraction, events := m.tracker.drain()
	for _, event := range events {
		if event.Level == audio.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	}
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
	return fraction
}

func (m *Model) blurInputs() {
	m.pathInput.Blur()
	m.paramInput.Blur()
	m.focusParam = false
}

// enterInput switches to the input state with placeholders for op.
func (m *Model) enterInput(op Operation) {
	m.op = op
	m.state = StateInput
	m.blurInputs()
	m.pathInput.SetValue("")
	m.paramInput.SetValue("")

	switch op {
	case OpTrim:
		m.pathInput.Placeholder = "song.mp3"
		m.paramInput.Placeholder = "0:30-1:00,2:10-2:45"
	case OpSpeed:
		m.pathInput.Placeholder = "podcast.mp3"
		m.paramInput.Placeholder = "1.5"
	case OpConvert:
		m.pathInput.Placeholder = "song.mp3"
		m.paramInput.Placeholder = "wav"
	case OpMerge:
		m.pathInput.Placeholder = "a.mp3; b.mp3; c.mp3"
		m.paramInput.Placeholder = "merged.mp3"
	}

	m.pathInput.Focus()
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 TrimToFit"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Trim, retime, convert and merge audio with FFmpeg"))
	b.WriteString("\n\n")

	switch m.state {
	case StateMenu:
		b.WriteString(m.viewMenu())
	case StateInput:
		b.WriteString(m.viewInput())
	case StateProcessing:
		b.WriteString(m.viewProcessing())
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

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Choose an operation:"))
	b.WriteString("\n\n")

	for i, entry := range operations {
		cursor := "  "
		nameStyle := infoStyle
		if i == m.cursor {
			cursor = "❯ "
			nameStyle = selectedStyle
		}
		b.WriteString(cursor)
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-8s", entry.name)))
		b.WriteString(dimStyle.Render(entry.description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDirectory)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	pathLabel := "Input file:"
	var paramLabel string
	switch m.op {
	case OpTrim:
		paramLabel = "Ranges to remove:"
		if m.keepSelected {
			paramLabel = "Ranges to keep:"
		}
	case OpSpeed:
		paramLabel = "Speed factor (0.5-2.0):"
	case OpConvert:
		paramLabel = "Target format:"
	case OpMerge:
		pathLabel = "Files to merge (separated by ;):"
		paramLabel = "Output file:"
	}

	b.WriteString(subtitleStyle.Render(pathLabel))
	b.WriteString("\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render(paramLabel))
	b.WriteString("\n")
	b.WriteString(m.paramInput.View())
	b.WriteString("\n\n")

	if m.op == OpTrim {
		keepCheck := "[ ]"
		if m.keepSelected {
			keepCheck = "[×]"
		}
		previewCheck := "[ ]"
		if m.previewMode {
			previewCheck = "[×]"
		}
		b.WriteString(infoStyle.Render("Options:"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s Keep the ranges instead of removing them (ctrl+k)\n", keepCheck))
		b.WriteString(fmt.Sprintf("  %s Preview in the default player (ctrl+p)\n", previewCheck))
	}

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))

	return b.String()
}

func (m Model) viewProcessing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s in progress...", operations[m.op].name)))
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✨ %s Complete!\n\nSaved: %s",
		operations[m.op].name,
		m.outputPath,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case audio.LevelError:
			style = errorStyle
			prefix = "✗"
		case audio.LevelWarning:
			style = warningStyle
			prefix = "!"
		case audio.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case audio.LevelInfo:
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
	case StateMenu:
		return "↑/↓: select • enter: continue • esc: quit"
	case StateInput:
		return "tab: switch field • enter: start • esc: back"
	case StateProcessing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new operation • q: quit"
	}
	return ""
}

// startProcessing runs the selected operation in the background and
// reports the outcome. Progress flows through the tracker, which the UI
// polls via TickMsg.
func (m *Model) startProcessing() tea.Cmd {
	op := m.op
	pathValue := m.pathInput.Value()
	paramValue := strings.TrimSpace(m.paramInput.Value())
	keepSelected := m.keepSelected
	previewMode := m.previewMode
	ctx := m.ctx
	settings := m.settings
	track := m.tracker

	return func() tea.Msg {
		processor := audio.NewProcessor(settings, track.record)
		if err := processor.CheckBinaries(); err != nil {
			return ProcessDoneMsg{Err: err}
		}

		out, err := runOperation(ctx, processor, settings, op, operationParams{
			path:         pathValue,
			param:        paramValue,
			keepSelected: keepSelected,
			preview:      previewMode,
		}, track.setFraction)
		return ProcessDoneMsg{Output: out, Err: err}
	}
}

type operationParams struct {
	path         string
	param        string
	keepSelected bool
	preview      bool
}

func runOperation(ctx context.Context, processor *audio.Processor, settings *config.Settings, op Operation, params operationParams, onProgress audio.ProgressFunc) (string, error) {
	switch op {
	case OpTrim:
		ranges, err := model.ParseRangeList(params.param)
		if err != nil {
			return "", err
		}
		if len(ranges) == 0 {
			return "", fmt.Errorf("no ranges given")
		}
		if params.preview {
			return processor.Preview(ctx, params.path, ranges, params.keepSelected, onProgress)
		}
		output := derivedOutput(params.path, settings.OutputSuffix, "")
		return processor.Trim(ctx, params.path, output, ranges, params.keepSelected, onProgress)

	case OpSpeed:
		factor, err := strconv.ParseFloat(params.param, 64)
		if err != nil {
			return "", fmt.Errorf("invalid speed factor %q", params.param)
		}
		output := derivedOutput(params.path, fmt.Sprintf("_x%g", factor), "")
		return processor.ChangeSpeed(ctx, params.path, output, factor, onProgress)

	case OpConvert:
		format := strings.TrimPrefix(strings.ToLower(params.param), ".")
		if format == "" {
			return "", fmt.Errorf("no target format given")
		}
		output := derivedOutput(params.path, "", "."+format)
		return processor.Convert(ctx, params.path, output, format, onProgress)

	case OpMerge:
		var inputs []string
		for _, part := range strings.Split(params.path, ";") {
			if part = strings.TrimSpace(part); part != "" {
				inputs = append(inputs, part)
			}
		}
		output := params.param
		if output == "" {
			output = "merged.mp3"
		}
		return processor.Merge(ctx, inputs, output, onProgress)
	}
	return "", fmt.Errorf("unknown operation")
}

// derivedOutput builds an output path next to the input: stem + suffix +
// extension. newExt overrides the input extension when non-empty.
func derivedOutput(input, suffix, newExt string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	if newExt != "" {
		ext = newExt
	}
	return filepath.Join(filepath.Dir(input), stem+suffix+ext)
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
