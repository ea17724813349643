// Package tui provides the Bubble Tea terminal user interface for
// ytmusic-finder. The Update loop is the application's event router:
// key events are translated into state machine transitions and
// component calls, and component outcomes arrive back as messages.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/ytmusic-finder/internal/clipboard"
	"github.com/handiism/ytmusic-finder/internal/config"
	"github.com/handiism/ytmusic-finder/internal/download"
	"github.com/handiism/ytmusic-finder/internal/eventlog"
	"github.com/handiism/ytmusic-finder/internal/library"
	"github.com/handiism/ytmusic-finder/internal/model"
	"github.com/handiism/ytmusic-finder/internal/search"
	"github.com/handiism/ytmusic-finder/internal/selection"
)

// palette holds the styles of one theme.
type palette struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	success  lipgloss.Style
	errStyle lipgloss.Style
	warning  lipgloss.Style
	info     lipgloss.Style
	dim      lipgloss.Style
	selected lipgloss.Style
	box      lipgloss.Style
}

func darkPalette() palette {
	return palette{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3")),
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
		info:     lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F8B500")),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1),
	}
}

func lightPalette() palette {
	return palette{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B22222")),
		subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#00688B")),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#2E8B57")),
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#B22222")),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#8B6914")),
		info:     lipgloss.NewStyle().Foreground(lipgloss.Color("#36648B")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#8B8B83")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CD6600")),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00688B")).
			Padding(0, 1),
	}
}

// focusArea identifies which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

// Message types
type (
	// searchUpdateMsg carries a search outcome from the coordinator.
	searchUpdateMsg search.Update

	// jobUpdateMsg carries a download job state snapshot.
	jobUpdateMsg download.Job

	// libraryLoadedMsg carries the full library for display.
	libraryLoadedMsg struct {
		Songs []model.Song
		Err   error
	}

	// shutdownDoneMsg is sent when the job manager finished draining.
	shutdownDoneMsg struct{}
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	settings *config.Settings
	log      *eventlog.Buffer

	coordinator *search.Coordinator
	machine     *selection.Machine
	manager     *download.Manager
	clip        *clipboard.Bridge
	lib         *library.Store // nil when the library failed to open

	textInput textinput.Model
	spinner   spinner.Model

	focus     focusArea
	dark      bool
	styles    palette
	searching bool
	lastQuery string
	quitting  bool

	width  int
	height int
}

// NewModel creates the TUI model and reports startup capabilities.
func NewModel(settings *config.Settings, log *eventlog.Buffer, coordinator *search.Coordinator,
	manager *download.Manager, clip *clipboard.Bridge, lib *library.Store) Model {

	ti := textinput.New()
	ti.Placeholder = "Search YouTube Music..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	if avail := manager.Availability(); avail.Found {
		log.Append("download", eventlog.LevelSuccess, fmt.Sprintf("%s found (%s)", avail.Command, avail.Path))
	} else {
		log.Append("download", eventlog.LevelWarning, fmt.Sprintf("%q not found on PATH, downloads will fail", avail.Command))
	}
	if clip.Available() {
		log.Append("clipboard", eventlog.LevelSuccess, "Clipboard available, press c to copy a link")
	} else {
		log.Append("clipboard", eventlog.LevelWarning, "No clipboard tool found, copying disabled")
	}
	if lib == nil {
		log.Append("library", eventlog.LevelWarning, "Library unavailable, results will not be saved")
	}

	return Model{
		settings:    settings,
		log:         log,
		coordinator: coordinator,
		machine:     selection.NewMachine(),
		manager:     manager,
		clip:        clip,
		lib:         lib,
		textInput:   ti,
		spinner:     sp,
		focus:       focusInput,
		dark:        true,
		styles:      darkPalette(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		listenSearch(m.coordinator),
		listenDownloads(m.manager),
	)
}

// listenSearch waits for the next search outcome. The command is
// re-armed after every delivery.
func listenSearch(c *search.Coordinator) tea.Cmd {
	return func() tea.Msg {
		return searchUpdateMsg(<-c.Updates())
	}
}

// listenDownloads waits for the next job state snapshot.
func listenDownloads(mgr *download.Manager) tea.Cmd {
	return func() tea.Msg {
		return jobUpdateMsg(<-mgr.Updates())
	}
}

// loadLibrary reads the full library off the UI loop.
func (m Model) loadLibrary() tea.Cmd {
	lib := m.lib
	return func() tea.Msg {
		songs, err := lib.LoadAll(context.Background())
		return libraryLoadedMsg{Songs: songs, Err: err}
	}
}

// saveToLibrary stores search results in the background; the outcome is
// a log entry, not a view change.
func (m Model) saveToLibrary(songs []model.Song) tea.Cmd {
	lib, log := m.lib, m.log
	return func() tea.Msg {
		added, err := lib.Save(context.Background(), songs)
		if err != nil {
			log.Append("library", eventlog.LevelWarning, fmt.Sprintf("Library save failed: %v", err))
		} else if added > 0 {
			log.Append("library", eventlog.LevelVerbose, fmt.Sprintf("Saved %d new songs to the library", added))
		}
		return nil
	}
}

// shutdown drains the job manager off the UI loop, then quits.
func (m Model) shutdown() tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		mgr.Shutdown()
		return shutdownDoneMsg{}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 20
		if m.textInput.Width > 80 {
			m.textInput.Width = 80
		}
		if m.textInput.Width < 20 {
			m.textInput.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case searchUpdateMsg:
		cmds = append(cmds, listenSearch(m.coordinator))
		cmds = append(cmds, m.applySearchUpdate(search.Update(msg))...)

	case jobUpdateMsg:
		// Terminal transitions were already logged by the manager;
		// the message only triggers a re-render.
		cmds = append(cmds, listenDownloads(m.manager))

	case libraryLoadedMsg:
		if msg.Err != nil {
			m.log.Append("library", eventlog.LevelError, fmt.Sprintf("Library load failed: %v", msg.Err))
		} else {
			m.machine.ApplyResults(m.coordinator.Invalidate(), msg.Songs, false)
			m.lastQuery = "library"
			m.focus = focusResults
			m.textInput.Blur()
			m.log.Append("library", eventlog.LevelInfo, fmt.Sprintf("Showing %d songs from the library", len(msg.Songs)))
		}

	case shutdownDoneMsg:
		return m, tea.Quit
	}

	if m.focus == focusInput && !m.quitting {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applySearchUpdate routes a coordinator outcome into the state machine.
func (m *Model) applySearchUpdate(u search.Update) []tea.Cmd {
	m.searching = false

	if u.Err != nil {
		// Keep prior results; record the failed submission's seq so a
		// still-older in-flight lookup cannot apply either.
		m.machine.ObserveSeq(u.Seq)
		return nil
	}

	cleared := u.Query == ""
	if !m.machine.ApplyResults(u.Seq, u.Songs, cleared) {
		return nil
	}
	m.lastQuery = u.Query

	if cleared {
		m.focus = focusInput
		m.textInput.Focus()
		return nil
	}

	if len(u.Songs) == 0 {
		m.log.Append("search", eventlog.LevelWarning, fmt.Sprintf("No music found for %q", u.Query))
		return nil
	}

	m.focus = focusResults
	m.textInput.Blur()

	if m.lib != nil && m.settings.SaveToLibrary {
		return []tea.Cmd{m.saveToLibrary(u.Songs)}
	}
	return nil
}

// handleKey routes key events by focus area.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	// Keys handled regardless of focus.
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "tab":
		if m.focus == focusInput {
			m.focus = focusResults
			m.textInput.Blur()
		} else {
			m.focus = focusInput
			m.machine.Back()
			m.textInput.Focus()
		}
		return m, nil
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleResultsKey(msg)
}

// handleInputKey handles keys while the search input is focused.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = strings.TrimSpace(m.textInput.Value()) != ""
		m.coordinator.SubmitNow(m.textInput.Value())
		return m, m.spinner.Tick

	case "esc":
		if m.machine.View() != selection.ViewIdle {
			m.focus = focusResults
			m.textInput.Blur()
			return m, nil
		}
		return m.quit()

	case "up", "down":
		if len(m.machine.Songs()) > 0 {
			m.focus = focusResults
			m.textInput.Blur()
		}
		return m, nil
	}

	// Any other key edits the query; a changed query is debounced into
	// a new submission.
	before := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if after := m.textInput.Value(); after != before {
		m.searching = strings.TrimSpace(after) != ""
		m.coordinator.Submit(after)
	}
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// handleResultsKey handles keys while the results pane is focused.
func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	case "esc", "left":
		if m.machine.View() == selection.ViewDetail {
			m.machine.Back()
		} else {
			m.focus = focusInput
			m.textInput.Focus()
		}

	case "up", "k":
		m.machine.MoveUp()

	case "down", "j":
		m.machine.MoveDown()

	case "right", "v":
		m.machine.Confirm()

	case "enter":
		return m, m.triggerDownload()

	case "c":
		m.copyLink()

	case "d":
		m.dark = !m.dark
		if m.dark {
			m.styles = darkPalette()
		} else {
			m.styles = lightPalette()
		}

	case "l":
		if m.lib == nil {
			m.log.Append("library", eventlog.LevelWarning, "Library unavailable")
			return m, nil
		}
		return m, m.loadLibrary()

	case "/":
		m.focus = focusInput
		m.textInput.Focus()
	}

	return m, nil
}

// triggerDownload enqueues the selected song. No selection is a no-op.
func (m *Model) triggerDownload() tea.Cmd {
	song, ok := m.machine.Selected()
	if !ok {
		return nil
	}
	if _, err := m.manager.Enqueue(song); err != nil {
		m.log.Append("download", eventlog.LevelError, fmt.Sprintf("Cannot queue %q: %v", song.Title, err))
	}
	return nil
}

// copyLink copies the selected song's canonical URL.
func (m *Model) copyLink() {
	song, ok := m.machine.Selected()
	if !ok {
		m.log.Append("clipboard", eventlog.LevelWarning, "No song selected to copy")
		return
	}
	if err := m.clip.Copy(song.URL); err != nil {
		m.log.Append("clipboard", eventlog.LevelError, fmt.Sprintf("Copy failed: %v", err))
		return
	}
	m.log.Append("clipboard", eventlog.LevelInfo, fmt.Sprintf("Copied link for %q", song.Title))
}

// quit begins shutdown: queued downloads are cancelled, a running one
// gets the configured grace period.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, m.shutdown()
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("♪ ytmusic-finder"))
	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render("Search YouTube Music and download with " + m.settings.DownloadCommand))
	b.WriteString("\n\n")

	if m.quitting {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.styles.subtitle.Render("Shutting down, cancelling queued downloads..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.textInput.View())
	if m.searching {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n\n")

	switch m.machine.View() {
	case selection.ViewIdle:
		b.WriteString(m.styles.dim.Render("Type to search. Results appear as you stop typing."))
		b.WriteString("\n")
	case selection.ViewResults:
		b.WriteString(m.viewResults())
	case selection.ViewDetail:
		b.WriteString(m.viewDetail())
	}

	b.WriteString("\n")
	b.WriteString(m.viewLog())
	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render(m.helpText()))

	return b.String()
}

// maxVisibleResults bounds the list so the log stays on screen.
const maxVisibleResults = 10

func (m Model) viewResults() string {
	var b strings.Builder

	songs := m.machine.Songs()
	if len(songs) == 0 {
		b.WriteString(m.styles.warning.Render(fmt.Sprintf("No results for %q", m.lastQuery)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.styles.subtitle.Render(fmt.Sprintf("%d results", len(songs))))
	b.WriteString("\n")

	// Window the list around the selection.
	start := 0
	if idx := m.machine.Index(); idx >= maxVisibleResults {
		start = idx - maxVisibleResults + 1
	}
	end := start + maxVisibleResults
	if end > len(songs) {
		end = len(songs)
	}

	for i := start; i < end; i++ {
		song := songs[i]
		line := fmt.Sprintf("%s — %s (%s)", song.Title, song.Artist, song.Duration)
		if song.Explicit {
			line += " [E]"
		}
		if i == m.machine.Index() {
			b.WriteString(m.styles.selected.Render("▶ " + line))
		} else {
			b.WriteString("  " + m.styles.info.Render(line))
		}
		b.WriteString("\n")
	}

	if end < len(songs) {
		b.WriteString(m.styles.dim.Render(fmt.Sprintf("  … %d more", len(songs)-end)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDetail() string {
	song, ok := m.machine.Selected()
	if !ok {
		return ""
	}

	explicit := "No"
	if song.Explicit {
		explicit = "Yes"
	}

	content := fmt.Sprintf(
		"%s\n\nArtist:   %s\nAlbum:    %s\nDuration: %s\nExplicit: %s\nLink:     %s",
		m.styles.title.Render(song.Title),
		song.Artist, song.Album, song.Duration, explicit, song.URL,
	)

	return m.styles.box.Render(content) + "\n"
}

// maxVisibleLogs bounds the rendered tail of the event log.
const maxVisibleLogs = 8

func (m Model) viewLog() string {
	var b strings.Builder

	entries := m.log.Snapshot()
	if len(entries) > maxVisibleLogs {
		entries = entries[len(entries)-maxVisibleLogs:]
	}

	for _, entry := range entries {
		var style lipgloss.Style
		prefix := "•"
		switch entry.Level {
		case eventlog.LevelError:
			style = m.styles.errStyle
			prefix = "✗"
		case eventlog.LevelWarning:
			style = m.styles.warning
			prefix = "!"
		case eventlog.LevelSuccess:
			style = m.styles.success
			prefix = "✓"
		case eventlog.LevelInfo:
			style = m.styles.info
			prefix = "›"
		default:
			style = m.styles.dim
		}
		b.WriteString(style.Render(prefix + " " + entry.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	if m.focus == focusInput {
		return "enter: search • tab: results • esc: quit"
	}
	switch m.machine.View() {
	case selection.ViewDetail:
		return "enter: download • c: copy link • esc: back • q: quit"
	default:
		return "↑/↓: select • enter: download • →: details • c: copy • l: library • d: theme • /: search • q: quit"
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, log *eventlog.Buffer, coordinator *search.Coordinator,
	manager *download.Manager, clip *clipboard.Bridge, lib *library.Store) error {

	model := NewModel(settings, log, coordinator, manager, clip, lib)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
