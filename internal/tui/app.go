package tui

import (
	"fmt"

	"github.com/DonovanMods/pitlane/internal/core"
	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewType represents different screens in the TUI
type ViewType int

const (
	ViewGameSelect ViewType = iota
	ViewMods
	ViewProfiles
)

// NavigateMsg is sent to change views
type NavigateMsg struct {
	View ViewType
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// gameLoadedMsg carries the result of scanning a game and reading its profiles
type gameLoadedMsg struct {
	game     *domain.Game
	records  []domain.ModRecord
	profiles []domain.ModProfile
	active   domain.ModProfile
	selected int
	missing  bool // mods folder does not exist
	err      error
}

// conflictsLoadedMsg carries the conflicts one mod takes part in
type conflictsLoadedMsg struct {
	gameID    string
	name      string
	conflicts []domain.ModFileConflict
	err       error
}

// App is the main TUI application model
type App struct {
	service     *core.Service
	keys        *KeyMap
	game        *domain.Game
	currentView ViewType
	width       int
	height      int
	err         error
	status      string
	showHelp    bool
	loading     bool

	// Sub-models for each view; mods and profiles exist once a game is loaded
	gameSelect views.GameSelect
	mods       *views.Mods
	profiles   *views.Profiles
}

// NewApp creates a new TUI application. A non-nil game opens straight on its mods.
func NewApp(service *core.Service, game *domain.Game) App {
	mode := ""
	var games []*domain.Game
	if service != nil {
		mode = service.Config().Keybindings
		games = service.ListGames()
	}
	keys := NewKeyMap(mode)

	a := App{
		service:     service,
		keys:        keys,
		currentView: ViewGameSelect,
		width:       80,
		height:      24,
		gameSelect:  views.NewGameSelect(games, keys),
	}
	if game != nil {
		a, _ = a.startLoad(game, 0)
		a.currentView = ViewMods
	}
	return a
}

// Loading reports whether a scan is in flight
func (a App) Loading() bool {
	return a.loading
}

// CurrentView returns the current view type
func (a App) CurrentView() ViewType {
	return a.currentView
}

// Game returns the game being managed, if one is selected
func (a App) Game() *domain.Game {
	return a.game
}

// Err returns the last error shown to the user
func (a App) Err() error {
	return a.err
}

// Init implements tea.Model. An app opened on a game starts scanning it.
func (a App) Init() tea.Cmd {
	if a.loading && a.mods == nil {
		return a.loadGameCmd(a.game, 0)
	}
	return nil
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case NavigateMsg:
		a.currentView = msg.View
		return a, nil

	case ErrorMsg:
		a.err = msg.Err
		return a, nil

	case views.GameSelectedMsg:
		a.mods, a.profiles = nil, nil
		a.currentView = ViewMods
		next, cmd := a.startLoad(msg.Game, 0)
		return next, cmd

	case gameLoadedMsg:
		return a.applyLoad(msg), nil

	case conflictsLoadedMsg:
		if a.game == nil || msg.gameID != a.game.ID {
			return a, nil
		}
		if msg.err != nil {
			return a.fail(msg.err), nil
		}
		if a.mods != nil {
			m := a.mods.SetConflicts(msg.name, msg.conflicts)
			a.mods = &m
		}
		return a, nil
	}

	if a.game != nil && a.service != nil {
		if next, cmd, handled := a.handleAction(msg); handled {
			return next, cmd
		}
	}

	// Delegate to current view's model
	return a.updateCurrentView(msg)
}

// handleAction applies a view request through the service and reloads the game in the background
func (a App) handleAction(msg tea.Msg) (App, tea.Cmd, bool) {
	gameID := a.game.ID
	store := a.service.Profiles()
	var err error

	switch msg := msg.(type) {
	case views.SaveModsMsg:
		_, err = store.UpdateAppliedMods(gameID, msg.Settings)
		a.status = "Profile saved"

	case views.ShowConflictsMsg:
		return a, a.conflictsCmd(msg), true

	case views.SwitchProfileMsg:
		err = store.SetActive(gameID, msg.Profile.ID)
		a.status = fmt.Sprintf("Switched to %s", msg.Profile.Name)

	case views.CreateProfileMsg:
		var p domain.ModProfile
		p, err = store.Create(gameID, msg.Name)
		a.status = fmt.Sprintf("Created %s", p.Name)

	case views.RenameProfileMsg:
		var p domain.ModProfile
		p, err = store.Rename(gameID, msg.Profile.ID, msg.Name)
		a.status = fmt.Sprintf("Renamed to %s", p.Name)

	case views.DuplicateProfileMsg:
		var p domain.ModProfile
		p, err = store.Duplicate(gameID, msg.Profile.ID, "")
		a.status = fmt.Sprintf("Created %s", p.Name)

	case views.DeleteProfileMsg:
		err = store.Delete(gameID, msg.Profile.ID)
		a.status = fmt.Sprintf("Deleted %s", msg.Profile.Name)

	default:
		return a, nil, false
	}

	if err != nil {
		return a.fail(err), nil, true
	}
	selected := 0
	if a.mods != nil {
		selected = a.mods.Selected()
	}
	next, cmd := a.startLoad(a.game, selected)
	return next, cmd, true
}

func (a App) conflictsCmd(msg views.ShowConflictsMsg) tea.Cmd {
	service, gameID := a.service, a.game.ID
	return func() tea.Msg {
		res, err := service.Conflicts(gameID)
		if err != nil {
			return conflictsLoadedMsg{gameID: gameID, err: err}
		}
		return conflictsLoadedMsg{gameID: gameID, name: msg.Name, conflicts: res.ConflictsFor(msg.Location)}
	}
}

func (a App) fail(err error) App {
	a.err = err
	a.status = ""
	return a
}

// startLoad makes game current and returns the command that rescans it.
// Without a service the views are built empty straight away.
func (a App) startLoad(game *domain.Game, selected int) (App, tea.Cmd) {
	a.game = game
	a.err = nil
	if a.service == nil {
		m := views.NewMods(game, domain.ModProfile{}, nil, a.keys)
		p := views.NewProfiles(game, nil, "", a.keys)
		a.mods, a.profiles = &m, &p
		return a, nil
	}
	a.loading = true
	return a, a.loadGameCmd(game, selected)
}

func (a App) loadGameCmd(game *domain.Game, selected int) tea.Cmd {
	service := a.service
	return func() tea.Msg {
		msg := gameLoadedMsg{game: game, selected: selected}

		records, err := service.Scan(game.ID)
		if err != nil {
			if !core.IsModsRootMissing(err) {
				msg.err = err
				return msg
			}
			msg.missing = true
		}
		msg.records = records

		store := service.Profiles()
		if msg.profiles, msg.err = store.Profiles(game.ID); msg.err != nil {
			return msg
		}
		msg.active, msg.err = store.ActiveProfile(game.ID)
		return msg
	}
}

// applyLoad rebuilds the mods and profiles views from a finished scan.
// Results for a game that is no longer current are dropped.
func (a App) applyLoad(msg gameLoadedMsg) App {
	if a.game == nil || msg.game.ID != a.game.ID {
		return a
	}
	a.loading = false
	if msg.err != nil {
		return a.fail(msg.err)
	}
	if msg.missing {
		a.status = fmt.Sprintf("Mods folder %s is missing", msg.game.ModsPath)
	}

	m := views.NewMods(msg.game, msg.active, msg.records, a.keys).Select(msg.selected)
	p := views.NewProfiles(msg.game, msg.profiles, msg.active.ID, a.keys)
	a.mods, a.profiles = &m, &p
	return a
}

func (a App) editing() bool {
	return a.currentView == ViewProfiles && a.profiles != nil && a.profiles.IsEditing()
}

func (a App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editing() {
		return a.updateCurrentView(msg)
	}

	a.err = nil
	a.status = ""

	// Global keybindings
	switch {
	case a.keys.IsQuit(msg):
		return a, tea.Quit

	case a.keys.IsHelp(msg):
		a.showHelp = !a.showHelp
		return a, nil
	}

	switch msg.String() {
	case "1":
		a.currentView = ViewGameSelect
		return a, nil

	case "2":
		a.currentView = ViewMods
		return a, nil

	case "3":
		a.currentView = ViewProfiles
		return a, nil
	}

	// Delegate to current view
	return a.updateCurrentView(msg)
}

func (a App) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		model tea.Model
		cmd   tea.Cmd
	)

	switch a.currentView {
	case ViewGameSelect:
		model, cmd = a.gameSelect.Update(msg)
		a.gameSelect = model.(views.GameSelect)
	case ViewMods:
		if a.mods != nil {
			model, cmd = a.mods.Update(msg)
			m := model.(views.Mods)
			a.mods = &m
		}
	case ViewProfiles:
		if a.profiles != nil {
			model, cmd = a.profiles.Update(msg)
			p := model.(views.Profiles)
			a.profiles = &p
		}
	}

	return a, cmd
}

// View implements tea.Model
func (a App) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	activeTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	header := titleStyle.Render("pitlane - racing game mod launcher")

	tabs := []string{"[1]Games", "[2]Mods", "[3]Profiles"}
	tabBar := ""
	for i, tab := range tabs {
		if ViewType(i) == a.currentView {
			tabBar += activeTabStyle.Render(tab) + "  "
		} else {
			tabBar += tabStyle.Render(tab) + "  "
		}
	}

	content := a.renderCurrentView()
	if a.showHelp {
		content = a.keys.FullHelp()
	}

	if a.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		content = errStyle.Render(fmt.Sprintf("Error: %v", a.err)) + "\n\n" + content
	} else if a.status != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
		content = statusStyle.Render(a.status) + "\n\n" + content
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	footer := footerStyle.Render(a.keys.NavigationHelp() + "  q: quit  ?: help")

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", header, tabBar, content, footer)
}

func (a App) renderCurrentView() string {
	switch a.currentView {
	case ViewGameSelect:
		return a.gameSelect.View()

	case ViewMods:
		if a.mods != nil {
			return a.mods.View()
		}
		if a.loading {
			return fmt.Sprintf("Mods\n\nScanning %s...", a.game.Name)
		}
		return "Mods\n\nSelect a game first to manage its mods."

	case ViewProfiles:
		if a.profiles != nil {
			return a.profiles.View()
		}
		if a.loading {
			return fmt.Sprintf("Profiles\n\nLoading %s...", a.game.Name)
		}
		return "Profiles\n\nSelect a game first to manage its profiles."

	default:
		return "Unknown view"
	}
}

// Run starts the TUI application
func Run(service *core.Service, game *domain.Game) error {
	app := NewApp(service, game)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
