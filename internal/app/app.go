// Package app wires the editor, terminal UI, storage and plugins together and
// runs the event loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/blox/internal/config"
	"github.com/bethropolis/blox/internal/core"
	"github.com/bethropolis/blox/internal/core/clipboard"
	"github.com/bethropolis/blox/internal/core/dnd"
	"github.com/bethropolis/blox/internal/core/history"
	"github.com/bethropolis/blox/internal/core/interaction"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/input"
	"github.com/bethropolis/blox/internal/layout"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/modehandler"
	"github.com/bethropolis/blox/internal/plugin"
	"github.com/bethropolis/blox/internal/registry"
	"github.com/bethropolis/blox/internal/statusbar"
	"github.com/bethropolis/blox/internal/storage"
	"github.com/bethropolis/blox/internal/tui"
)

// App encapsulates the core components and main loop of the editor. All
// editor state is touched from the Run goroutine only.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	editor        *core.Editor
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	modeHandler   *modehandler.ModeHandler
	editorAPI     *appEditorAPI
	db            *storage.DB
	pages         *storage.PageStore
	styles        tui.Styles
	themes        *themeControl
	now           func() time.Time

	pageID   string
	modified bool
	layout   *layout.Layout
	scrollY  int
	mouse    mouseState

	// Channels managed by the App
	quit          chan struct{}
	redrawRequest chan struct{}
	saveRequest   chan struct{}
	flushRequest  chan struct{}
	flushPending  bool
}

// NewApp opens the database and the terminal and loads the configured page.
func NewApp(cfg *config.Config) (*App, error) {
	tuiManager, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}
	a, err := newApp(cfg, tuiManager)
	if err != nil {
		tuiManager.Close()
		return nil, err
	}
	return a, nil
}

func newApp(cfg *config.Config, tuiManager *tui.TUI) (*App, error) {
	db, err := storage.Open(cfg.Editor.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	reg := registry.Default()
	if len(cfg.Canvas.InlineEditable) > 0 {
		reg.SetInlineEditable(cfg.Canvas.InlineEditable)
	}

	eventManager := event.NewManager()
	editor := core.NewEditor(core.Options{
		History: history.Config{
			MaxEntries:     cfg.History.MaxEntries,
			CoalesceWindow: cfg.History.CoalesceWindow.Duration,
		},
		DnD: dnd.Config{
			ThrottleInterval:   cfg.DnD.ThrottleInterval.Duration,
			IndicatorThickness: float64(cfg.DnD.IndicatorThickness),
		},
		Interaction: interaction.Config{HoverThrottle: cfg.Canvas.HoverThrottle.Duration},
		Registry:    reg,
		Clipboard:   clipboard.NewBackend(cfg.Editor.SystemClipboard),
		Events:      eventManager,
	})

	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		editor:        editor,
		statusBar:     statusbar.New(statusbar.DefaultConfig()),
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		db:            db,
		pages:         storage.NewPageStore(db),
		styles:        tui.DefaultStyles(),
		now:           time.Now,
		quit:          make(chan struct{}, 1),
		redrawRequest: make(chan struct{}, 1),
		saveRequest:   make(chan struct{}, 1),
		flushRequest:  make(chan struct{}, 1),
	}

	a.modeHandler = modehandler.New(modehandler.Config{
		Editor:         editor,
		InputProcessor: input.NewInputProcessor(),
		StatusBar:      a.statusBar,
		Host:           a,
		QuitSignal:     a.quit,
	})
	a.editorAPI = newEditorAPI(a)
	a.themes = newThemeControl(a, cfg.Canvas.ThemesDir, cfg.Canvas.Theme)

	a.subscribeEvents()

	if err := registerPlugins(a.pluginManager, cfg); err != nil {
		logger.Warnf("App: %v", err)
	}
	if err := registerAppCommands(a); err != nil {
		logger.Warnf("App: %v", err)
	}
	if err := a.pluginManager.InitializePlugins(a.editorAPI); err != nil {
		logger.Warnf("App: %v", err)
	}

	if err := a.openPage(cfg.Editor.PageID); err != nil {
		a.shutdown()
		return nil, err
	}
	a.relayout()
	return a, nil
}

// Run starts the application's main loop and returns when the user quits.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.shutdown()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go a.pollEvents(events, done)

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("blox - Ctrl+S Save | :q Quit | double-click to edit")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.modified {
				logger.Warnf("App: Exited with unsaved changes on page %q", a.pageID)
			}
			logger.Infof("Exiting application.")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.handleEvent(ev) {
				a.requestRedraw()
			}
		case <-a.saveRequest:
			if err := a.Save(); err != nil {
				a.statusBar.SetTemporaryMessage("Autosave failed: %v", err)
			}
			a.requestRedraw()
		case <-a.flushRequest:
			a.flushPending = false
			a.flush()
		case <-a.redrawRequest:
			a.drawEditor()
		}
	}
}

// pollEvents forwards terminal events until the screen is finalized.
func (a *App) pollEvents(out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			close(out)
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// handleEvent processes one terminal event and reports whether a redraw is
// needed.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
		a.relayout()
		return true
	case *tcell.EventKey:
		redraw := a.modeHandler.HandleKeyEvent(ev)
		a.clampScroll()
		return redraw
	case *tcell.EventMouse:
		return a.handleMouse(ev)
	}
	return false
}

func (a *App) shutdown() {
	if a.editor == nil {
		return
	}
	a.pluginManager.ShutdownPlugins()
	a.editor.Close()
	if err := a.db.Close(); err != nil {
		logger.Warnf("App: Closing database: %v", err)
	}
	a.editor = nil
}

// --- Page persistence (modehandler.Host and commands.Host) ---

// Modified reports unsaved changes on the open page.
func (a *App) Modified() bool {
	return a.modified
}

// Save writes the open page to the database.
func (a *App) Save() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	records := a.editor.Records()
	if err := a.pages.Save(ctx, a.pageID, a.pageID, records); err != nil {
		return fmt.Errorf("save page %q: %w", a.pageID, err)
	}
	a.modified = false
	a.statusBar.SetTemporaryMessage("Saved %s (%d blocks)", a.pageID, len(records))
	a.eventManager.Dispatch(event.TypeDocumentSaved, event.DocumentSavedData{PageID: a.pageID, Blocks: len(records)})
	return nil
}

// Open switches to another page, refusing while the open one has unsaved
// changes.
func (a *App) Open(pageID string) error {
	if a.modified {
		return errUnsaved
	}
	if err := a.openPage(pageID); err != nil {
		return err
	}
	a.relayout()
	return nil
}

// openPage loads pageID, or starts it with an empty Body when it was never saved.
func (a *App) openPage(pageID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	records, err := a.pages.Load(ctx, pageID)
	if errors.Is(err, storage.ErrPageNotFound) {
		logger.Infof("App: Page %q not found, starting a new one", pageID)
		records = newPageRecords()
	} else if err != nil {
		return fmt.Errorf("open page %q: %w", pageID, err)
	}

	prev := a.pageID
	a.pageID = pageID
	if err := a.editor.Load(records); err != nil {
		a.pageID = prev
		return fmt.Errorf("open page %q: %w", pageID, err)
	}
	return nil
}

func (a *App) Pages(ctx context.Context) ([]storage.Page, error) {
	return a.pages.List(ctx)
}

func (a *App) DeletePage(ctx context.Context, pageID string) error {
	return a.pages.Delete(ctx, pageID)
}

// Quit ends the main loop. Without force it refuses while changes are unsaved.
func (a *App) Quit(force bool) error {
	if a.modified && !force {
		return errUnsaved
	}
	select {
	case a.quit <- struct{}{}:
	default:
	}
	return nil
}

// RequestSave asks the main loop to save. Safe from any goroutine.
func (a *App) RequestSave() {
	select {
	case a.saveRequest <- struct{}{}:
	default:
	}
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}
