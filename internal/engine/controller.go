package engine

import (
	"runtime"
	"sync"

	"github.com/ghosttype/ghosttype/internal/commit"
	"github.com/ghosttype/ghosttype/internal/config"
	"github.com/ghosttype/ghosttype/internal/ghost"
	"github.com/ghosttype/ghosttype/internal/keybind"
	"github.com/ghosttype/ghosttype/internal/logging"
	"github.com/ghosttype/ghosttype/internal/menu"
	"github.com/ghosttype/ghosttype/internal/suggest"
	"github.com/ghosttype/ghosttype/internal/surface"
	"github.com/ghosttype/ghosttype/internal/word"
)

// Options configures a Controller.
type Options struct {
	// Engine produces completions. Required.
	Engine suggest.Engine

	// Measurer positions ghost previews. Required when Sink is set.
	Measurer word.Measurer

	// Sink receives ghost previews. Nil disables the preview layer.
	Sink ghost.Sink

	// OpenSettings is invoked on the open-settings chord. Optional.
	OpenSettings func()

	// Logger defaults to the null logger.
	Logger *logging.Logger
}

// Controller routes host events through the autocomplete pipeline: the
// surface registry, the suggestion coordinator, the menu, the ghost
// preview, and the commit manager. It is the single place where the
// pieces meet; each piece stays ignorant of the others.
type Controller struct {
	mu sync.Mutex

	registry    *surface.Registry
	coordinator *suggest.Coordinator
	menu        *menu.Menu
	ghost       *ghost.Renderer
	commits     *commit.Manager

	bindings keybind.Bindings
	env      keybind.Environment
	enabled  bool

	openSettings func()
	logger       *logging.Logger
}

// NewController wires the pipeline with the given settings.
func NewController(settings config.Settings, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Null
	}

	c := &Controller{
		menu:         menu.New(),
		env:          keybind.Environment{Mac: runtime.GOOS == "darwin"},
		enabled:      true,
		openSettings: opts.OpenSettings,
		logger:       logger.WithComponent("engine"),
	}

	c.registry = surface.NewRegistry(surface.WithLogger(logger))
	c.coordinator = suggest.NewCoordinator(opts.Engine, c.onSuggestions, suggest.Options{
		Debounce:      settings.DebounceTime,
		MinWordLength: settings.MinWordLength,
		Limit:         settings.MaxSuggestions,
		Logger:        logger,
	})
	c.commits = commit.NewManager(c.registry, logger)
	if opts.Sink != nil {
		c.ghost = ghost.NewRenderer(opts.Sink, opts.Measurer)
	}

	c.applyBindings(settings)
	return c
}

// ApplySettings installs new settings on the live pipeline. Safe to call
// from a config store subscription.
func (c *Controller) ApplySettings(s config.Settings) {
	c.coordinator.SetDebounce(s.DebounceTime)
	c.coordinator.SetMinWordLength(s.MinWordLength)
	c.coordinator.SetLimit(s.MaxSuggestions)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyBindingsLocked(s)
}

func (c *Controller) applyBindings(s config.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyBindingsLocked(s)
}

func (c *Controller) applyBindingsLocked(s config.Settings) {
	c.bindings = s.Bindings()
	c.menu.SetDigitsEnabled(s.NumberSelection && keybind.DigitSelectionAllowed(c.bindings))
	for sig, r := range keybind.CheckBindings(c.bindings, c.env) {
		c.logger.Warn("binding %s is host-reserved (%s): %s", sig, r.Level, r.Reason)
	}
}

// Registry exposes the surface registry for host-side attachment.
func (c *Controller) Registry() *surface.Registry { return c.registry }

// Menu exposes the menu for rendering.
func (c *Controller) Menu() *menu.Menu { return c.menu }

// Enabled reports whether the pipeline is processing events.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetEnabled toggles the pipeline. Disabling tears down any visible
// menu and preview.
func (c *Controller) SetEnabled(on bool) {
	c.mu.Lock()
	c.enabled = on
	c.mu.Unlock()

	if !on {
		c.dismissAll()
	}
}

// Close releases the pipeline.
func (c *Controller) Close() {
	c.dismissAll()
	c.coordinator.Close()
	c.registry.Close()
}

// HandleKey routes a chord. It returns true when the chord was consumed
// and must not reach the surface; false means the host applies its
// normal behavior.
func (c *Controller) HandleKey(surfaceID string, chord keybind.Chord) bool {
	c.mu.Lock()
	enabled := c.enabled
	bindings := c.bindings
	c.mu.Unlock()

	action, bound := bindings.Lookup(chord)

	// Toggle and settings chords work regardless of menu state.
	if bound && action == keybind.ActionToggleGlobal {
		c.SetEnabled(!c.Enabled())
		return true
	}
	if !enabled {
		return false
	}
	if bound && action == keybind.ActionOpenSettings {
		if c.openSettings != nil {
			c.openSettings()
		}
		return true
	}

	// Smart backspace runs before the host deletes anything.
	if chord.Key == "backspace" && chord.Mods.IsEmpty() {
		if state, ok := c.registry.StateOf(surfaceID); ok {
			if c.commits.TrySmartBackspace(surfaceID, state.Caret) {
				c.dismiss(surfaceID)
				return true
			}
		}
		return false
	}

	if c.menu.State() != menu.Visible || c.menu.SurfaceID() != surfaceID {
		return false
	}

	if bound {
		switch action {
		case keybind.ActionInsertWithSpace:
			return c.accept(surfaceID, true)
		case keybind.ActionInsertWithoutSpace:
			return c.accept(surfaceID, false)
		case keybind.ActionNavigateDown:
			c.menu.Next()
			c.refreshSelection(surfaceID)
			return true
		case keybind.ActionNavigateUp:
			c.menu.Prev()
			c.refreshSelection(surfaceID)
			return true
		case keybind.ActionClose:
			c.dismiss(surfaceID)
			return true
		}
	}

	if chord.IsBareDigit() && chord.Key[0] >= '1' {
		if s, ok := c.menu.SelectDigit(int(chord.Key[0] - '0')); ok {
			return c.commitSuggestion(surfaceID, s, true)
		}
	}
	return false
}

// HandleInput reports an edit the host already applied to the surface.
func (c *Controller) HandleInput(surfaceID, text string, caret int) {
	if !c.Enabled() {
		return
	}
	state, err := c.registry.NotifyInput(surfaceID, text, caret)
	if err != nil {
		return
	}
	if c.ghost != nil {
		c.ghost.Clear()
	}
	c.coordinator.Request(surfaceID, state.Word.Prefix)
}

// HandleCaret reports a caret move without a text change. Moving off
// the completed word dismisses the menu; the next edit starts fresh.
func (c *Controller) HandleCaret(surfaceID string, caret int) {
	if !c.Enabled() {
		return
	}
	if _, err := c.registry.NotifyCaret(surfaceID, caret); err != nil {
		return
	}
	c.dismiss(surfaceID)
}

// HandleFocus reports that a surface gained focus.
func (c *Controller) HandleFocus(surfaceID string) {
	c.registry.NotifyFocus(surfaceID)
}

// HandleBlur reports that a surface lost focus.
func (c *Controller) HandleBlur(surfaceID string) {
	c.registry.NotifyBlur(surfaceID)
	c.menu.Blur()
	if c.ghost != nil {
		c.ghost.Clear()
	}
	c.coordinator.Cancel(surfaceID)
}

// HandleDetach reports that a surface left the page.
func (c *Controller) HandleDetach(surfaceID string) {
	if c.menu.SurfaceID() == surfaceID {
		c.menu.Blur()
		if c.ghost != nil {
			c.ghost.Clear()
		}
	}
	c.coordinator.Cancel(surfaceID)
	c.commits.Forget(surfaceID)
	c.registry.Remove(surfaceID)
}

// Hover highlights a menu entry from pointer movement.
func (c *Controller) Hover(surfaceID string, index int) {
	if c.menu.SurfaceID() != surfaceID {
		return
	}
	c.menu.Hover(index)
	c.refreshSelection(surfaceID)
}

// Click accepts a menu entry from a pointer press.
func (c *Controller) Click(surfaceID string, index int) bool {
	if c.menu.SurfaceID() != surfaceID {
		return false
	}
	c.menu.Hover(index)
	return c.accept(surfaceID, true)
}

func (c *Controller) accept(surfaceID string, withSpace bool) bool {
	s, ok := c.menu.SelectedSuggestion()
	if !ok {
		return false
	}
	return c.commitSuggestion(surfaceID, s, withSpace)
}

func (c *Controller) commitSuggestion(surfaceID string, s suggest.Suggestion, withSpace bool) bool {
	if err := c.commits.Commit(surfaceID, s, withSpace); err != nil {
		c.logger.Warn("commit failed on %s: %v", surfaceID, err)
		c.dismiss(surfaceID)
		return false
	}
	c.menu.Committed()
	if c.ghost != nil {
		c.ghost.Clear()
	}
	c.coordinator.Cancel(surfaceID)
	return true
}

func (c *Controller) dismiss(surfaceID string) {
	c.menu.Cancel()
	if c.ghost != nil {
		c.ghost.Clear()
	}
	c.coordinator.Cancel(surfaceID)
}

func (c *Controller) dismissAll() {
	c.menu.Cancel()
	if c.ghost != nil {
		c.ghost.Clear()
	}
	for _, id := range c.registry.IDs() {
		c.coordinator.Cancel(id)
	}
}

// onSuggestions receives coordinator deliveries. It runs on the
// coordinator's timer goroutines.
func (c *Controller) onSuggestions(surfaceID string, suggestions []suggest.Suggestion) {
	state, err := c.registry.SetSuggestions(surfaceID, suggestions)
	if err != nil {
		return
	}
	if c.registry.Focused() != surfaceID {
		return
	}

	c.menu.SetSuggestions(surfaceID, suggestions)
	c.showGhost(surfaceID, state)
}

// refreshSelection mirrors the menu selection into the registry and
// updates the preview to the highlighted word.
func (c *Controller) refreshSelection(surfaceID string) {
	state, err := c.registry.SetSelected(surfaceID, c.menu.Selected())
	if err != nil {
		return
	}
	c.showGhost(surfaceID, state)
}

func (c *Controller) showGhost(surfaceID string, state surface.State) {
	if c.ghost == nil {
		return
	}
	s, ok := c.registry.Surface(surfaceID)
	if !ok {
		return
	}
	sel, has := c.menu.SelectedSuggestion()
	if !has || c.menu.SurfaceID() != surfaceID {
		c.ghost.Clear()
		return
	}
	c.ghost.Show(s, ghost.Remainder(sel.Word, state.Word.Prefix), state.Caret)
}
