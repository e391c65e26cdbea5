package main

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ghosttype/ghosttype/internal/engine"
	"github.com/ghosttype/ghosttype/internal/ghost"
	"github.com/ghosttype/ghosttype/internal/keybind"
	"github.com/ghosttype/ghosttype/internal/logging"
	"github.com/ghosttype/ghosttype/internal/menu"
	"github.com/ghosttype/ghosttype/internal/surface"
	"github.com/ghosttype/ghosttype/internal/word"
)

const (
	fieldX     = 4
	firstRow   = 3
	fieldGap   = 3
	fieldCount = 2
)

// UI renders the playground: two editable fields, the suggestion menu,
// and the ghost preview. It implements ghost.Sink so the renderer can
// push previews at it.
type UI struct {
	screen tcell.Screen
	logger *logging.Logger

	mu        sync.Mutex
	preview   ghost.Preview
	previewAt word.Point
	hasGhost  bool

	fields []*surface.Field
	focus  int
}

func newUI(logger *logging.Logger) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &UI{screen: screen, logger: logger.WithComponent("ui")}, nil
}

// ShowPreview implements ghost.Sink. It may be called from coordinator
// goroutines; drawing happens on the event loop after a wakeup.
func (u *UI) ShowPreview(p ghost.Preview, at word.Point) {
	u.mu.Lock()
	u.preview = p
	u.previewAt = at
	u.hasGhost = true
	u.mu.Unlock()
	u.wake()
}

// HidePreview implements ghost.Sink.
func (u *UI) HidePreview() {
	u.mu.Lock()
	u.hasGhost = false
	u.mu.Unlock()
	u.wake()
}

func (u *UI) wake() {
	// Ignored when the loop already stopped.
	_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run owns the terminal until the user quits with ctrl+c.
func (u *UI) Run(ctrl *engine.Controller) error {
	if err := u.screen.Init(); err != nil {
		return err
	}
	defer u.screen.Fini()

	kinds := []surface.Kind{surface.KindPlain, surface.KindMultiline}
	for i := 0; i < fieldCount; i++ {
		f := surface.NewField(surface.FieldConfig{
			Kind: kinds[i%len(kinds)],
			Geometry: word.Geometry{
				ContentX: fieldX + 1,
				ContentY: float64(firstRow + 1 + i*fieldGap),
				Font:     word.FontDescriptor{Size: 1, LineHeight: 1},
			},
		})
		if err := ctrl.Registry().Add(f); err != nil {
			return fmt.Errorf("adding field: %w", err)
		}
		u.fields = append(u.fields, f)
	}
	ctrl.HandleFocus(u.fields[0].ID())

	ctrl.Menu().SetChangeListener(func(string, menu.State, int) { u.wake() })

	u.draw(ctrl)
	for {
		switch ev := u.screen.PollEvent().(type) {
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventInterrupt:
			// Redraw below.
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			u.handleKey(ctrl, ev)
		case nil:
			return nil
		}
		u.draw(ctrl)
	}
}

func (u *UI) handleKey(ctrl *engine.Controller, ev *tcell.EventKey) {
	f := u.fields[u.focus]

	if ev.Key() == tcell.KeyF2 {
		ctrl.HandleBlur(f.ID())
		u.focus = (u.focus + 1) % len(u.fields)
		ctrl.HandleFocus(u.fields[u.focus].ID())
		return
	}

	chord, ok := chordFrom(ev)
	if ok && ctrl.HandleKey(f.ID(), chord) {
		return
	}

	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return
		}
		f.InsertRune(ev.Rune())
		ctrl.HandleInput(f.ID(), f.Value(), f.Caret())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if f.DeleteBeforeCaret() {
			ctrl.HandleInput(f.ID(), f.Value(), f.Caret())
		}
	case tcell.KeyLeft:
		f.SetCaret(f.Caret() - 1)
		ctrl.HandleCaret(f.ID(), f.Caret())
	case tcell.KeyRight:
		f.SetCaret(f.Caret() + 1)
		ctrl.HandleCaret(f.ID(), f.Caret())
	case tcell.KeyHome:
		f.SetCaret(0)
		ctrl.HandleCaret(f.ID(), f.Caret())
	case tcell.KeyEnd:
		f.SetCaret(len([]rune(f.Value())))
		ctrl.HandleCaret(f.ID(), f.Caret())
	}
}

// chordFrom converts a tcell key event into a chord. Plain runes with no
// modifiers are text input, not chords, except digits, which double as
// menu selectors.
func chordFrom(ev *tcell.EventKey) (keybind.Chord, bool) {
	var mods keybind.Modifier
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= keybind.ModShift
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= keybind.ModCtrl
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= keybind.ModAlt
	}
	if ev.Modifiers()&tcell.ModMeta != 0 {
		mods |= keybind.ModCmd
	}

	switch key := ev.Key(); {
	case key == tcell.KeyTab:
		return keybind.Chord{Key: "tab", Mods: mods}, true
	case key == tcell.KeyBacktab:
		return keybind.Chord{Key: "tab", Mods: mods | keybind.ModShift}, true
	case key == tcell.KeyEnter:
		return keybind.Chord{Key: "enter", Mods: mods}, true
	case key == tcell.KeyEscape:
		return keybind.Chord{Key: "escape", Mods: mods}, true
	case key == tcell.KeyUp:
		return keybind.Chord{Key: "up", Mods: mods}, true
	case key == tcell.KeyDown:
		return keybind.Chord{Key: "down", Mods: mods}, true
	case key == tcell.KeyBackspace || key == tcell.KeyBackspace2:
		return keybind.Chord{Key: "backspace", Mods: mods}, true
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		letter := rune('a' + (key - tcell.KeyCtrlA))
		return keybind.Chord{Key: string(letter), Mods: mods | keybind.ModCtrl}, true
	case key == tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return keybind.Chord{Key: "space", Mods: mods}, true
		}
		return keybind.Chord{Key: string(r), Mods: mods}, true
	}
	return keybind.Chord{}, false
}

func (u *UI) draw(ctrl *engine.Controller) {
	u.screen.Clear()
	width, _ := u.screen.Size()

	base := tcell.StyleDefault
	title := base.Bold(true)
	drawText(u.screen, fieldX, 1, title, "ghosttype playground")
	drawText(u.screen, fieldX+21, 1, base.Dim(true), "F2 switch field, ctrl+c quit")

	for i, f := range u.fields {
		u.drawField(i, f, i == u.focus, width)
	}

	u.drawGhost()
	u.drawMenu(ctrl)
	u.drawCaret()
	u.screen.Show()
}

func (u *UI) drawField(i int, f *surface.Field, focused bool, width int) {
	row := firstRow + i*fieldGap
	style := tcell.StyleDefault
	label := style.Dim(true)
	if focused {
		label = style.Foreground(tcell.ColorYellow)
	}
	drawText(u.screen, fieldX, row, label, fmt.Sprintf("field %d", i+1))

	boxW := width - 2*fieldX
	if boxW < 10 {
		boxW = 10
	}
	for x := 0; x < boxW; x++ {
		u.screen.SetContent(fieldX+x, row+1, ' ', nil, style.Background(tcell.ColorDarkSlateGray))
	}
	drawText(u.screen, fieldX+1, row+1, style.Background(tcell.ColorDarkSlateGray), f.Value())
}

// drawGhost renders the preview dimmed toward the field background so it
// reads as provisional text.
func (u *UI) drawGhost() {
	u.mu.Lock()
	p, at, ok := u.preview, u.previewAt, u.hasGhost
	u.mu.Unlock()
	if !ok || p.Text == "" {
		return
	}

	fg := colorfulFrom(tcell.ColorWhite)
	bg := colorfulFrom(tcell.ColorDarkSlateGray)
	dim := fg.BlendLab(bg, 0.55)
	r, g, b := dim.RGB255()

	style := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))).
		Background(tcell.ColorDarkSlateGray).
		Italic(true)
	drawText(u.screen, int(at.X), int(at.Y), style, p.Text)
}

func (u *UI) drawMenu(ctrl *engine.Controller) {
	m := ctrl.Menu()
	if m.State() != menu.Visible {
		return
	}
	items := m.Items()
	selected := m.Selected()

	f := u.fields[u.focus]
	at := word.CaretPosition(word.MonoMeasurer{}, f.Geometry(), f.Value(), f.Caret())
	row := int(at.Y) + 1

	for i, item := range items {
		style := tcell.StyleDefault
		if i == selected {
			style = style.Reverse(true)
		}
		drawText(u.screen, int(at.X), row+i, style, fmt.Sprintf(" %d %-18s", i+1, item.Word))
	}
}

func (u *UI) drawCaret() {
	f := u.fields[u.focus]
	at := word.CaretPosition(word.MonoMeasurer{}, f.Geometry(), f.Value(), f.Caret())
	u.screen.ShowCursor(int(at.X), int(at.Y))
}

func colorfulFrom(c tcell.Color) colorful.Color {
	r, g, b := c.TrueColor().RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
