package main

import (
	"fmt"

	"material-scene/renderer"
	"material-scene/viewport"
)

// hud shows frame rate and draw counts in the window title once a second.
type hud struct {
	title   string
	win     titled
	engine  *renderer.Engine
	view    *viewport.Viewport
	elapsed float32
	frames  int
}

type titled interface {
	SetTitle(title string)
	OnFrame(fn func(dt float32))
}

func newHUD(win titled, title string, engine *renderer.Engine, v *viewport.Viewport) *hud {
	return &hud{title: title, win: win, engine: engine, view: v}
}

func (h *hud) attach() {
	h.win.OnFrame(h.tick)
}

func (h *hud) tick(dt float32) {
	h.elapsed += dt
	h.frames++
	if h.elapsed < 1 {
		return
	}
	st := h.engine.Stats()
	h.win.SetTitle(fmt.Sprintf("%s | %.0f fps | %d objects (%d culled) | %d tris | %d captures | %d failures",
		h.title, float32(h.frames)/h.elapsed, st.Objects, st.Culled, st.Triangles, st.Captures, h.view.Stats().Failures))
	h.elapsed, h.frames = 0, 0
}
