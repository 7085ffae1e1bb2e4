// Package host owns the glfw window and GL context the viewport draws into.
package host

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"material-scene/core"
)

func init() {
	// glfw and the GL context must stay on the main OS thread.
	runtime.LockOSThread()
}

// PointerHandler receives pointer input from the window.
type PointerHandler interface {
	PointerDown(b core.Button, x, y float64, shift bool)
	PointerMove(x, y float64)
	PointerUp(b core.Button)
	Wheel(dy float64)
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Name      string // container name the viewport looks the window up by
	Resizable bool
	VSync     bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Material Scene",
		Name:      "material-scene",
		Resizable: true,
		VSync:     true,
	}
}

// Window is the glfw host: it owns the GL context, routes resize and pointer
// callbacks, and runs the per-frame loop on the main thread.
type Window struct {
	Handle *glfw.Window
	Name   string

	resizeFns []func(width, height int)
	frameFns  []func(dt float32)

	mu    sync.Mutex
	posts []func()
}

func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{Handle: handle, Name: config.Name}
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		for _, fn := range w.resizeFns {
			fn(width, height)
		}
	})
	return w, nil
}

// Container returns the window itself when name matches; it is the only
// surface this host knows about.
func (w *Window) Container(name string) (core.Surface, bool) {
	if name != w.Name {
		return nil, false
	}
	return w, true
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// PixelRatio is the ratio of framebuffer pixels to window coordinates.
func (w *Window) PixelRatio() float32 {
	fbw, _ := w.Handle.GetFramebufferSize()
	ww, _ := w.Handle.GetSize()
	if ww == 0 {
		return 1
	}
	return float32(fbw) / float32(ww)
}

func (w *Window) OnResize(fn func(width, height int)) {
	w.resizeFns = append(w.resizeFns, fn)
}

// OnFrame registers fn to run once per display refresh.
func (w *Window) OnFrame(fn func(dt float32)) {
	w.frameFns = append(w.frameFns, fn)
}

// SetPointerHandler routes cursor, button and scroll callbacks to h.
func (w *Window) SetPointerHandler(h PointerHandler) {
	w.Handle.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b, ok := toButton(button)
		if !ok {
			return
		}
		switch action {
		case glfw.Press:
			x, y := win.GetCursorPos()
			h.PointerDown(b, x, y, mods&glfw.ModShift != 0)
		case glfw.Release:
			h.PointerUp(b)
		}
	})
	w.Handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		h.PointerMove(x, y)
	})
	w.Handle.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		h.Wheel(yoff)
	})
}

// Post schedules fn on the main loop. Safe to call from any goroutine.
func (w *Window) Post(fn func()) {
	w.mu.Lock()
	w.posts = append(w.posts, fn)
	w.mu.Unlock()
	glfw.PostEmptyEvent()
}

// Run drives the event loop until the window closes or ctx is done.
func (w *Window) Run(ctx context.Context) {
	last := time.Now()
	for !w.Handle.ShouldClose() && ctx.Err() == nil {
		glfw.PollEvents()
		w.drainPosts()

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		for _, fn := range w.frameFns {
			fn(dt)
		}
		w.Handle.SwapBuffers()
	}
}

func (w *Window) drainPosts() {
	w.mu.Lock()
	posts := w.posts
	w.posts = nil
	w.mu.Unlock()
	for _, fn := range posts {
		fn()
	}
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func toButton(b glfw.MouseButton) (core.Button, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return core.ButtonLeft, true
	case glfw.MouseButtonRight:
		return core.ButtonRight, true
	case glfw.MouseButtonMiddle:
		return core.ButtonMiddle, true
	}
	return 0, false
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
