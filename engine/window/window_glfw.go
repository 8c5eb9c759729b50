package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW implementation of Window.
type glfwWindow struct {
	window *glfw.Window

	width  int
	height int

	onResize func(width, height int)
	onKey    func(key Key, down bool)
}

var _ Window = &glfwWindow{}

// Reference: https://www.glfw.org/docs/latest/window_guide.html
func newGLFWWindow(c config) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU owns presentation, so no OpenGL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if c.resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(c.width, c.height, c.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	w := &glfwWindow{window: win}
	w.width, w.height = win.GetFramebufferSize()

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if c.closeOnEscape && key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
			return
		}
		if w.onKey != nil {
			w.onKey(key, action != glfw.Release)
		}
	})

	// Framebuffer size, not window size, is what the surface must be configured with.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	return w, nil
}

func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.window == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.window)
}

func (w *glfwWindow) Size() (int, int) {
	return w.width, w.height
}

func (w *glfwWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *glfwWindow) SetKeyCallback(callback func(key Key, down bool)) {
	w.onKey = callback
}

func (w *glfwWindow) IsRunning() bool {
	return w.window != nil && !w.window.ShouldClose()
}

func (w *glfwWindow) PollEvents() {
	glfw.PollEvents()
}

func (w *glfwWindow) Close() error {
	if w.window == nil {
		return errors.New("window is already closed")
	}
	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
	return nil
}
