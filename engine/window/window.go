package window

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Key identifies a keyboard key. Values are GLFW key codes.
type Key = glfw.Key

// Window is a native window that a Gpu can present into.
// All methods must be called from the goroutine that created the window.
type Window interface {
	// SurfaceDescriptor returns the platform surface descriptor used to create the WebGPU surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil once the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Size returns the framebuffer size in pixels. On high-DPI displays this differs from the
	// requested window size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (width, height int)

	// SetResizeCallback sets the function called with the new framebuffer size after a resize.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels (or nil to disable)
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the function called for key presses, repeats and releases.
	//
	// Parameters:
	//   - callback: function receiving the key and whether it is held down (or nil to disable)
	SetKeyCallback(callback func(key Key, down bool))

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// PollEvents processes pending window events without blocking.
	PollEvents()

	// Close destroys the window.
	//
	// Returns:
	//   - error: an error if the window was already closed
	Close() error
}

// config holds the options a window is created with.
type config struct {
	title         string
	width         int
	height        int
	resizable     bool
	closeOnEscape bool
}

func newConfig(options ...WindowBuilderOption) config {
	c := config{
		title:         "oxy-gpu",
		width:         1280,
		height:        720,
		resizable:     true,
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(&c)
	}
	c.width = max(c.width, 1)
	c.height = max(c.height, 1)
	return c
}

// NewWindow creates and shows a GLFW window without a client graphics API.
// The calling goroutine's OS thread is locked.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: an error if GLFW could not be initialized or the window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	return newGLFWWindow(newConfig(options...))
}
