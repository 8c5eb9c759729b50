package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gpu/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// engine implements the Engine interface.
type engine struct {
	window window.Window
	gpu    gpu.Gpu

	windowOptions []window.WindowBuilderOption
	gpuOptions    []gpu.GpuBuilderOption

	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once

	// resizeChannel carries the latest framebuffer size from the window thread to the render goroutine.
	resizeChannel chan [2]int

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate         time.Duration
	tickCallback     func(deltaTime float32)
	renderCallback   func(frame *Frame) error
	renderFrameLimit time.Duration
	clearColor       wgpu.Color

	renderErr error
}

// Engine ties a window, a Gpu and the per-frame render callback together.
type Engine interface {
	// Window returns the window frames are presented into.
	Window() window.Window

	// Gpu returns the Gpu presenting into the window.
	Gpu() gpu.Gpu

	// SetTickCallback registers the function called at the fixed tick rate.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function that records each frame's commands.
	// Returning an error stops the engine and is returned from Run.
	// Without a callback frames are cleared to the clear color.
	//
	// Parameters:
	//   - callback: function receiving the frame to record into
	SetRenderCallback(callback func(frame *Frame) error)

	// Run shows frames until the window closes or Quit is called. Blocks on the calling
	// goroutine, which must be the one that created the window. The Gpu is released and the
	// window closed before Run returns.
	//
	// Returns:
	//   - error: the error that stopped rendering, if any
	Run() error

	// Quit stops the engine. Safe to call more than once.
	Quit()
}

// NewEngine creates an Engine. A window and Gpu are created from the configured options unless
// supplied with WithWindow and WithGpu.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine
//   - error: an error if the window or Gpu could not be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		quitChannel:   make(chan struct{}),
		resizeChannel: make(chan [2]int, 1),
		tickRate:      time.Second / 60,
		clearColor:    wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		w, err := window.NewWindow(e.windowOptions...)
		if err != nil {
			return nil, err
		}
		e.window = w
	}
	if e.gpu == nil {
		width, height := e.window.Size()
		g, err := gpu.NewGpu(e.window.SurfaceDescriptor(), width, height, e.gpuOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to create gpu: %w", err)
		}
		e.gpu = g
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithResources(e.gpu.Resources()))
	}

	e.window.SetResizeCallback(e.queueResize)
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Gpu() gpu.Gpu {
	return e.gpu
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(frame *Frame) error) {
	e.renderCallback = callback
}

func (e *engine) Run() error {
	e.wg.Add(2)
	go e.handleTick()
	go e.handleRender()

loop:
	for e.window.IsRunning() {
		select {
		case <-e.quitChannel:
			break loop
		default:
		}
		e.window.PollEvents()
		time.Sleep(time.Millisecond)
	}

	e.Quit()
	e.wg.Wait()

	e.gpu.Release()
	if err := e.window.Close(); err != nil {
		log.Printf("[Engine] %v", err)
	}
	return e.renderErr
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// queueResize keeps only the latest pending size.
func (e *engine) queueResize(width, height int) {
	size := [2]int{width, height}
	select {
	case e.resizeChannel <- size:
	default:
		select {
		case <-e.resizeChannel:
		default:
		}
		e.resizeChannel <- size
	}
}

func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		}
	}
}

func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.renderErr = fmt.Errorf("render panic: %v", r)
			e.Quit()
		}
	}()

	last := time.Now()
	var index uint64

	for {
		select {
		case <-e.quitChannel:
			return
		case size := <-e.resizeChannel:
			e.gpu.Resize(size[0], size[1])
			continue
		default:
		}

		start := time.Now()
		dt := float32(start.Sub(last).Seconds())
		last = start

		if err := e.renderFrame(index, dt); err != nil {
			var skip *skipFrameError
			if !errors.As(err, &skip) {
				e.renderErr = err
				e.Quit()
				return
			}
			log.Printf("[Engine] skipped frame %d: %v", index, skip.err)
		} else {
			index++
		}

		if e.profilingEnabled {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// skipFrameError marks a failure that only loses the current frame, such as an outdated surface.
type skipFrameError struct {
	err error
}

func (s *skipFrameError) Error() string {
	return s.err.Error()
}

func (e *engine) renderFrame(index uint64, dt float32) error {
	surfaceTexture, err := e.gpu.CurrentSurfaceTexture()
	if err != nil {
		return &skipFrameError{err: err}
	}
	defer e.gpu.Present()

	view, err := e.gpu.SurfaceView(surfaceTexture)
	if err != nil {
		return &skipFrameError{err: err}
	}
	defer view.Release()

	encoder, err := e.gpu.Device().CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	frame := &Frame{
		Index:     index,
		DeltaTime: dt,
		Gpu:       e.gpu,
		View:      view,
		Encoder:   encoder,
	}
	if e.renderCallback != nil {
		if err := e.renderCallback(frame); err != nil {
			return err
		}
	} else {
		frame.Clear(e.clearColor)
	}

	commands, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish frame %d: %w", index, err)
	}
	defer commands.Release()
	e.gpu.Queue().Submit(commands)
	return nil
}
