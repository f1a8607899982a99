package playback

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/san-kum/sphview/internal/store"
	"github.com/san-kum/sphview/internal/trace"
)

// FrameFunc receives the new frame index and the frame count.
type FrameFunc func(index, total int)

type Options struct {
	Interval     time.Duration
	BallDiameter float64
	Decoder      *trace.Decoder
	Logger       *log.Logger
}

type Controller struct {
	// exec serializes steps, ticks and loads together with their
	// notifications. It is always taken before mu.
	exec sync.Mutex

	mu        sync.Mutex
	vp        Viewport
	opts      Options
	store     *store.Store
	state     State
	drawables []Drawable
	listeners []FrameFunc
	cancel    context.CancelFunc
	gen       int
}

// New returns a controller in the NoData state. Zero option fields take
// their defaults.
func New(vp Viewport, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.BallDiameter <= 0 {
		opts.BallDiameter = BallDiameter
	}
	if opts.Decoder == nil {
		opts.Decoder = trace.NewDecoder()
	}
	return &Controller{
		vp:    vp,
		opts:  opts,
		store: store.New(),
	}
}

// OnFrameChanged registers fn for every later step, tick and load.
func (c *Controller) OnFrameChanged(fn FrameFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Open loads path and reports whether a usable trace is now active.
func (c *Controller) Open(path string) bool {
	return c.Load(path) == nil
}

// OpenReader is Open for an already opened stream.
func (c *Controller) OpenReader(r io.Reader) bool {
	return c.LoadReader(r) == nil
}

// Load decodes path and installs it. On failure the previous trace, index
// and state are kept.
func (c *Controller) Load(path string) error {
	t, err := c.opts.Decoder.DecodeFile(path)
	if err != nil {
		c.logf("playback: open %s: %v", path, err)
		return err
	}
	c.logf("playback: loaded %s: %d frames of %d balls", path, t.Len(), t.NumBalls)
	c.LoadTrace(t)
	return nil
}

func (c *Controller) LoadReader(r io.Reader) error {
	t, err := c.opts.Decoder.Decode(r)
	if err != nil {
		c.logf("playback: decode: %v", err)
		return err
	}
	c.LoadTrace(t)
	return nil
}

// LoadTrace cancels any run, replaces the active trace and notifies
// listeners with index 0.
func (c *Controller) LoadTrace(t *trace.Trace) {
	c.exec.Lock()
	defer c.exec.Unlock()

	c.mu.Lock()
	if c.state == Running {
		c.stopLocked()
	}
	c.store.Load(t)
	c.state = Ready
	c.projectLocked()
	total := c.store.FrameCount()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	notify(listeners, 0, total)
}

// Step advances one frame. A step request while running stops the run first.
func (c *Controller) Step() (int, error) {
	c.exec.Lock()
	defer c.exec.Unlock()

	c.mu.Lock()
	if c.state == Running {
		c.stopLocked()
	}
	idx, err := c.advanceLocked()
	total := c.store.FrameCount()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	if err != nil {
		return idx, err
	}
	notify(listeners, idx, total)
	return idx, nil
}

// Run starts the ticker. The first tick fires one interval after Run returns.
func (c *Controller) Run() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state == Running:
		return ErrRunning
	case c.store.FrameCount() == 0:
		return ErrEmptyTrace
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.gen++
	c.cancel = cancel
	c.state = Running
	go c.loop(ctx, c.gen, c.opts.Interval)
	return nil
}

// Stop cancels the ticker. No tick starts after Stop returns; one already
// notifying listeners finishes normally.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running {
		return ErrNotRunning
	}
	c.stopLocked()
	return nil
}

// Close stops any run. The controller stays usable.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running {
		c.stopLocked()
	}
	return nil
}

// Refresh recomputes drawables for the current frame against the current
// viewport size, for hosts that resize while paused.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projectLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Index()
}

func (c *Controller) FrameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.FrameCount()
}

func (c *Controller) BallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.BallCount()
}

func (c *Controller) BallDiameter() float64 { return c.opts.BallDiameter }

// Trace returns the active trace, nil before the first load.
func (c *Controller) Trace() *trace.Trace {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Trace()
}

// Progress formats the position as "index/total".
func (c *Controller) Progress() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%d/%d", c.store.Index(), c.store.FrameCount())
}

// DrawableAt returns ball i as of the last notification.
func (c *Controller) DrawableAt(i int) (Drawable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.drawables) {
		return Drawable{}, fmt.Errorf("%w: %d of %d", ErrBallRange, i, len(c.drawables))
	}
	return c.drawables[i], nil
}

// Drawables returns a copy of every ball as of the last notification.
func (c *Controller) Drawables() []Drawable {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Drawable, len(c.drawables))
	copy(out, c.drawables)
	return out
}

func (c *Controller) loop(ctx context.Context, gen int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(gen)
		}
	}
}

func (c *Controller) tick(gen int) {
	c.exec.Lock()
	defer c.exec.Unlock()

	c.mu.Lock()
	if c.state != Running || c.gen != gen {
		c.mu.Unlock()
		return
	}
	idx, err := c.advanceLocked()
	total := c.store.FrameCount()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	if err != nil {
		c.logf("playback: tick: %v", err)
		return
	}
	notify(listeners, idx, total)
}

func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = Ready
}

func (c *Controller) advanceLocked() (int, error) {
	idx, err := c.store.Advance()
	if err != nil {
		return c.store.Index(), err
	}
	c.projectLocked()
	return idx, nil
}

// projectLocked rebuilds the drawables. After a load the buffer is replaced
// and sized for the new ball count rather than reused.
func (c *Controller) projectLocked() {
	if c.store.Dirty() {
		c.drawables = make([]Drawable, 0, c.store.BallCount())
		c.store.ClearDirty()
	}
	f, err := c.store.CurrentFrame()
	if err != nil {
		c.drawables = c.drawables[:0]
		return
	}
	w, h := c.vp.Size()
	c.drawables = ProjectFrame(c.drawables, f, c.store.Scale(), w, h, c.opts.BallDiameter)
}

func (c *Controller) listenersLocked() []FrameFunc {
	return append([]FrameFunc(nil), c.listeners...)
}

func notify(listeners []FrameFunc, index, total int) {
	for _, fn := range listeners {
		fn(index, total)
	}
}

func (c *Controller) logf(format string, args ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Printf(format, args...)
	}
}
