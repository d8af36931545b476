package scroll

import (
	"log/slog"
	"math"
	"time"
)

// Defaults used by NewController.
const (
	DefaultContentHeavyID  = "work"
	DefaultEndMarkerID     = "work-end"
	DefaultWheelThreshold  = 30
	DefaultHeaderAllowance = 80
	DefaultDuration        = 500 * time.Millisecond
	DefaultSettleDelay     = 200 * time.Millisecond
)

// Options tunes a Controller.
type Options struct {
	// ContentHeavyID names the section whose content may exceed one
	// viewport. Empty disables the special case.
	ContentHeavyID string
	// EndMarkerID names the element marking the end of that section.
	EndMarkerID string
	// WheelThreshold is the |DeltaY| a wheel event must exceed to count as
	// section navigation.
	WheelThreshold float64
	// HeaderAllowance is added to the content-heavy section's top when
	// deciding whether upward wheel input has reached its boundary.
	HeaderAllowance float64
	Duration        time.Duration
	SettleDelay     time.Duration
	Logger          *slog.Logger
}

// Option is a functional option for NewController.
type Option func(*Options)

// WithContentHeavySection sets the content-heavy section id and its end marker id.
func WithContentHeavySection(sectionID, markerID string) Option {
	return func(o *Options) {
		o.ContentHeavyID = sectionID
		o.EndMarkerID = markerID
	}
}

// WithWheelThreshold sets the wheel delta threshold.
func WithWheelThreshold(v float64) Option {
	return func(o *Options) { o.WheelThreshold = v }
}

// WithHeaderAllowance sets the header allowance.
func WithHeaderAllowance(v float64) Option {
	return func(o *Options) { o.HeaderAllowance = v }
}

// WithTiming sets the animation duration and post-animation settle delay.
func WithTiming(duration, settle time.Duration) Option {
	return func(o *Options) {
		o.Duration = duration
		o.SettleDelay = settle
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// State is a snapshot of the controller's navigation state.
type State struct {
	Current   int
	Animating bool
	// Pending is the target of the in-flight animation, valid when HasPending.
	Pending    int
	HasPending bool
}

// Controller owns the page's sections and keeps the active section in sync
// with scroll, wheel and navigation requests.
//
// States: Idle(current) -> Animating(current->target) -> Idle(target).
// Only NavigateTo enters Animating; the animation's completion plus the
// settle delay leaves it.
type Controller struct {
	surface Surface
	sched   Scheduler
	opts    Options
	log     *slog.Logger

	sections []Section
	state    State
	remove   func()
	onChange []func(index int)
}

// NewController returns a detached controller for surface.
func NewController(surface Surface, sched Scheduler, opts ...Option) *Controller {
	o := Options{
		ContentHeavyID:  DefaultContentHeavyID,
		EndMarkerID:     DefaultEndMarkerID,
		WheelThreshold:  DefaultWheelThreshold,
		HeaderAllowance: DefaultHeaderAllowance,
		Duration:        DefaultDuration,
		SettleDelay:     DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	return &Controller{
		surface: surface,
		sched:   sched,
		opts:    o,
		log:     o.Logger.With(slog.String("component", "scroll")),
	}
}

// OnChange registers fn to be called whenever the current index changes.
func (c *Controller) OnChange(fn func(index int)) {
	c.onChange = append(c.onChange, fn)
}

// Attach discovers sections, selects the one matching the initial scroll
// offset (or 0) and starts listening to the surface. Attaching an already
// attached controller is a no-op.
func (c *Controller) Attach() {
	if c.remove != nil {
		return
	}

	c.discover()
	c.remove = c.surface.Listen(listener{c})

	c.log.Debug("attached",
		slog.Int("sections", len(c.sections)),
		slog.Int("current", c.state.Current))
}

// Detach stops listening to the surface. Safe to call when not attached.
func (c *Controller) Detach() {
	if c.remove == nil {
		return
	}
	c.remove()
	c.remove = nil
	c.log.Debug("detached")
}

// Attached reports whether the controller is listening to its surface.
func (c *Controller) Attached() bool { return c.remove != nil }

// Rediscover re-reads the section list after the page content changed.
func (c *Controller) Rediscover() {
	c.discover()
}

func (c *Controller) discover() {
	c.sections = Discover(c.surface)
	if c.state.Animating && c.state.Pending < len(c.sections) {
		return
	}
	current := 0
	if i, ok := c.activeIndex(); ok {
		current = i
	}
	c.setCurrent(current)
}

// Current returns the active section index.
func (c *Controller) Current() int { return c.state.Current }

// State returns a snapshot of the navigation state.
func (c *Controller) State() State { return c.state }

// Sections returns a copy of the discovered sections.
func (c *Controller) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// NavigateTo animates the surface to section index. The current index is
// updated immediately, before the animation completes. Requests that are
// out of range or arrive while an animation is in flight are ignored and
// return false.
func (c *Controller) NavigateTo(index int) bool {
	if index < 0 || index >= len(c.sections) || c.state.Animating {
		return false
	}
	c.measure()

	c.state.Animating = true
	c.state.Pending = index
	c.state.HasPending = true
	c.setCurrent(index)

	from := c.surface.ScrollY()
	to := c.sections[index].Top
	c.log.Debug("navigate",
		slog.Int("index", index),
		slog.Float64("from", from),
		slog.Float64("to", to))

	Animate(c.sched, c.surface, from, to, c.opts.Duration, func() {
		c.sched.AfterFunc(c.opts.SettleDelay, c.settle)
	})
	return true
}

func (c *Controller) settle() {
	c.state.Animating = false
	c.state.HasPending = false
	c.state.Pending = 0
}

// Track re-evaluates the active section from the current scroll offset.
// It does nothing while an animation is in flight.
func (c *Controller) Track() {
	if c.state.Animating || len(c.sections) == 0 {
		return
	}
	c.measure()
	if i, ok := c.activeIndex(); ok {
		c.setCurrent(i)
	}
}

// activeIndex applies the first-match linear scan: section i is active when
// scrollY is in [top(i)-vh/2, top(i)+height(i)-vh/2). The content-heavy
// section stays active until its end marker comes into view.
func (c *Controller) activeIndex() (int, bool) {
	if len(c.sections) == 0 {
		return 0, false
	}
	y := c.surface.ScrollY()
	vh := c.surface.ViewportHeight()
	half := vh / 2

	if heavy, ok := c.heavyIndex(); ok {
		if markerTop, ok := c.surface.Marker(c.opts.EndMarkerID); ok {
			s := c.sections[heavy]
			if y >= s.Top-half && y+vh < markerTop {
				return heavy, true
			}
		}
	}

	for _, s := range c.sections {
		if y >= s.Top-half && y < s.Top+s.Height-half {
			return s.Index, true
		}
	}
	return 0, false
}

// HandleWheel decides whether ev is section navigation intent. When it is,
// the event's default is prevented, NavigateTo is called and HandleWheel
// returns true. Otherwise the surface scrolls natively.
func (c *Controller) HandleWheel(ev *WheelEvent) bool {
	if c.state.Animating || len(c.sections) == 0 {
		return false
	}
	if math.Abs(ev.DeltaY) <= c.opts.WheelThreshold {
		return false
	}

	dir := 1
	if ev.DeltaY < 0 {
		dir = -1
	}
	target := c.state.Current + dir
	if target < 0 || target >= len(c.sections) {
		return false
	}

	c.measure()
	if heavy, ok := c.heavyIndex(); ok && heavy == c.state.Current && c.insideHeavy(heavy, dir) {
		return false
	}

	ev.PreventDefault()
	return c.NavigateTo(target)
}

// insideHeavy reports whether wheel input in direction dir should scroll
// natively within the content-heavy section.
func (c *Controller) insideHeavy(heavy, dir int) bool {
	y := c.surface.ScrollY()
	if dir < 0 {
		return y > c.sections[heavy].Top+c.opts.HeaderAllowance
	}
	markerTop, ok := c.surface.Marker(c.opts.EndMarkerID)
	if !ok {
		return false
	}
	return y+c.surface.ViewportHeight() < markerTop
}

func (c *Controller) heavyIndex() (int, bool) {
	if c.opts.ContentHeavyID == "" {
		return 0, false
	}
	for _, s := range c.sections {
		if s.ID == c.opts.ContentHeavyID {
			return s.Index, true
		}
	}
	return 0, false
}

func (c *Controller) measure() {
	remeasure(c.sections, c.surface.Sections())
}

func (c *Controller) setCurrent(i int) {
	if c.state.Current == i {
		return
	}
	c.state.Current = i
	for _, fn := range c.onChange {
		fn(i)
	}
}

type listener struct{ c *Controller }

func (l listener) OnScroll() { l.c.Track() }

func (l listener) OnWheel(ev *WheelEvent) { l.c.HandleWheel(ev) }
