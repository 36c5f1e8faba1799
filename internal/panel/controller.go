// Package panel implements the per-panel lifecycle: a map surface that
// becomes ready exactly once, and an optional editing plugin attachment
// that is only ever bound to a ready surface.
//
// A Controller is driven from a single event loop and is not safe for
// concurrent use. Every method is a discrete event processed to
// completion.
package panel

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mapdeck/internal/editing"
	"mapdeck/internal/surface"
	"mapdeck/internal/trace"
)

// ErrNoPlugin is returned by plugin actions when no attachment is live.
var ErrNoPlugin = errors.New("no plugin attached")

// Controller owns one panel's surface and, conditionally, its plugin
// attachment.
type Controller struct {
	id       string
	instance string
	surface  Surface
	plugins  PluginProvider
	rec      *trace.Recorder

	state         State
	enabled       bool
	removeSources bool
	plugin        Plugin
	err           error
}

// Option configures a Controller.
type Option func(*Controller)

// WithPluginEnabled sets the initial enabled flag (default true).
func WithPluginEnabled(on bool) Option {
	return func(c *Controller) { c.enabled = on }
}

// WithRemoveSources sets the initial remove-sources preference (default true).
func WithRemoveSources(on bool) Option {
	return func(c *Controller) { c.removeSources = on }
}

// WithRecorder attaches lifecycle instrumentation.
func WithRecorder(r *trace.Recorder) Option {
	return func(c *Controller) { c.rec = r }
}

// New creates a controller in StateLoading. Each controller gets a fresh
// instance id, so a panel rebuilt under a recycled id never accepts
// events meant for its predecessor.
func New(id string, s Surface, plugins PluginProvider, opts ...Option) *Controller {
	c := &Controller{
		id:            id,
		instance:      uuid.NewString(),
		surface:       s,
		plugins:       plugins,
		state:         StateLoading,
		enabled:       true,
		removeSources: true,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Failed returns a controller for a panel whose surface could not be
// built. It starts in StateFailed.
func Failed(id string, err error, opts ...Option) *Controller {
	c := New(id, nil, nil, opts...)
	c.state = StateFailed
	c.err = err
	c.rec.Event(id, trace.EventPanelFailed, err.Error())
	c.logger().Error("panel setup failed", zap.Error(err))
	return c
}

func (c *Controller) ID() string          { return c.id }
func (c *Controller) Instance() string    { return c.instance }
func (c *Controller) State() State        { return c.state }
func (c *Controller) PluginEnabled() bool { return c.enabled }
func (c *Controller) RemoveSources() bool { return c.removeSources }
func (c *Controller) Plugin() Plugin      { return c.plugin }
func (c *Controller) Surface() Surface    { return c.surface }
func (c *Controller) Err() error          { return c.err }

// SurfaceReady is the readiness signal. It transitions Loading to Ready
// once, applying the load result to the surface and constructing the
// attachment if the plugin is enabled at this moment. Signals for another
// instance, or after teardown, are ignored.
func (c *Controller) SurfaceReady(instance string, res surface.LoadResult) error {
	if instance != c.instance || c.state != StateLoading {
		c.rec.Event(c.id, trace.EventReadyIgnored, c.state.String())
		c.logger().Debug("ignoring readiness signal",
			zap.Stringer("state", c.state),
			zap.Bool("stale_instance", instance != c.instance))
		return nil
	}
	if !c.surface.ApplyLoad(res) {
		return nil
	}
	for src, err := range res.Errors {
		c.logger().Warn("tile load failed", zap.String("source", src), zap.Error(err))
	}
	c.state = StateReady
	c.rec.Event(c.id, trace.EventSurfaceReady, fmt.Sprintf("tile %s", res.Tile))
	c.logger().Info("surface ready")
	if c.enabled {
		return c.attach()
	}
	return nil
}

// SurfaceFailed reports that the surface could not finish initialising.
// The panel fails; other panels are unaffected.
func (c *Controller) SurfaceFailed(instance string, err error) {
	if instance != c.instance || c.state != StateLoading {
		return
	}
	c.fail(fmt.Errorf("load surface: %w", err))
}

// SetPluginEnabled sets the enabled flag. Before readiness only the flag
// changes; afterwards the attachment is built or torn down to match.
func (c *Controller) SetPluginEnabled(on bool) error {
	if c.state.Terminal() {
		return nil
	}
	c.enabled = on
	switch {
	case c.state == StateReady && on:
		return c.attach()
	case c.state == StateAttached && !on:
		err := c.detach()
		c.state = StateReady
		return err
	}
	return nil
}

// TogglePlugin flips the enabled flag.
func (c *Controller) TogglePlugin() error {
	return c.SetPluginEnabled(!c.enabled)
}

// SetRemoveSources updates the teardown preference. It takes effect the
// next time an attachment is destroyed.
func (c *Controller) SetRemoveSources(on bool) {
	if c.state.Terminal() {
		return
	}
	c.removeSources = on
}

// ToggleRemoveSources flips the teardown preference.
func (c *Controller) ToggleRemoveSources() {
	c.SetRemoveSources(!c.removeSources)
}

// AddPoint draws a point through the live attachment.
func (c *Controller) AddPoint(lon, lat float64) error {
	d, ok := c.plugin.(interface{ AddPoint(lon, lat float64) error })
	if !ok {
		return ErrNoPlugin
	}
	return d.AddPoint(lon, lat)
}

// Destroy tears the panel down: the attachment first, then the surface.
// It is idempotent.
func (c *Controller) Destroy() error {
	if c.state == StateDestroyed {
		return nil
	}
	var err error
	if c.plugin != nil {
		err = c.detach()
	}
	if c.surface != nil && c.state != StateFailed {
		c.surface.Release()
	}
	c.state = StateDestroyed
	c.logger().Debug("panel destroyed")
	return err
}

func (c *Controller) attach() error {
	if c.plugin != nil {
		return nil
	}
	c.logger().Info("constructing plugin")
	_, end := c.rec.Start(context.Background(), "panel.plugin.construct",
		trace.AttrPanelID.String(c.id),
		trace.AttrInstance.String(c.instance))
	p, err := c.plugins.Attach(c.surface)
	end(err)
	if err != nil {
		c.fail(fmt.Errorf("construct plugin: %w", err))
		return c.err
	}
	c.plugin = p
	c.state = StateAttached
	c.rec.Event(c.id, trace.EventPluginConstruct, "")
	return nil
}

// detach destroys the live attachment. The remove-sources preference is
// read here, not when the attachment was built.
func (c *Controller) detach() error {
	removeSources := c.removeSources
	c.logger().Info("destroying plugin", zap.Bool("remove_sources", removeSources))
	_, end := c.rec.Start(context.Background(), "panel.plugin.destroy",
		trace.AttrPanelID.String(c.id),
		trace.AttrInstance.String(c.instance),
		trace.AttrRemoveSources.Bool(removeSources))
	p := c.plugin
	c.plugin = nil
	err := p.Destroy(editing.DestroyOptions{RemoveSources: removeSources})
	end(err)
	c.rec.Event(c.id, trace.EventPluginDestroy, fmt.Sprintf("removeSources: %t", removeSources))
	if err != nil {
		return fmt.Errorf("destroy plugin: %w", err)
	}
	return nil
}

func (c *Controller) fail(err error) {
	c.err = err
	if c.surface != nil {
		c.surface.Release()
	}
	c.state = StateFailed
	c.rec.Event(c.id, trace.EventPanelFailed, err.Error())
	c.logger().Error("panel failed", zap.Error(err))
}

func (c *Controller) logger() *zap.Logger {
	return c.rec.Logger().With(zap.String("panel", c.id))
}
