package panel

import (
	"context"

	"mapdeck/internal/editing"
	"mapdeck/internal/surface"
)

// Surface is the map a panel owns. *surface.Map satisfies it.
type Surface interface {
	editing.Host
	Load(ctx context.Context, f surface.TileFetcher) (surface.LoadResult, error)
	ApplyLoad(res surface.LoadResult) bool
	Render(width, height int) string
	Viewport() surface.Viewport
	Release()
}

// Plugin is a live editing attachment.
type Plugin interface {
	Destroy(opts editing.DestroyOptions) error
}

// PluginProvider constructs attachments bound to a ready surface.
type PluginProvider interface {
	Attach(s Surface) (Plugin, error)
}

// PluginFunc adapts a function to PluginProvider.
type PluginFunc func(s Surface) (Plugin, error)

// Attach implements PluginProvider.
func (f PluginFunc) Attach(s Surface) (Plugin, error) { return f(s) }

// Editing attaches the drawing plugin with empty options.
var Editing PluginProvider = PluginFunc(func(s Surface) (Plugin, error) {
	a, err := editing.Attach(s, editing.Options{})
	if err != nil {
		return nil, err
	}
	return a, nil
})
