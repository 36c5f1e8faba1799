// Package editing is the drawing plugin that binds to a ready map surface.
// An Attachment owns a small set of geojson sources and layers on its
// surface; tearing it down may remove them or leave them behind.
package editing

import (
	"errors"
	"fmt"

	"mapdeck/internal/mapstyle"
)

// Owned source ids.
const (
	SourceMain      = "gm_main"
	SourceTemporary = "gm_temporary"
)

// ErrDestroyed is returned by operations on a torn-down attachment.
var ErrDestroyed = errors.New("attachment destroyed")

// Host is the part of a map surface the plugin needs.
type Host interface {
	AddSource(id string, src mapstyle.Source) error
	RemoveSource(id string) error
	HasSource(id string) bool
	Source(id string) (mapstyle.Source, bool)
	UpdateSource(id string, fn func(*mapstyle.Source)) error
	AddLayer(l mapstyle.Layer) error
	RemoveLayer(id string) error
	HasLayer(id string) bool
}

// Options configures an attachment. It is intentionally empty.
type Options struct{}

// DestroyOptions controls teardown.
type DestroyOptions struct {
	// RemoveSources removes the owned layers and sources from the surface.
	// When false they stay behind and keep rendering.
	RemoveSources bool
}

// owned lists the sources the plugin registers, each with the layers that
// draw it.
var owned = []struct {
	source string
	layers []mapstyle.Layer
}{
	{
		source: SourceMain,
		layers: []mapstyle.Layer{
			{ID: "gm_main-fill", Type: mapstyle.LayerFill, Source: SourceMain},
			{ID: "gm_main-line", Type: mapstyle.LayerLine, Source: SourceMain},
			{ID: "gm_main-circle", Type: mapstyle.LayerCircle, Source: SourceMain},
		},
	},
	{
		source: SourceTemporary,
		layers: []mapstyle.Layer{
			{ID: "gm_temporary-circle", Type: mapstyle.LayerCircle, Source: SourceTemporary},
		},
	},
}

// Attachment is a live plugin instance bound to exactly one surface.
type Attachment struct {
	host      Host
	destroyed bool
}

// Attach binds a new attachment to host. Sources and layers left behind by
// an earlier attachment are adopted as-is.
func Attach(host Host, _ Options) (*Attachment, error) {
	if host == nil {
		return nil, errors.New("attach: nil surface")
	}
	for _, o := range owned {
		if !host.HasSource(o.source) {
			if err := host.AddSource(o.source, mapstyle.Source{Type: mapstyle.SourceGeoJSON}); err != nil {
				return nil, fmt.Errorf("attach: %w", err)
			}
		}
		for _, l := range o.layers {
			if host.HasLayer(l.ID) {
				continue
			}
			if err := host.AddLayer(l); err != nil {
				return nil, fmt.Errorf("attach: %w", err)
			}
		}
	}
	return &Attachment{host: host}, nil
}

// Destroyed reports whether Destroy has run.
func (a *Attachment) Destroyed() bool { return a.destroyed }

// Destroy tears the attachment down. Calling it twice is a no-op.
func (a *Attachment) Destroy(opts DestroyOptions) error {
	if a.destroyed {
		return nil
	}
	a.destroyed = true
	if !opts.RemoveSources {
		return nil
	}
	var errs []error
	for _, o := range owned {
		for _, l := range o.layers {
			if !a.host.HasLayer(l.ID) {
				continue
			}
			if err := a.host.RemoveLayer(l.ID); err != nil {
				errs = append(errs, err)
			}
		}
		if a.host.HasSource(o.source) {
			if err := a.host.RemoveSource(o.source); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	return nil
}

// AddPoint draws a point feature into the main source.
func (a *Attachment) AddPoint(lon, lat float64) error {
	if a.destroyed {
		return ErrDestroyed
	}
	return a.host.UpdateSource(SourceMain, func(s *mapstyle.Source) {
		s.Points = append(s.Points, mapstyle.Point{Lon: lon, Lat: lat})
	})
}

// Points returns the features drawn into the main source.
func (a *Attachment) Points() []mapstyle.Point {
	src, _ := a.host.Source(SourceMain)
	return src.Points
}

// OwnedSources returns the ids of every source an attachment registers.
func OwnedSources() []string {
	ids := make([]string, len(owned))
	for i, o := range owned {
		ids[i] = o.source
	}
	return ids
}
