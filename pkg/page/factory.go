package page

import (
	"context"

	"github.com/roomnav-dev/roomnav/pkg/assets"
	"github.com/roomnav-dev/roomnav/pkg/device"
)

// Surface is the single container region a page renders into. The engine
// owns exactly one surface; pages never share it.
type Surface interface {
	// SetTitle sets the document title.
	SetTitle(ctx context.Context, title string) error

	// SetContent replaces the surface markup.
	SetContent(ctx context.Context, html string) error

	// SetStylesheet applies page styling fetched from the asset store.
	SetStylesheet(ctx context.Context, css []byte) error

	// Clear wipes the surface markup and styling.
	Clear(ctx context.Context) error
}

// Navigator is the back-reference controllers use for nested navigation.
// Implemented by the navigator package.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
	NavigateSpecial(ctx context.Context, name string) error
}

// Entities bundles the collaborators every controller may use. One
// Entities value is constructed at startup and passed by reference into
// every factory; there is no ambient global state.
type Entities struct {
	Surface   Surface
	Loader    assets.Store
	Device    device.Detector
	Navigator Navigator
}

// RouteContext carries the previous and next route identity into a
// factory. Prev fields are zero before the first transition completes.
type RouteContext struct {
	NextRawPath   string
	NextFixedPath string
	NextParams    map[string]string

	PrevRawPath   string
	PrevFixedPath string
	PrevParams    map[string]string
}

// Next returns the target route as a RouteInfo.
func (rc *RouteContext) Next() *RouteInfo {
	return &RouteInfo{
		RawPath:   rc.NextRawPath,
		FixedPath: rc.NextFixedPath,
		Params:    rc.NextParams,
	}
}

// Factory produces a controller for a matched route.
type Factory func(e *Entities, rc *RouteContext) (Controller, error)
