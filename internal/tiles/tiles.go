// Package tiles fetches and shades slippy-map raster tiles for terminal
// display.
package tiles

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Coord addresses one tile in the XYZ scheme.
type Coord struct {
	Z, X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y)
}

// Locate returns the tile containing lon/lat at zoom, plus the fractional
// position of the point inside that tile (0..1 on each axis).
func Locate(lon, lat float64, zoom int) (Coord, float64, float64) {
	n := math.Exp2(float64(zoom))
	x := (lon + 180) / 360 * n
	latRad := lat * math.Pi / 180
	y := (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n

	maxIdx := int(n) - 1
	tx := clamp(int(math.Floor(x)), 0, maxIdx)
	ty := clamp(int(math.Floor(y)), 0, maxIdx)
	return Coord{Z: zoom, X: tx, Y: ty}, x - float64(tx), y - float64(ty)
}

// URL expands a {z}/{x}/{y} template for c.
func URL(template string, c Coord) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(c.Z),
		"{x}", strconv.Itoa(c.X),
		"{y}", strconv.Itoa(c.Y),
	)
	return r.Replace(template)
}

// DefaultUserAgent identifies mapdeck to tile servers; the OSM tile policy
// rejects anonymous clients.
const DefaultUserAgent = "mapdeck/0.1 (+terminal map harness)"

// Fetcher downloads tiles over HTTP. Results are cached per URL and
// concurrent requests for the same URL share one round trip.
type Fetcher struct {
	client    *http.Client
	userAgent string

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]image.Image
}

// NewFetcher creates a fetcher. A nil client gets a default client with
// the given timeout.
func NewFetcher(client *http.Client, timeout time.Duration, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]image.Image),
	}
}

// Fetch returns the decoded tile at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	f.mu.Lock()
	if img, ok := f.cache[url]; ok {
		f.mu.Unlock()
		return img, nil
	}
	f.mu.Unlock()

	v, err, _ := f.group.Do(url, func() (any, error) {
		f.mu.Lock()
		cached, ok := f.cache[url]
		f.mu.Unlock()
		if ok {
			return cached, nil
		}
		img, err := f.download(ctx, url)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.cache[url] = img
		f.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// Cached reports how many tiles are held in the cache.
func (f *Fetcher) Cached() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cache)
}

func (f *Fetcher) download(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build tile request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tile %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch tile %s: status %d", url, resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode tile %s: %w", url, err)
	}
	return img, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
