package blend

import (
	"image"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/rtree/internal/color"
	"github.com/gogpu/rtree/internal/raster"
)

// Layer is an offscreen premultiplied float32 RGBA surface.
//
// Bounds tracks the region that may hold non-transparent pixels; everything
// outside it is zero. Painting code must widen Bounds with Touch.
//
// Thread safety: Layer is not safe for concurrent access. Band-parallel
// helpers in this package write disjoint rows.
type Layer struct {
	Width, Height int
	Pix           []float32
	Bounds        image.Rectangle
}

// NewLayer allocates a transparent layer.
func NewLayer(width, height int) *Layer {
	return &Layer{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*4),
	}
}

// Rect returns the full layer rectangle.
func (l *Layer) Rect() image.Rectangle {
	return image.Rect(0, 0, l.Width, l.Height)
}

// At returns the pixel at (x, y).
func (l *Layer) At(x, y int) color.ColorF32 {
	i := (y*l.Width + x) * 4
	p := l.Pix[i : i+4 : i+4]
	return color.ColorF32{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set stores the pixel at (x, y). It does not touch Bounds.
func (l *Layer) Set(x, y int, c color.ColorF32) {
	i := (y*l.Width + x) * 4
	p := l.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Touch widens Bounds to include r, clipped to the layer.
func (l *Layer) Touch(r image.Rectangle) {
	l.Bounds = l.Bounds.Union(r.Intersect(l.Rect()))
}

// Clear zeroes the touched region.
func (l *Layer) Clear() {
	b := l.Bounds
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := (y*l.Width + b.Min.X) * 4
		clear(l.Pix[i : i+b.Dx()*4])
	}
	l.Bounds = image.Rectangle{}
}

// Composite blends src, scaled by opacity, onto l with mode. Both layers
// must have the same dimensions.
func (l *Layer) Composite(src *Layer, opacity float32, mode BlendMode) {
	b := src.Bounds
	if b.Empty() || opacity <= 0 {
		return
	}
	parallelRows(b, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				s := src.At(x, y)
				if s.A <= 0 {
					continue
				}
				if opacity < 1 {
					s = s.Scale(opacity)
				}
				l.Set(x, y, Blend(s, l.At(x, y), mode))
			}
		}
	})
	l.Touch(b)
}

// ApplyMask multiplies every pixel by the mask coverage. Pixels outside
// the mask bounds become transparent.
func (l *Layer) ApplyMask(m *raster.Mask) {
	b := l.Bounds
	parallelRows(b, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := m.Data[y*m.Width : (y+1)*m.Width]
			for x := b.Min.X; x < b.Max.X; x++ {
				v := row[x]
				if v >= 1 {
					continue
				}
				i := (y*l.Width + x) * 4
				p := l.Pix[i : i+4 : i+4]
				p[0] *= v
				p[1] *= v
				p[2] *= v
				p[3] *= v
			}
		}
	})
	l.Bounds = b.Intersect(m.Bounds)
}

// FillMask paints shade through the coverage of m with source-over. shade
// must be safe for concurrent calls.
func (l *Layer) FillMask(m *raster.Mask, shade func(x, y int) color.ColorF32) {
	b := m.Bounds.Intersect(l.Rect())
	if b.Empty() {
		return
	}
	parallelRows(b, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := m.Data[y*m.Width : (y+1)*m.Width]
			for x := b.Min.X; x < b.Max.X; x++ {
				cov := row[x]
				if cov <= 0 {
					continue
				}
				s := shade(x, y)
				if cov < 1 {
					s = s.Scale(cov)
				}
				switch {
				case s.IsTransparent():
				case s.IsOpaque():
					l.Set(x, y, s)
				default:
					l.Set(x, y, sourceOver(s, l.At(x, y)))
				}
			}
		}
	})
	l.Touch(b)
}

// Luminance coefficients for luminance masks, applied to linear RGB
// without gamma correction.
const (
	lumR = 0.2125
	lumG = 0.7154
	lumB = 0.0721
)

// ToMask converts the layer into coverage values in dst. With luminance
// set the coverage is the luminance of the straight color times alpha,
// otherwise the alpha alone.
func (l *Layer) ToMask(dst *raster.Mask, luminance bool) {
	b := l.Bounds
	dst.Reset()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Data[y*dst.Width : (y+1)*dst.Width]
		for x := b.Min.X; x < b.Max.X; x++ {
			i := (y*l.Width + x) * 4
			p := l.Pix[i : i+4 : i+4]
			v := p[3]
			if luminance {
				// premultiplied channels already carry the alpha factor
				v = lumR*p[0] + lumG*p[1] + lumB*p[2]
			}
			row[x] = min(max(v, 0), 1)
		}
	}
	dst.Bounds = b
}

// DrawRGBA composites a premultiplied 8-bit image of the layer's size onto
// l with source-over, restricted to r.
func (l *Layer) DrawRGBA(img *image.RGBA, r image.Rectangle) {
	b := r.Intersect(l.Rect()).Intersect(img.Rect)
	if b.Empty() {
		return
	}
	parallelRows(b, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				i := img.PixOffset(x, y)
				p := img.Pix[i : i+4 : i+4]
				if p[3] == 0 {
					continue
				}
				s := color.ColorF32{
					R: float32(p[0]) / 255,
					G: float32(p[1]) / 255,
					B: float32(p[2]) / 255,
					A: float32(p[3]) / 255,
				}
				l.Set(x, y, sourceOver(s, l.At(x, y)))
			}
		}
	})
	l.Touch(b)
}

// WriteRGBA8 quantizes the layer into dst, a premultiplied RGBA8888 buffer
// of the same dimensions. Every byte of dst is written.
func (l *Layer) WriteRGBA8(dst []byte) {
	parallelRows(l.Rect(), func(y0, y1 int) {
		for i := y0 * l.Width * 4; i < y1*l.Width*4; i += 4 {
			p := l.Pix[i : i+4 : i+4]
			c := color.PremultipliedToU8(color.ColorF32{R: p[0], G: p[1], B: p[2], A: p[3]})
			d := dst[i : i+4 : i+4]
			d[0], d[1], d[2], d[3] = c.R, c.G, c.B, c.A
		}
	})
}

const parallelMinPixels = 256 * 256

// parallelRows splits r into row bands processed concurrently when the
// region is large enough, and waits for all of them.
func parallelRows(r image.Rectangle, fn func(y0, y1 int)) {
	if r.Empty() {
		return
	}
	if r.Dx()*r.Dy() < parallelMinPixels {
		fn(r.Min.Y, r.Max.Y)
		return
	}
	workers := runtime.GOMAXPROCS(0)
	band := max((r.Dy()+workers-1)/workers, 16)
	var g errgroup.Group
	g.SetLimit(workers)
	for y := r.Min.Y; y < r.Max.Y; y += band {
		y0, y1 := y, min(y+band, r.Max.Y)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}

// Pool is a thread-safe pool for reusing layers.
//
// Pool groups layers by their dimensions, allowing efficient reuse of
// identically-sized buffers across groups and across renders.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Layer
	maxSize int // max layers per bucket
}

// poolKey identifies a bucket of identical layer dimensions.
type poolKey struct {
	width  int
	height int
}

// NewPool creates a new layer pool with the given maximum layers per bucket.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Layer),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a transparent layer from the pool or creates a new one.
func (p *Pool) Get(width, height int) *Layer {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		l := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return l
	}
	p.mu.Unlock()

	return NewLayer(width, height)
}

// Put clears a layer and returns it to the pool. If the bucket is at
// capacity the layer is discarded.
func (p *Pool) Put(l *Layer) {
	if l == nil {
		return
	}
	l.Clear()

	key := poolKey{width: l.Width, height: l.Height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, l)
}

// defaultPool is the package-level pool shared by all renders.
var defaultPool = NewPool(16)

// GetFromDefault retrieves a layer from the default pool.
func GetFromDefault(width, height int) *Layer {
	return defaultPool.Get(width, height)
}

// PutToDefault returns a layer to the default pool.
func PutToDefault(l *Layer) {
	defaultPool.Put(l)
}
