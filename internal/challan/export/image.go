package export

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/phpdave11/gofpdf"
)

// imageDensity is the pixel density, in pixels per point, images are reduced to.
const imageDensity = 3.0

// encodedImage is an image re-encoded as PNG for embedding.
type encodedImage struct {
	png    []byte
	width  int
	height int
}

// imageCache keeps decoded images per (path, box) so repeated renders skip decoding.
type imageCache struct {
	mu    sync.Mutex
	items map[string]*encodedImage
}

func (c *imageCache) load(path string, boxW, boxH float64) (*encodedImage, error) {
	key := fmt.Sprintf("%s|%.0fx%.0f", path, boxW, boxH)

	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.items[key]; ok {
		return img, nil
	}

	img, err := encodeImage(path, boxW, boxH)
	if err != nil {
		return nil, err
	}
	if c.items == nil {
		c.items = make(map[string]*encodedImage)
	}
	c.items[key] = img
	return img, nil
}

// encodeImage decodes any format imaging understands, shrinks it to the density
// needed for a boxW×boxH point box and re-encodes it as PNG.
func encodeImage(path string, boxW, boxH float64) (*encodedImage, error) {
	if path == "" {
		return nil, fmt.Errorf("image path not configured")
	}
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	maxW := int(math.Ceil(boxW * imageDensity))
	maxH := int(math.Ceil(boxH * imageDensity))
	b := src.Bounds()
	if b.Dx() > maxW || b.Dy() > maxH {
		src = imaging.Fit(src, maxW, maxH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	b = src.Bounds()
	return &encodedImage{png: buf.Bytes(), width: b.Dx(), height: b.Dy()}, nil
}

// fit returns the size of img scaled to fit in boxW×boxH keeping its aspect ratio.
func (img *encodedImage) fit(boxW, boxH float64) (float64, float64) {
	if img.width == 0 || img.height == 0 {
		return 0, 0
	}
	scale := math.Min(boxW/float64(img.width), boxH/float64(img.height))
	return float64(img.width) * scale, float64(img.height) * scale
}

// register adds img to pdf under name. A registration failure clears the
// document error so rendering can continue without the image.
func (img *encodedImage) register(pdf *gofpdf.Fpdf, name string) error {
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img.png))
	if err := pdf.Error(); err != nil {
		pdf.ClearError()
		return fmt.Errorf("register image %s: %w", name, err)
	}
	return nil
}
