package chart

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// PNG rasterizes SVG data to a PNG of the given size on a white background.
// The drawing is scaled to fit while preserving its aspect ratio.
// Non-positive sizes default to the panel canvas size.
func PNG(svgData []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}

	// Unknown elements such as <title> are skipped
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}

	// Get the SVG's native size
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = float64(width), float64(height)
	}

	scale := min(float64(width)/w, float64(height)/h)
	outW := int(w * scale)
	outH := int(h * scale)

	// Center the drawing in the output
	offsetX := (width - outW) / 2
	offsetY := (height - outH) / 2
	icon.SetTarget(float64(offsetX), float64(offsetY), float64(outW), float64(outH))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
