package generation

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder

	"golang.org/x/image/draw"
)

// maxCanvasSide bounds the compositing canvas: the original is scaled so
// its longest side is at most this, aspect preserved, never upscaled.
const maxCanvasSide = 1024

// compositeWithMask attaches the provider-returned mask to the original
// image as its alpha channel and returns a transparent-background PNG.
// Deterministic for the same original and mask bytes.
func compositeWithMask(original, mask []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("decode original image: %w", err)
	}

	maskImg, _, err := image.Decode(bytes.NewReader(mask))
	if err != nil {
		return nil, fmt.Errorf("decode mask image: %w", err)
	}

	bounds := canvasBounds(src.Bounds())

	scaled := image.NewRGBA(bounds)
	draw.CatmullRom.Scale(scaled, bounds, src, src.Bounds(), draw.Src, nil)

	// The mask rarely matches the canvas exactly; scale it to fit.
	scaledMask := image.NewGray(bounds)
	draw.CatmullRom.Scale(scaledMask, bounds, maskImg, maskImg.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			alpha := scaledMask.GrayAt(x, y).Y
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: alpha,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode composite png: %w", err)
	}

	return buf.Bytes(), nil
}

// canvasBounds computes the output rectangle: longest side clamped to
// maxCanvasSide, aspect ratio preserved within rounding, small images
// passed through untouched.
func canvasBounds(src image.Rectangle) image.Rectangle {
	w := src.Dx()
	h := src.Dy()

	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxCanvasSide {
		return image.Rect(0, 0, w, h)
	}

	scale := float64(maxCanvasSide) / float64(longest)
	outW := int(float64(w)*scale + 0.5)
	outH := int(float64(h)*scale + 0.5)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	return image.Rect(0, 0, outW, outH)
}
