// Package layout has the rectangle arithmetic the render surfaces share.
package layout

import (
	"image"
	"math"
)

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	return Normalize(image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx))
}

// SplitHorizontal cuts rect into a top part topHeightPx tall and the rest.
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	if topHeightPx < 0 {
		topHeightPx = 0
	}
	if topHeightPx > rect.Dy() {
		topHeightPx = rect.Dy()
	}
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// Rows splits rect into n equal-height rows. Leftover pixels go to the last row.
func Rows(rect image.Rectangle, n int) []image.Rectangle {
	rect = Normalize(rect)
	if n <= 0 {
		return nil
	}
	h := rect.Dy() / n
	out := make([]image.Rectangle, n)
	for i := range out {
		maxY := rect.Min.Y + (i+1)*h
		if i == n-1 {
			maxY = rect.Max.Y
		}
		out[i] = image.Rect(rect.Min.X, rect.Min.Y+i*h, rect.Max.X, maxY)
	}
	return out
}

// PercentPoint returns the point at xPct/yPct percent of rect, in
// sub-pixel precision.
func PercentPoint(rect image.Rectangle, xPct, yPct float64) (x, y float64) {
	rect = Normalize(rect)
	return float64(rect.Min.X) + float64(rect.Dx())*xPct/100,
		float64(rect.Min.Y) + float64(rect.Dy())*yPct/100
}

// Center is PercentPoint at 50/50.
func Center(rect image.Rectangle) (x, y float64) {
	return PercentPoint(rect, 50, 50)
}

// Fit returns the largest rectangle with the aspect ratio of w:h that fits
// into rect, centered in it.
func Fit(rect image.Rectangle, w, h int) image.Rectangle {
	rect = Normalize(rect)
	if w <= 0 || h <= 0 || rect.Empty() {
		return image.Rectangle{Min: rect.Min, Max: rect.Min}
	}
	scale := math.Min(float64(rect.Dx())/float64(w), float64(rect.Dy())/float64(h))
	fw := int(math.Round(float64(w) * scale))
	fh := int(math.Round(float64(h) * scale))
	x := rect.Min.X + (rect.Dx()-fw)/2
	y := rect.Min.Y + (rect.Dy()-fh)/2
	return image.Rect(x, y, x+fw, y+fh)
}
