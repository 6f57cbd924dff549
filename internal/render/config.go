package render

import "image/color"

// Global render configuration for colors and logical surfaces.
var (
	Background = color.RGBA{R: 0x0a, G: 0x0a, B: 0x0a, A: 0xFF} // #0a0a0a
	GridColor  = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF} // #333333
	AxisColor  = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xFF} // #555555
	PanelColor = color.RGBA{R: 0x16, G: 0x16, B: 0x16, A: 0xFF}
	PanelText  = color.RGBA{R: 0xd4, G: 0xd4, B: 0xd8, A: 0xFF}
	HintText   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xB3}

	GridAlpha = 0.3
	AxisAlpha = 0.5
	GridStep  = 20

	// Preview viewport, with the info panel stacked below it.
	ViewportWidth  = 360
	ViewportHeight = 280
	PanelHeight    = 72

	// Logical fullscreen surface; scaled to the framebuffer.
	FullscreenWidth  = 1280
	FullscreenHeight = 720

	FullscreenHint = "Press ESC to exit fullscreen • F11 to toggle"
)
