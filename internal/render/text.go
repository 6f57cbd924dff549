package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	panelFontSize = 13
	hintFontSize  = 22
)

// fonts holds the faces a Canvas draws text with. Missing faces fall back
// to basicfont, so text always renders.
type fonts struct {
	panel  font.Face
	ttFont *truetype.Font
}

func loadFonts(logger Logger) fonts {
	var f fonts
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		f.panel = basicfont.Face7x13
		if logger != nil {
			logger.Errorf("render", "font parse failed, using basicfont: %v", err)
		}
	} else {
		face, ferr := opentype.NewFace(fnt, &opentype.FaceOptions{Size: panelFontSize, DPI: 72, Hinting: font.HintingFull})
		if ferr != nil {
			f.panel = basicfont.Face7x13
			if logger != nil {
				logger.Errorf("render", "font face create failed, using basicfont: %v", ferr)
			}
		} else {
			f.panel = face
		}
	}
	// freetype draws the fullscreen hint.
	if tt, terr := truetype.Parse(goregular.TTF); terr != nil {
		if logger != nil {
			logger.Errorf("render", "truetype parse failed: %v", terr)
		}
	} else {
		f.ttFont = tt
	}
	return f
}

// drawTextAt draws text with its top-left corner at (x, top).
func drawTextAt(dst draw.Image, text string, x, top int, fg color.Color, face font.Face) {
	drawer := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: face}
	baseline := top + face.Metrics().Ascent.Ceil()
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

// drawHintCentered draws a single line centered on x with its baseline at y
// using freetype. Without a parsed truetype font it falls back to the panel
// face.
func (f fonts) drawHintCentered(dst *image.RGBA, text string, x, y int, fg color.Color) {
	if f.ttFont == nil {
		face := f.panel
		width := font.MeasureString(face, text).Ceil()
		drawer := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: face, Dot: fixed.P(x-width/2, y)}
		drawer.DrawString(text)
		return
	}
	measure := truetype.NewFace(f.ttFont, &truetype.Options{Size: hintFontSize, DPI: 72, Hinting: font.HintingFull})
	width := font.MeasureString(measure, text).Ceil()

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f.ttFont)
	ctx.SetFontSize(hintFontSize)
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(fg))
	_, _ = ctx.DrawString(text, freetype.Pt(x-width/2, y))
}
