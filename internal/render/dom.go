package render

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/geometry"
)

// DOMTree is the CSS rendition of a scene: one zero-size container placed at
// the anchor and one absolutely positioned box per primitive, in paint order.
// Browsers rebuild it by assigning each Style to element.style.cssText.
type DOMTree struct {
	Container string       `json:"container"`
	Elements  []DOMElement `json:"elements"`
}

type DOMElement struct {
	Kind  string `json:"kind"`
	Role  string `json:"role"`
	Part  string `json:"part"`
	Style string `json:"style"`
}

// BuildDOM maps scene to its DOM tree. Colors are re-emitted from their
// parsed values so no configuration text reaches the style sheet verbatim.
func BuildDOM(scene geometry.Scene) DOMTree {
	tree := DOMTree{
		Container: containerStyle(scene),
		Elements:  make([]DOMElement, 0, len(scene.Primitives)),
	}
	for _, p := range scene.Primitives {
		tree.Elements = append(tree.Elements, DOMElement{
			Kind:  p.Kind.String(),
			Role:  p.Role.String(),
			Part:  p.Part.String(),
			Style: elementStyle(p),
		})
	}
	return tree
}

func containerStyle(scene geometry.Scene) string {
	var decl styleBuilder
	decl.add("position", "absolute")
	decl.add("left", pct(scene.Anchor.X))
	decl.add("top", pct(scene.Anchor.Y))
	decl.add("width", "0")
	decl.add("height", "0")
	decl.add("transform", fmt.Sprintf("translate(-50%%, -50%%) scale(%s) rotate(%sdeg)",
		num(scene.Transform.Scale), num(scene.Transform.RotationRadians*180/math.Pi)))
	decl.add("opacity", num(scene.Transform.Alpha))
	if scene.Blur > 0 {
		decl.add("filter", fmt.Sprintf("blur(%spx)", num(scene.Blur)))
	}
	if scene.Transition.Enabled {
		decl.add("transition", fmt.Sprintf("all %ss ease", num(scene.Transition.Duration.Seconds())))
	}
	return decl.String()
}

func elementStyle(p geometry.Primitive) string {
	var decl styleBuilder
	decl.add("position", "absolute")
	decl.add("box-sizing", "border-box")
	c := cssColor(p.Color)

	switch p.Kind {
	case geometry.KindRect:
		decl.add("left", px(p.X))
		decl.add("top", px(p.Y))
		decl.add("width", px(p.W))
		decl.add("height", px(p.H))
		decl.add("background", c)
	case geometry.KindDisc:
		box(&decl, p.Radius)
		decl.add("border-radius", "50%")
		decl.add("background", c)
	case geometry.KindRing, geometry.KindFrame:
		box(&decl, p.Radius+p.Stroke/2)
		decl.add("border", fmt.Sprintf("%s solid %s", px(p.Stroke), c))
		if p.Kind == geometry.KindRing {
			decl.add("border-radius", "50%")
		}
	}
	return decl.String()
}

// box sizes an origin-centered square of the given half extent.
func box(decl *styleBuilder, half float64) {
	if half < 0 {
		half = 0
	}
	decl.add("left", px(-half))
	decl.add("top", px(-half))
	decl.add("width", px(2*half))
	decl.add("height", px(2*half))
}

func cssColor(hex string) string {
	c := crosshair.PaintColor(hex)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, num(float64(c.A)/255))
}

type styleBuilder struct{ parts []string }

func (b *styleBuilder) add(prop, value string) {
	b.parts = append(b.parts, prop+": "+value)
}

func (b *styleBuilder) String() string {
	if len(b.parts) == 0 {
		return ""
	}
	return strings.Join(b.parts, "; ") + ";"
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
func px(v float64) string  { return num(v) + "px" }
func pct(v float64) string { return num(v) + "%" }

var domPage = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Crosshair preview</title>
<style>
html, body { margin: 0; height: 100%; background: #0a0a0a; }
.viewport { position: relative; width: 100%; height: 100%; overflow: hidden; }
</style>
</head>
<body>
<div class="viewport">
<div class="crosshair" style="{{.Container}}">
{{- range .Elements}}
<div class="{{.Kind}} {{.Role}}" data-part="{{.Part}}" style="{{.Style}}"></div>
{{- end}}
</div>
</div>
</body>
</html>
`))

type domPageData struct {
	Container template.CSS
	Elements  []domPageElement
}

type domPageElement struct {
	Kind, Role, Part string
	Style            template.CSS
}

// WriteHTML writes a standalone page showing the tree on the preview
// background.
func (t DOMTree) WriteHTML(w io.Writer) error {
	data := domPageData{Container: template.CSS(t.Container)}
	for _, el := range t.Elements {
		data.Elements = append(data.Elements, domPageElement{
			Kind:  el.Kind,
			Role:  el.Role,
			Part:  el.Part,
			Style: template.CSS(el.Style),
		})
	}
	return domPage.Execute(w, data)
}
