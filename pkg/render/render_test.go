package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"pagemap/pkg/html"
	"pagemap/pkg/page"
)

func renderPage(t *testing.T, src string, w, h int) (*Renderer, *page.Document) {
	t.Helper()
	parsed, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	doc := page.New(parsed, float64(w), float64(h))
	r := NewRenderer(w, h)
	r.Render(doc)
	return r, doc
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestRender_Background(t *testing.T) {
	r, _ := renderPage(t, `<html><body style="margin: 0">
<div style="height: 50px; background-color: red"></div>
</body></html>`, 100, 100)

	img := r.Image()
	if c := rgbaAt(img, 10, 10); c.R != 255 || c.G != 0 || c.B != 0 {
		t.Errorf("expected red background, got %v", c)
	}
	if c := rgbaAt(img, 10, 70); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("expected white below the div, got %v", c)
	}
}

func TestRender_FollowsWindowScroll(t *testing.T) {
	r, doc := renderPage(t, `<html><body style="margin: 0">
<div style="height: 100px"></div>
<div style="height: 50px; background-color: blue"></div>
<div style="height: 1000px"></div>
</body></html>`, 100, 100)

	if c := rgbaAt(r.Image(), 10, 10); c.B == 255 && c.R == 0 {
		t.Fatalf("blue box should start below the viewport")
	}
	doc.Window().ScrollTo(0, 100)
	r.Render(doc)
	if c := rgbaAt(r.Image(), 10, 10); c.B != 255 || c.R != 0 {
		t.Errorf("expected blue at the top after scrolling, got %v", c)
	}
}

func TestRender_BorderSideColor(t *testing.T) {
	r, _ := renderPage(t, `<html><body style="margin: 0">
<div style="width: 40px; height: 40px; border: 5px solid black; border-left-color: lime"></div>
</body></html>`, 100, 100)

	img := r.Image()
	if c := rgbaAt(img, 2, 25); c.G != 255 || c.R != 0 {
		t.Errorf("expected lime left border, got %v", c)
	}
	if c := rgbaAt(img, 25, 2); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("expected black top border, got %v", c)
	}
}

func TestRender_ScrollContainerClips(t *testing.T) {
	r, doc := renderPage(t, `<html><body style="margin: 0">
<div id="s" style="width: 50px; height: 50px; overflow: auto">
<div style="height: 60px"></div>
<div style="height: 40px; background-color: red"></div>
</div>
</body></html>`, 100, 100)

	// The red child sits at y=60, below the 50px container.
	if c := rgbaAt(r.Image(), 10, 70); c.R != 255 || c.G != 255 {
		t.Errorf("overflowing child should be clipped, got %v", c)
	}
	doc.GetElementByID("s").ScrollTo(0, 40)
	r.Render(doc)
	if c := rgbaAt(r.Image(), 10, 30); c.R != 255 || c.G != 0 {
		t.Errorf("expected red inside the container after scrolling, got %v", c)
	}
}

func TestRender_CanvasSource(t *testing.T) {
	parsed, err := html.Parse(strings.NewReader(`<html><body style="margin: 0">
<canvas id="c" style="display: block; width: 20px; height: 20px; padding: 5px"></canvas>
</body></html>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	doc := page.New(parsed, 100, 100)

	pixels := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range pixels.Pix {
		pixels.Pix[i] = 0xff
	}
	pixels.Pix[0], pixels.Pix[1] = 0, 0 // blue at (0,0)

	r := NewRenderer(100, 100)
	var asked []string
	r.SetCanvasSource(func(el *page.Element) image.Image {
		asked = append(asked, el.ID())
		return pixels
	})
	r.Render(doc)

	if len(asked) != 1 || asked[0] != "c" {
		t.Fatalf("expected one lookup for #c, got %v", asked)
	}
	if c := rgbaAt(r.Image(), 5, 5); c.B != 255 || c.R != 0 {
		t.Errorf("expected canvas pixels at the content origin, got %v", c)
	}
}

func TestRender_Text(t *testing.T) {
	r, _ := renderPage(t, `<html><body style="margin: 0; color: black">
<p style="margin: 0">MMMMMM</p>
</body></html>`, 100, 40)

	img := r.Image()
	dark := 0
	for y := 0; y < 24; y++ {
		for x := 0; x < 60; x++ {
			if c := rgbaAt(img, x, y); c.R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("expected text pixels in the first line")
	}
}
