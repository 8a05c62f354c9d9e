package layout

import (
	"math"
	"strings"

	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/html"
)

// LayoutEngine lays a styled document out as a tree of block and inline
// boxes: normal flow with sibling margin collapsing, line wrapping of text
// and inline elements, atomic inline-blocks, and fixed/absolute boxes taken
// out of flow against the initial containing block.
type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
	styles map[*html.Node]*css.Style
	boxes  map[*html.Node]*Box
}

func NewLayoutEngine(viewportWidth, viewportHeight float64) *LayoutEngine {
	le := &LayoutEngine{}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// Layout computes styles and boxes for every element of doc.
func (le *LayoutEngine) Layout(doc *html.Document) *Tree {
	le.styles = css.ApplyStylesToDocument(doc)
	le.boxes = make(map[*html.Node]*Box)

	viewport := geom.Size{W: le.viewport.width, H: le.viewport.height}
	tree := &Tree{
		Styles:       le.styles,
		Boxes:        le.boxes,
		Viewport:     viewport,
		DocumentSize: viewport,
	}

	var htmlNode *html.Node
	for _, child := range doc.Root.Children {
		if child.Type == html.ElementNode {
			htmlNode = child
			break
		}
	}
	if htmlNode == nil || le.styles[htmlNode].GetDisplay() == css.DisplayNone {
		return tree
	}

	root := le.layoutBlock(htmlNode, nil, 0, 0, le.viewport.width, false)
	tree.Root = root

	extent := root.BorderBox().Union(root.overflow)
	tree.DocumentSize.W = snap(math.Max(viewport.W, extent.Right()+root.Margin.Right))
	tree.DocumentSize.H = snap(math.Max(viewport.H, extent.Bottom()+root.Margin.Bottom))
	return tree
}

// lengthOf resolves a px or percentage length against ref.
func lengthOf(style *css.Style, property string, ref float64) (float64, bool) {
	val, ok := style.Get(property)
	if !ok {
		return 0, false
	}
	val = strings.TrimSpace(val)
	if strings.HasSuffix(val, "%") {
		pct, ok := css.ParseLength(strings.TrimSuffix(val, "%"))
		if !ok {
			return 0, false
		}
		return ref * pct / 100, true
	}
	return css.ParseLength(val)
}

// layoutBlock places a block-level box whose margin box starts at (x, y).
func (le *LayoutEngine) layoutBlock(node *html.Node, parent *Box, x, y, containingWidth float64, fixed bool) *Box {
	style := le.styles[node]
	box := &Box{
		Node:            node,
		Style:           style,
		Parent:          parent,
		Margin:          style.GetMargin(),
		Padding:         style.GetPadding(),
		Border:          style.GetBorderWidth(),
		Position:        style.GetPosition(),
		ScrollContainer: style.IsScrollContainer(),
		Fixed:           fixed || style.GetPosition() == css.PositionFixed,
	}
	le.boxes[node] = box

	if w, ok := lengthOf(style, "width", containingWidth); ok {
		box.Width = math.Max(0, w)
	} else {
		box.Width = math.Max(0, containingWidth-box.Margin.Horizontal()-box.Border.Horizontal()-box.Padding.Horizontal())
	}
	box.X = x + box.Margin.Left
	box.Y = y + box.Margin.Top

	contentBottom := le.layoutChildren(box)
	if h, ok := lengthOf(style, "height", le.viewport.height); ok {
		box.Height = math.Max(0, h)
	} else {
		box.Height = math.Max(0, contentBottom-box.ContentBox().Y)
	}
	return box
}

// layoutChildren flows the children of box and returns the y just below
// the last line or block.
func (le *LayoutEngine) layoutChildren(box *Box) float64 {
	content := box.ContentBox()
	flow := &lineFlow{left: content.X, right: content.X + content.W, x: content.X, y: content.Y, owner: box}

	var prevBlock *Box
	for _, child := range box.Node.Children {
		if child.Type == html.TextNode {
			flow.addText(child.Text, box.Style)
			prevBlock = nil
			continue
		}
		style := le.styles[child]
		if style == nil || style.GetDisplay() == css.DisplayNone {
			continue
		}

		if pos := style.GetPosition(); pos == css.PositionFixed || pos == css.PositionAbsolute {
			le.layoutPositioned(child, box, flow)
			continue
		}

		switch style.GetDisplay() {
		case css.DisplayInline:
			le.layoutInline(child, box, flow)
			prevBlock = nil
		case css.DisplayInlineBlock:
			le.layoutAtomic(child, box, flow)
			prevBlock = nil
		default:
			y := flow.newline()
			if prevBlock != nil {
				y -= math.Min(prevBlock.Margin.Bottom, style.GetMargin().Top)
			}
			block := le.layoutBlock(child, box, content.X, y, content.W, box.Fixed)
			box.Children = append(box.Children, block)
			flow.y = block.BorderBox().Bottom() + block.Margin.Bottom
			prevBlock = block
		}
	}
	bottom := flow.newline()
	le.collectOverflow(box)
	return bottom
}

// layoutInline creates a box for an inline element covering the lines its
// content occupies, then flows its children into the same lines.
func (le *LayoutEngine) layoutInline(node *html.Node, parent *Box, flow *lineFlow) {
	style := le.styles[node]
	box := &Box{Node: node, Style: style, Parent: parent, Inline: true, Fixed: parent.Fixed, Position: style.GetPosition()}
	le.boxes[node] = box
	parent.Children = append(parent.Children, box)

	startX, startY := flow.x, flow.y
	for _, child := range node.Children {
		if child.Type == html.TextNode {
			flow.addText(child.Text, style)
			continue
		}
		cs := le.styles[child]
		if cs == nil || cs.GetDisplay() == css.DisplayNone {
			continue
		}
		if cs.GetDisplay() == css.DisplayInlineBlock {
			le.layoutAtomic(child, box, flow)
			continue
		}
		// Blocks nested in inlines are flowed as inline content.
		le.layoutInline(child, box, flow)
	}

	lineHeight := math.Max(flow.lineHeight, style.GetLineHeight())
	if flow.y == startY {
		box.X, box.Y = startX, startY
		box.Width = math.Max(0, flow.x-startX)
		box.Height = lineHeight
	} else {
		box.X, box.Y = flow.left, startY
		box.Width = flow.right - flow.left
		box.Height = flow.y + lineHeight - startY
	}
}

// layoutAtomic places an inline-block (img, canvas) as one unbreakable item
// of the current line.
func (le *LayoutEngine) layoutAtomic(node *html.Node, parent *Box, flow *lineFlow) {
	style := le.styles[node]
	margin := style.GetMargin()
	avail := flow.right - flow.left
	width := avail
	if w, ok := lengthOf(style, "width", avail); ok {
		width = w + style.GetPadding().Horizontal() + style.GetBorderWidth().Horizontal() + margin.Horizontal()
	}
	if flow.x+width > flow.right && flow.x > flow.left {
		flow.breakLine()
	}

	box := le.layoutBlock(node, parent, flow.x, flow.y, avail, parent.Fixed)
	box.Inline = true
	parent.Children = append(parent.Children, box)

	bb := box.BorderBox()
	flow.x = bb.Right() + margin.Right
	flow.lineHeight = math.Max(flow.lineHeight, bb.Bottom()+margin.Bottom-flow.y)
	flow.hasContent = true
	flow.spacePending = false
}

// layoutPositioned lays out a fixed or absolute box against the initial
// containing block: the viewport for fixed, the document origin for
// absolute. Offsets that are not given keep the static position.
func (le *LayoutEngine) layoutPositioned(node *html.Node, parent *Box, flow *lineFlow) {
	style := le.styles[node]
	fixed := style.GetPosition() == css.PositionFixed || parent.Fixed
	off := style.GetPositionOffset()
	cw, ch := le.viewport.width, le.viewport.height

	containing := cw
	if off.HasLeft && off.HasRight {
		if _, ok := style.Get("width"); !ok {
			containing = math.Max(0, cw-off.Left-off.Right)
		}
	}
	staticX, staticY := flow.x, flow.y
	if style.GetPosition() == css.PositionFixed {
		// static position means nothing in viewport space
		staticX, staticY = 0, 0
	}
	box := le.layoutBlock(node, parent, staticX, staticY, containing, fixed)
	parent.Children = append(parent.Children, box)

	bb := box.BorderBox()
	dx, dy := 0.0, 0.0
	switch {
	case off.HasLeft:
		dx = off.Left + box.Margin.Left - bb.X
	case off.HasRight:
		dx = cw - off.Right - box.Margin.Right - bb.W - bb.X
	}
	switch {
	case off.HasTop:
		dy = off.Top + box.Margin.Top - bb.Y
	case off.HasBottom:
		dy = ch - off.Bottom - box.Margin.Bottom - bb.H - bb.Y
	}
	shiftBox(box, dx, dy)
}

// collectOverflow records the extent of in-flow descendants. Fixed boxes
// never contribute; scroll containers contribute their border box only.
func (le *LayoutEngine) collectOverflow(box *Box) {
	var extent geom.Rect
	for _, line := range box.Lines {
		extent = extent.Union(geom.R(line.X, line.Y, line.Width, line.Height))
	}
	for _, c := range box.Children {
		if c.Fixed && !box.Fixed {
			continue
		}
		extent = extent.Union(c.BorderBox())
		if !c.ScrollContainer {
			extent = extent.Union(c.overflow)
		}
	}
	box.overflow = extent
}

func shiftBox(b *Box, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	b.X += dx
	b.Y += dy
	if !b.overflow.Empty() {
		b.overflow = b.overflow.Translate(geom.Pt(dx, dy))
	}
	for i := range b.Lines {
		b.Lines[i].X += dx
		b.Lines[i].Y += dy
	}
	for _, c := range b.Children {
		shiftBox(c, dx, dy)
	}
}

// lineFlow is the inline formatting state of one block container.
type lineFlow struct {
	left, right  float64
	x, y         float64
	lineHeight   float64
	hasContent   bool
	spacePending bool
	owner        *Box // block that receives the text runs
}

// breakLine ends the current line.
func (f *lineFlow) breakLine() {
	f.y += f.lineHeight
	f.x = f.left
	f.lineHeight = 0
	f.hasContent = false
	f.spacePending = false
}

// newline closes an open line and returns the y where the next block
// starts.
func (f *lineFlow) newline() float64 {
	if f.hasContent {
		f.breakLine()
	}
	return f.y
}

func (f *lineFlow) addText(text string, style *css.Style) {
	words := strings.Fields(text)
	if len(words) == 0 {
		if text != "" {
			f.spacePending = f.hasContent
		}
		return
	}
	fontSize := style.GetFontSize()
	lineHeight := style.GetLineHeight()
	color := style.GetColor()
	space := MeasureText(" ", fontSize)
	leading := strings.HasPrefix(text, " ")

	for i, word := range words {
		ww := MeasureText(word, fontSize)
		needSpace := (i > 0 || leading || f.spacePending) && f.x > f.left
		adv := ww
		if needSpace {
			adv += space
		}
		if f.x+adv > f.right && f.x > f.left {
			f.breakLine()
			needSpace = false
		}
		x0 := f.x
		if needSpace {
			x0 += space
		}
		f.emit(x0, ww, word, needSpace, fontSize, lineHeight, color)
		f.x = x0 + ww
		f.lineHeight = math.Max(f.lineHeight, lineHeight)
		f.hasContent = true
		f.spacePending = false
	}
	f.spacePending = strings.HasSuffix(text, " ")
}

// emit appends a word to the owner's last run when it continues the same
// line in the same face, otherwise starts a new run.
func (f *lineFlow) emit(x, width float64, word string, spaced bool, fontSize, lineHeight float64, color css.Color) {
	lines := f.owner.Lines
	if n := len(lines); n > 0 {
		last := &lines[n-1]
		if last.Y == f.y && last.FontSize == fontSize && last.Color == color && last.X+last.Width <= x {
			if spaced {
				last.Text += " "
			}
			last.Text += word
			last.Width = x + width - last.X
			last.Height = math.Max(last.Height, lineHeight)
			return
		}
	}
	f.owner.Lines = append(lines, TextRun{
		X: x, Y: f.y, Width: width, Height: lineHeight,
		Text: word, FontSize: fontSize, Color: color,
	})
}
