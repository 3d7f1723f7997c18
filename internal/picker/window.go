package picker

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/ctessum/geom"

	"daslayout/internal/routes"
)

var lineColors = []color.NRGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

var (
	spaceFill    = color.NRGBA{R: 0xe8, G: 0xf0, B: 0xe8, A: 0xff}
	spaceOutline = color.NRGBA{R: 0x33, G: 0x66, B: 0x33, A: 0xff}
	obstacleFill = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0x90}
	anchorColor  = color.NRGBA{A: 0xff}
)

type ui struct {
	th     *material.Theme
	scene  *Scene
	sel    *Selection
	anchor *geom.Point
	view   viewport

	newLine      widget.Clickable
	finishLine   widget.Clickable
	clearCurrent widget.Clickable
	clearAll     widget.Clickable
	printPoints  widget.Clickable
}

// Run drives the window until it is closed, then returns the finalized
// selection. It blocks its goroutine; the caller owns window creation so
// the window library can keep the process main goroutine (see
// cmd/proposal).
func Run(w *app.Window, scene *Scene, anchor *geom.Point) (routes.Set, error) {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	u := &ui{
		th:     th,
		scene:  scene,
		sel:    new(Selection),
		anchor: anchor,
	}

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			if e.Err != nil {
				return nil, e.Err
			}
			return u.sel.Finalize(), nil
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			u.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (u *ui) layout(gtx layout.Context) layout.Dimensions {
	if u.newLine.Clicked(gtx) {
		u.sel.StartLine()
	}
	if u.finishLine.Clicked(gtx) {
		if u.sel.FinishLine() {
			log.Printf("picker: finished line %d", len(u.sel.Lines()))
		}
	}
	if u.clearCurrent.Clicked(gtx) {
		u.sel.ClearCurrent()
	}
	if u.clearAll.Clicked(gtx) {
		u.sel.ClearAll()
		log.Print("picker: selection cleared")
	}
	if u.printPoints.Clicked(gtx) {
		u.sel.FinishLine()
		for i, line := range u.sel.Lines() {
			log.Printf("picker: line %d (%.1f m): %v", i, line.Length(u.anchor), line)
		}
	}

	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(u.controls),
		layout.Flexed(1, u.canvas),
	)
}

func (u *ui) controls(gtx layout.Context) layout.Dimensions {
	gtx.Constraints.Min.X = gtx.Dp(170)
	gtx.Constraints.Max.X = gtx.Dp(170)
	inset := layout.UniformInset(unit.Dp(6))
	btn := func(c *widget.Clickable, label string) layout.FlexChild {
		return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return inset.Layout(gtx, material.Button(u.th, c, label).Layout)
		})
	}
	status := fmt.Sprintf("Lines: %d\nCurrent: %d points\nLength: %.1f m",
		len(u.sel.Lines()), len(u.sel.Current()), u.sel.CurrentLength(u.anchor))

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		btn(&u.newLine, "New line"),
		btn(&u.finishLine, "Finish line"),
		btn(&u.clearCurrent, "Clear current"),
		btn(&u.clearAll, "Clear all"),
		btn(&u.printPoints, "Print points"),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return inset.Layout(gtx, material.Body1(u.th, status).Layout)
		}),
	)
}

func (u *ui) canvas(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	u.view.fit(u.scene.Bounds(), size)

	defer clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, u)
	for {
		ev, ok := gtx.Event(pointer.Filter{Target: u, Kinds: pointer.Press})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok || pe.Kind != pointer.Press {
			continue
		}
		p := u.view.toWorld(pe.Position)
		u.scene.CheckPoint(p)
		u.sel.AddPoint(p)
	}

	paint.FillShape(gtx.Ops, color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff},
		clip.Rect(image.Rectangle{Max: size}).Op())

	for _, ring := range u.scene.DesignSpace {
		u.fillRing(gtx.Ops, ring, spaceFill)
	}
	for _, ring := range u.scene.DesignSpace {
		u.strokeRing(gtx.Ops, ring, spaceOutline, 2)
	}
	for _, shape := range u.scene.Shapes {
		for _, ring := range shape {
			u.fillRing(gtx.Ops, ring, obstacleFill)
		}
	}
	for _, a := range u.scene.Anchors {
		u.marker(gtx.Ops, a, anchorColor)
	}
	for i, line := range u.sel.Lines() {
		c := lineColors[i%len(lineColors)]
		u.drawAnchorLeg(gtx.Ops, line, c)
		u.drawLine(gtx.Ops, line, c)
	}
	if cur := u.sel.Current(); len(cur) > 0 {
		c := lineColors[u.sel.LineIndex()%len(lineColors)]
		u.drawAnchorLeg(gtx.Ops, cur, c)
		u.drawLine(gtx.Ops, cur, c)
		for _, p := range cur {
			u.marker(gtx.Ops, p, c)
		}
	}

	return layout.Dimensions{Size: size}
}

// drawAnchorLeg draws the dashed run-out from the anchor to the line's
// first point; the leg counts toward the line length.
func (u *ui) drawAnchorLeg(ops *op.Ops, line routes.Line, c color.NRGBA) {
	if u.anchor == nil || len(line) == 0 {
		return
	}
	segs := dashSegments(u.view.toScreen(*u.anchor), u.view.toScreen(line[0]), 8, 6)
	if len(segs) == 0 {
		return
	}
	var path clip.Path
	path.Begin(ops)
	for _, s := range segs {
		path.MoveTo(s[0])
		path.LineTo(s[1])
	}
	paint.FillShape(ops, c, clip.Stroke{Path: path.End(), Width: 2}.Op())
}

// dashSegments splits the segment from a to b into dash-length pieces
// separated by gaps.
func dashSegments(a, b f32.Point, dash, gap float32) [][2]f32.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return nil
	}
	var segs [][2]f32.Point
	for pos := float32(0); pos < length; pos += dash + gap {
		end := pos + dash
		if end > length {
			end = length
		}
		segs = append(segs, [2]f32.Point{
			f32.Pt(a.X+dx*pos/length, a.Y+dy*pos/length),
			f32.Pt(a.X+dx*end/length, a.Y+dy*end/length),
		})
	}
	return segs
}

func (u *ui) drawLine(ops *op.Ops, line routes.Line, c color.NRGBA) {
	if len(line) == 1 {
		u.marker(ops, line[0], c)
		return
	}
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(u.view.toScreen(line[0]))
	for _, p := range line[1:] {
		path.LineTo(u.view.toScreen(p))
	}
	paint.FillShape(ops, c, clip.Stroke{Path: path.End(), Width: 3}.Op())
}

func (u *ui) strokeRing(ops *op.Ops, ring []geom.Point, c color.NRGBA, width float32) {
	if len(ring) < 2 {
		return
	}
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(u.view.toScreen(ring[0]))
	for _, p := range ring[1:] {
		path.LineTo(u.view.toScreen(p))
	}
	path.Close()
	paint.FillShape(ops, c, clip.Stroke{Path: path.End(), Width: width}.Op())
}

func (u *ui) fillRing(ops *op.Ops, ring []geom.Point, c color.NRGBA) {
	if len(ring) < 3 {
		return
	}
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(u.view.toScreen(ring[0]))
	for _, p := range ring[1:] {
		path.LineTo(u.view.toScreen(p))
	}
	path.Close()
	paint.FillShape(ops, c, clip.Outline{Path: path.End()}.Op())
}

func (u *ui) marker(ops *op.Ops, p geom.Point, c color.NRGBA) {
	s := u.view.toScreen(p)
	r := image.Rect(int(s.X)-4, int(s.Y)-4, int(s.X)+4, int(s.Y)+4)
	paint.FillShape(ops, c, clip.Ellipse(r).Op(ops))
}

// viewport maps world coordinates onto the canvas, preserving aspect
// ratio and flipping Y so north is up.
type viewport struct {
	minX, minY float64
	scale      float64
	height     float64
	padX, padY float64
}

func (v *viewport) fit(b *geom.Bounds, size image.Point) {
	const margin = 20
	w := b.Max.X - b.Min.X
	h := b.Max.Y - b.Min.Y
	if w <= 0 || h <= 0 {
		v.scale = 1
		return
	}
	sx := (float64(size.X) - 2*margin) / w
	sy := (float64(size.Y) - 2*margin) / h
	v.scale = sx
	if sy < sx {
		v.scale = sy
	}
	v.minX = b.Min.X
	v.minY = b.Min.Y
	v.height = float64(size.Y)
	v.padX = (float64(size.X) - w*v.scale) / 2
	v.padY = (float64(size.Y) - h*v.scale) / 2
}

func (v *viewport) toScreen(p geom.Point) f32.Point {
	x := v.padX + (p.X-v.minX)*v.scale
	y := v.height - v.padY - (p.Y-v.minY)*v.scale
	return f32.Pt(float32(x), float32(y))
}

func (v *viewport) toWorld(p f32.Point) geom.Point {
	x := v.minX + (float64(p.X)-v.padX)/v.scale
	y := v.minY + (v.height-v.padY-float64(p.Y))/v.scale
	return geom.Point{X: x, Y: y}
}
