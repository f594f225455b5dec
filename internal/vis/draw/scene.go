// Package draw renders environments, roadmaps and schedules.
package draw

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/prm"
	"github.com/sjschlapbach/ta-prm/internal/vis/interact"
)

var (
	ColorObstacleActive   = color.NRGBA{R: 210, G: 80, B: 70, A: 220}
	ColorObstacleInactive = color.NRGBA{R: 120, G: 90, B: 85, A: 70}
	ColorNode             = color.NRGBA{R: 100, G: 120, B: 140, A: 255}
	ColorNodeBlocked      = color.NRGBA{R: 70, G: 80, B: 90, A: 160}
	ColorEdge             = color.NRGBA{R: 80, G: 90, B: 100, A: 120}
	ColorPath             = color.NRGBA{R: 100, G: 180, B: 255, A: 255}
	ColorWaypoint         = color.NRGBA{R: 255, G: 200, B: 80, A: 255}
	ColorAgent            = color.NRGBA{R: 80, G: 200, B: 110, A: 255}
)

// DrawGrid draws a background grid aligned to world coordinates.
func DrawGrid(gtx layout.Context, camera *interact.Camera, gridSize float64, col color.NRGBA) {
	bounds := gtx.Constraints.Max
	minWorldX, minWorldY := camera.ScreenToWorld(0, 0)
	maxWorldX, maxWorldY := camera.ScreenToWorld(float32(bounds.X), float32(bounds.Y))

	startX := math.Floor(minWorldX/gridSize) * gridSize
	for x := startX; x <= maxWorldX; x += gridSize {
		sx, _ := camera.WorldToScreen(x, minWorldY)
		if sx >= 0 && sx <= float32(bounds.X) {
			paint.FillShape(gtx.Ops, col, clip.Rect(image.Rect(int(sx), 0, int(sx)+1, bounds.Y)).Op())
		}
	}
	startY := math.Floor(minWorldY/gridSize) * gridSize
	for y := startY; y <= maxWorldY; y += gridSize {
		_, sy := camera.WorldToScreen(minWorldX, y)
		if sy >= 0 && sy <= float32(bounds.Y) {
			paint.FillShape(gtx.Ops, col, clip.Rect(image.Rect(0, int(sy), bounds.X, int(sy)+1)).Op())
		}
	}
}

// DrawObstacles renders every obstacle at its position at time t.
// Active obstacles are solid, inactive ones are faint outlines of where
// they would be.
func DrawObstacles(gtx layout.Context, e *env.Environment, t float64, camera *interact.Camera) {
	for _, o := range e.Obstacles {
		col := ColorObstacleInactive
		if o.ActiveAt(t) {
			col = ColorObstacleActive
		}
		drawShape(gtx, o.ShapeAt(t), o.Radius, camera, col)
	}
}

func drawShape(gtx layout.Context, shape geom.Shape, radius float64, camera *interact.Camera, col color.NRGBA) {
	switch s := shape.(type) {
	case geom.Point:
		x, y := camera.WorldToScreen(s.X, s.Y)
		r := float32(radius) * camera.Zoom
		if r < 2 {
			r = 2
		}
		drawFilledCircle(gtx, x, y, r, col)
	case geom.Segment:
		width := 2 * float32(radius) * camera.Zoom
		if width < 2 {
			width = 2
		}
		x1, y1 := camera.WorldToScreen(s.A.X, s.A.Y)
		x2, y2 := camera.WorldToScreen(s.B.X, s.B.Y)
		drawThickLine(gtx, x1, y1, x2, y2, width, col)
	case geom.Polygon:
		if len(s.Vertices) < 3 {
			return
		}
		var path clip.Path
		path.Begin(gtx.Ops)
		x, y := camera.WorldToScreen(s.Vertices[0].X, s.Vertices[0].Y)
		path.MoveTo(f32.Pt(x, y))
		for _, v := range s.Vertices[1:] {
			x, y = camera.WorldToScreen(v.X, v.Y)
			path.LineTo(f32.Pt(x, y))
		}
		path.Close()
		paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
	}
}

// DrawRoadmap renders the roadmap edges and nodes. Nodes whose position
// is blocked at time t are dimmed.
func DrawRoadmap(gtx layout.Context, r *prm.Roadmap, t float64, camera *interact.Camera) {
	for _, e := range r.Edges {
		a := r.Node(e.From)
		b := r.Node(e.To)
		x1, y1 := camera.WorldToScreen(a.Pos.X, a.Pos.Y)
		x2, y2 := camera.WorldToScreen(b.Pos.X, b.Pos.Y)
		drawThickLine(gtx, x1, y1, x2, y2, 1, ColorEdge)
	}
	for _, n := range r.Nodes {
		col := ColorNode
		if !n.Free.Contains(t) {
			col = ColorNodeBlocked
		}
		x, y := camera.WorldToScreen(n.Pos.X, n.Pos.Y)
		drawFilledCircle(gtx, x, y, 3, col)
	}
}

// DrawSchedule renders the planned path and its waypoints.
func DrawSchedule(gtx layout.Context, plan *prm.PlanResult, camera *interact.Camera) {
	for i := 0; i+1 < len(plan.Waypoints); i++ {
		a, b := plan.Waypoints[i], plan.Waypoints[i+1]
		x1, y1 := camera.WorldToScreen(a.Pos.X, a.Pos.Y)
		x2, y2 := camera.WorldToScreen(b.Pos.X, b.Pos.Y)
		drawThickLine(gtx, x1, y1, x2, y2, 2, ColorPath)
	}
	for _, w := range plan.Waypoints {
		x, y := camera.WorldToScreen(w.Pos.X, w.Pos.Y)
		drawFilledCircle(gtx, x, y, 4, ColorWaypoint)
	}
}

// DrawAgent renders the agent at a world position.
func DrawAgent(gtx layout.Context, pos geom.Point, camera *interact.Camera) {
	x, y := camera.WorldToScreen(pos.X, pos.Y)
	drawFilledCircle(gtx, x, y, 6, ColorAgent)
}

func drawFilledCircle(gtx layout.Context, centerX, centerY, radius float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.Move(f32.Pt(centerX+radius, centerY))
	segments := 20
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		x := centerX + radius*float32(math.Cos(angle))
		y := centerY + radius*float32(math.Sin(angle))
		path.Line(f32.Pt(x-path.Pos().X, y-path.Pos().Y))
	}
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawThickLine(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
