// Package widgets provides the Gio UI widgets of the visualizer.
package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/sjschlapbach/ta-prm/internal/vis/draw"
	"github.com/sjschlapbach/ta-prm/internal/vis/interact"
	"github.com/sjschlapbach/ta-prm/internal/vis/state"
)

// Workspace is the main 2D view of the environment and schedule.
type Workspace struct {
	state  *state.State
	camera *interact.Camera
	fitted bool
}

// NewWorkspace creates the workspace widget.
func NewWorkspace(st *state.State, camera *interact.Camera) *Workspace {
	return &Workspace{state: st, camera: camera}
}

// Layout renders the workspace at the current playback time.
func (w *Workspace) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	paint.Fill(gtx.Ops, color.NRGBA{R: 25, G: 28, B: 32, A: 255})

	if !w.fitted {
		b := w.state.Inst.Bounds()
		w.camera.FitBounds(b.MinX, b.MinY, b.MaxX, b.MaxY, float32(bounds.X), float32(bounds.Y), 40)
		w.fitted = true
	}

	w.handlePointerEvents(gtx)

	t := w.state.Playback.CurrentTime
	draw.DrawGrid(gtx, w.camera, 10, color.NRGBA{R: 40, G: 45, B: 50, A: 255})
	if w.state.Roadmap != nil {
		draw.DrawRoadmap(gtx, w.state.Roadmap, t, w.camera)
	}
	draw.DrawObstacles(gtx, w.state.Inst.Environment(), t, w.camera)
	if w.state.Plan != nil {
		draw.DrawSchedule(gtx, w.state.Plan, w.camera)
	}
	if pos, ok := w.state.AgentPosition(); ok {
		draw.DrawAgent(gtx, pos, w.camera)
	}

	return layout.Dimensions{Size: bounds}
}

func (w *Workspace) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, w)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: w,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{
				Min: -100,
				Max: 100,
			},
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			w.camera.HandleEvent(gtx, pe)
		}
	}
}
