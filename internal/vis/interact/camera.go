// Package interact handles pan and zoom of the world view.
package interact

import (
	"gioui.org/io/pointer"
	"gioui.org/layout"
)

// Camera maps world coordinates to screen pixels with a pan offset and
// a zoom factor.
type Camera struct {
	OffsetX float32
	OffsetY float32
	Zoom    float32

	dragging bool
	lastX    float32
	lastY    float32
}

// NewCamera creates a camera at the default view.
func NewCamera() *Camera {
	return &Camera{OffsetX: 60, OffsetY: 60, Zoom: 1.0}
}

// Reset returns the camera to the default view.
func (c *Camera) Reset() {
	c.OffsetX = 60
	c.OffsetY = 60
	c.Zoom = 1.0
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(worldX, worldY float64) (screenX, screenY float32) {
	screenX = float32(worldX)*c.Zoom + c.OffsetX
	screenY = float32(worldY)*c.Zoom + c.OffsetY
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(screenX, screenY float32) (worldX, worldY float64) {
	worldX = float64((screenX - c.OffsetX) / c.Zoom)
	worldY = float64((screenY - c.OffsetY) / c.Zoom)
	return
}

// HandleEvent processes pointer events: drag with the secondary or
// middle button pans, scrolling zooms around the cursor.
func (c *Camera) HandleEvent(gtx layout.Context, ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary) {
			c.dragging = true
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.OffsetX += ev.Position.X - c.lastX
			c.OffsetY += ev.Position.Y - c.lastY
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Release, pointer.Cancel:
		c.dragging = false

	case pointer.Scroll:
		if ev.Scroll.Y != 0 {
			worldX, worldY := c.ScreenToWorld(ev.Position.X, ev.Position.Y)

			factor := float32(1.1)
			if ev.Scroll.Y > 0 {
				c.Zoom /= factor
			} else {
				c.Zoom *= factor
			}
			c.clampZoom()

			// Keep the world point under the cursor fixed.
			newX, newY := c.WorldToScreen(worldX, worldY)
			c.OffsetX += ev.Position.X - newX
			c.OffsetY += ev.Position.Y - newY
		}
	}
}

// FitBounds zooms and pans so the world rectangle fills the screen with
// the given pixel margin.
func (c *Camera) FitBounds(minX, minY, maxX, maxY float64, screenWidth, screenHeight, margin float32) {
	worldW := maxX - minX
	worldH := maxY - minY
	if worldW <= 0 || worldH <= 0 {
		return
	}

	zoomX := (screenWidth - 2*margin) / float32(worldW)
	zoomY := (screenHeight - 2*margin) / float32(worldH)
	c.Zoom = zoomX
	if zoomY < zoomX {
		c.Zoom = zoomY
	}
	c.clampZoom()

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2
	c.OffsetX = screenWidth/2 - float32(centerX)*c.Zoom
	c.OffsetY = screenHeight/2 - float32(centerY)*c.Zoom
}

func (c *Camera) clampZoom() {
	if c.Zoom < 0.1 {
		c.Zoom = 0.1
	}
	if c.Zoom > 100 {
		c.Zoom = 100
	}
}
