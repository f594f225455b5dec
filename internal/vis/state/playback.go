// Package state holds the mutable visualizer state.
package state

import "time"

// Playback manages schedule playback timing between the departure time
// and the arrival time of the displayed plan.
type Playback struct {
	CurrentTime float64
	MinTime     float64
	MaxTime     float64
	Speed       float64 // playback speed multiplier
	Playing     bool
	lastUpdate  time.Time
}

// NewPlayback creates a playback over [minTime, maxTime].
func NewPlayback(minTime, maxTime float64) *Playback {
	return &Playback{
		CurrentTime: minTime,
		MinTime:     minTime,
		MaxTime:     maxTime,
		Speed:       1.0,
		lastUpdate:  time.Now(),
	}
}

// TogglePlay toggles playback, restarting when at the end.
func (p *Playback) TogglePlay() {
	p.Playing = !p.Playing
	if p.Playing {
		p.lastUpdate = time.Now()
		if p.CurrentTime >= p.MaxTime {
			p.CurrentTime = p.MinTime
		}
	}
}

// Pause stops playback.
func (p *Playback) Pause() { p.Playing = false }

// Reset returns to the departure time.
func (p *Playback) Reset() {
	p.CurrentTime = p.MinTime
	p.Playing = false
}

// Advance moves playback forward by the wall-clock time since the last
// frame, scaled by the speed multiplier.
func (p *Playback) Advance() {
	if !p.Playing {
		return
	}
	now := time.Now()
	p.CurrentTime += now.Sub(p.lastUpdate).Seconds() * p.Speed
	p.lastUpdate = now

	if p.CurrentTime >= p.MaxTime {
		p.CurrentTime = p.MaxTime
		p.Playing = false
	}
}

// SetTime clamps and sets the current playback time.
func (p *Playback) SetTime(t float64) {
	if t < p.MinTime {
		t = p.MinTime
	}
	if t > p.MaxTime {
		t = p.MaxTime
	}
	p.CurrentTime = t
}

// StepForward pauses and advances by 1% of the span.
func (p *Playback) StepForward() {
	p.Pause()
	p.SetTime(p.CurrentTime + p.step())
}

// StepBack pauses and rewinds by 1% of the span.
func (p *Playback) StepBack() {
	p.Pause()
	p.SetTime(p.CurrentTime - p.step())
}

func (p *Playback) step() float64 {
	step := (p.MaxTime - p.MinTime) / 100
	if step < 0.1 {
		step = 0.1
	}
	return step
}

// SetSpeed sets the playback speed multiplier, clamped to [0.1, 10].
func (p *Playback) SetSpeed(speed float64) {
	if speed < 0.1 {
		speed = 0.1
	}
	if speed > 10 {
		speed = 10
	}
	p.Speed = speed
}

// Progress returns playback position as 0-1.
func (p *Playback) Progress() float64 {
	span := p.MaxTime - p.MinTime
	if span <= 0 {
		return 0
	}
	return (p.CurrentTime - p.MinTime) / span
}
