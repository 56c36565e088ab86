package core

import (
	"time"

	"github.com/spaghettifunk/screenwipe/engine/containers"
)

const AVG_COUNT int = 30

// Metrics keeps a rolling average of frame times and a frames-per-second counter.
type Metrics struct {
	frameTimes         *containers.RingQueue[float64]
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
	totalFrames        uint64
}

func NewMetrics() *Metrics {
	return &Metrics{
		frameTimes: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

func (m *Metrics) Update(frameElapsed time.Duration) {
	frameMS := float64(frameElapsed) / float64(time.Millisecond)
	m.frameTimes.Push(frameMS)

	sum := 0.0
	m.frameTimes.Each(func(v float64) {
		sum += v
	})
	m.msAvg = sum / float64(m.frameTimes.Len())

	// Calculate Frames per second.
	m.accumulatedFrameMS += frameMS
	m.frames++
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}
	m.totalFrames++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}

func (m *Metrics) TotalFrames() uint64 {
	return m.totalFrames
}
