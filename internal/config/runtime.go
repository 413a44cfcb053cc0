package config

import "sync"

const (
	minRenderDistance = 5
	maxRenderDistance = 50
)

// RenderSettings holds the settings that can change while the engine runs.
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
}

var globalRenderSettings = &RenderSettings{
	renderDistance: 25,
}

// RenderDistance returns the current render distance in chunks.
func RenderDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks, clamped to the
// working range.
func SetRenderDistance(distance int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if distance < minRenderDistance {
		distance = minRenderDistance
	}
	if distance > maxRenderDistance {
		distance = maxRenderDistance
	}
	globalRenderSettings.renderDistance = distance
}
