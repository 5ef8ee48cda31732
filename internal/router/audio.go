package router

import "sync"

// audioGate holds the per-tab unlock flag. Browsers refuse audio playback
// until a user gesture, so the gate stays closed until one Unlock call
// succeeds; failures leave it closed for the next gesture.
type audioGate struct {
	audio AudioPlayer

	mu   sync.Mutex
	open bool
}

func newAudioGate(audio AudioPlayer) *audioGate {
	return &audioGate{audio: audio}
}

func (g *audioGate) unlock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open {
		return
	}
	if err := g.audio.Unlock(); err != nil {
		return
	}
	g.open = true
}

func (g *audioGate) unlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}
