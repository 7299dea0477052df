package score

import "lyscore/pitch"

// RenderSettings carries everything pitch and payload rendering needs
// besides the event itself. Callers thread it through explicitly so a
// score can render under different keys without global state.
type RenderSettings struct {
	Key pitch.Key
}

func DefaultRenderSettings() RenderSettings {
	return RenderSettings{Key: pitch.CMajor}
}
