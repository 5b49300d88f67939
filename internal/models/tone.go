package models

// Tone steers the phrasing of generated nudges.
type Tone string

const (
	ToneMotivational Tone = "motivational"
	ToneReflective   Tone = "reflective"
	ToneChallenging  Tone = "challenging"
	// ToneDefault is the balanced fallback for unset or unrecognized tones.
	ToneDefault Tone = "default"
)

// ParseTone matches raw exactly. Case variants and unknown values map to ToneDefault.
func ParseTone(raw string) Tone {
	switch Tone(raw) {
	case ToneMotivational, ToneReflective, ToneChallenging:
		return Tone(raw)
	default:
		return ToneDefault
	}
}

// IsKnownTone reports whether raw names one of the selectable tones, including "default".
func IsKnownTone(raw string) bool {
	switch Tone(raw) {
	case ToneMotivational, ToneReflective, ToneChallenging, ToneDefault:
		return true
	default:
		return false
	}
}
