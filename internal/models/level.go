package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a difficulty tier. Levels 1-3 select an English word pool,
// LevelKorean selects the Korean track.
type Level int

const (
	LevelBeginner     Level = 1
	LevelIntermediate Level = 2
	LevelAdvanced     Level = 3
	LevelKorean       Level = 4
)

// Levels lists every level in order.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelKorean}

var levelDescriptions = map[Level]string{
	LevelBeginner:     "Beginner - Basic vocabulary with common everyday words",
	LevelIntermediate: "Intermediate - More challenging words for advancing learners",
	LevelAdvanced:     "Advanced - Sophisticated vocabulary for expert learners",
	LevelKorean:       "Korean - Vocabulary for Korean language learners",
}

// ParseLevel converts n into a Level.
func ParseLevel(n int) (Level, error) {
	l := Level(n)
	if _, ok := levelDescriptions[l]; !ok {
		return 0, fmt.Errorf("unknown level %d", n)
	}
	return l, nil
}

// HasWordPool reports whether the level is backed by a predefined English pool.
func (l Level) HasWordPool() bool {
	return l >= LevelBeginner && l <= LevelAdvanced
}

// Description returns the human-readable description of the level.
func (l Level) Description() string {
	return levelDescriptions[l]
}

// Name returns the short name ("Beginner", "Korean", ...).
func (l Level) Name() string {
	d := l.Description()
	if i := strings.Index(d, " - "); i >= 0 {
		return d[:i]
	}
	return d
}

func (l Level) String() string { return strconv.Itoa(int(l)) }

// Speed is a pronunciation speed option passed to the audio synthesizer.
type Speed string

const (
	SpeedNormal       Speed = "normal"
	SpeedSlightlySlow Speed = "0.9"
	SpeedSlow         Speed = "0.8"
)

// Speeds lists every speed option in display order.
var Speeds = []Speed{SpeedNormal, SpeedSlightlySlow, SpeedSlow}

var speedLabels = map[Speed]string{
	SpeedNormal:       "Normal Speed",
	SpeedSlightlySlow: "Slightly Slower (0.9x)",
	SpeedSlow:         "Slower (0.8x)",
}

// ParseSpeed validates s. An empty string selects SpeedNormal.
func ParseSpeed(s string) (Speed, error) {
	if s == "" {
		return SpeedNormal, nil
	}
	sp := Speed(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := speedLabels[sp]; !ok {
		return "", fmt.Errorf("unknown speed %q", s)
	}
	return sp, nil
}

// Label returns the display label of the speed.
func (s Speed) Label() string {
	return speedLabels[s]
}

// Rate returns the playback rate multiplier (1.0 for normal).
func (s Speed) Rate() float64 {
	switch s {
	case SpeedSlightlySlow:
		return 0.9
	case SpeedSlow:
		return 0.8
	default:
		return 1.0
	}
}
