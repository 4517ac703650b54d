package property

import "github.com/kailas-cloud/propmatch/internal/domain/fold"

// Level is an ordinal sector indicator (demand, security).
type Level int

// Sector levels, ordered.
const (
	LevelUnknown Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelVeryHigh
)

var levelNames = map[Level]string{
	LevelUnknown:  "",
	LevelLow:      "low",
	LevelMedium:   "medium",
	LevelHigh:     "high",
	LevelVeryHigh: "very_high",
}

var levelTokens = map[string]Level{
	"very_high": LevelVeryHigh,
	"very high": LevelVeryHigh,
	"muy alta":  LevelVeryHigh,
	"muy alto":  LevelVeryHigh,
	"high":      LevelHigh,
	"alta":      LevelHigh,
	"alto":      LevelHigh,
	"medium":    LevelMedium,
	"moderate":  LevelMedium,
	"media":     LevelMedium,
	"medio":     LevelMedium,
	"low":       LevelLow,
	"baja":      LevelLow,
	"bajo":      LevelLow,
}

// ParseLevel maps a free-text level to a Level. Unknown text yields LevelUnknown.
func ParseLevel(s string) Level {
	return levelTokens[fold.String(s)]
}

func (l Level) String() string { return levelNames[l] }

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognized values become LevelUnknown.
func (l *Level) UnmarshalText(b []byte) error {
	*l = ParseLevel(string(b))
	return nil
}

// AtLeastHigh reports whether the level is high or very high.
func (l Level) AtLeastHigh() bool { return l >= LevelHigh }
