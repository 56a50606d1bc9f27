// Package activity classifies log text into a fixed, ordered activity taxonomy.
package activity

import "regexp"

// Key identifies a taxonomy category.
type Key string

const (
	KeyStrength Key = "strength"
	KeyCardio   Key = "cardio"
	KeyCycle    Key = "cycle"
	KeyMobility Key = "mobility"
	KeyWalk     Key = "walk"
	KeyWorkout  Key = "workout"
	KeyEvent    Key = "event"
)

// Classification is the display tag for a piece of text. It is never persisted.
type Classification struct {
	Key   Key    `json:"key"`
	Badge string `json:"badge"`
	Label string `json:"label"`
}

type rule struct {
	pattern *regexp.Regexp
	class   Classification
}

// rules are tested in order; the first match wins.
var rules = []rule{
	{regexp.MustCompile(`(?i)\b(strength|lift|squat|deadlift|bench|press|row)\b`), Classification{KeyStrength, "S", "Strength"}},
	{regexp.MustCompile(`(?i)\b(run|running|jog|cardio|hiit|interval)\b`), Classification{KeyCardio, "R", "Cardio"}},
	{regexp.MustCompile(`(?i)\b(cycle|bike|cycling|biking|spin)\b`), Classification{KeyCycle, "B", "Cycling"}},
	{regexp.MustCompile(`(?i)\b(mobility|yoga|stretch|recovery|foam\s*roll)\b`), Classification{KeyMobility, "M", "Mobility"}},
	{regexp.MustCompile(`(?i)\b(walk|hike|walking|hiking)\b`), Classification{KeyWalk, "W", "Walk"}},
	{regexp.MustCompile(`(?i)\b(workout|training|exercise|gym)\b`), Classification{KeyWorkout, "W", "Workout"}},
}

// Fallback is returned for text that matches no category.
var Fallback = Classification{Key: KeyEvent, Badge: "*", Label: "Event"}

// Classify returns the first taxonomy category whose terms appear in text.
func Classify(text string) Classification {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.class
		}
	}
	return Fallback
}

// Taxonomy lists every category in precedence order, fallback last.
func Taxonomy() []Classification {
	out := make([]Classification, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.class)
	}
	return append(out, Fallback)
}
