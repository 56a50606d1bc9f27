package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Key
	}{
		{"6:30pm squat session", KeyStrength},
		{"Bench PRESS 3x5", KeyStrength},
		{"Run 5k", KeyCardio},
		{"HIIT intervals", KeyCardio},
		{"spin class", KeyCycle},
		{"morning yoga", KeyMobility},
		{"foam roll legs", KeyMobility},
		{"foamroll legs", KeyMobility},
		{"hike with dog", KeyWalk},
		{"gym", KeyWorkout},
		{"9am standup", KeyEvent},
		{"", KeyEvent},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text).Key)
		})
	}
}

func TestClassify_Precedence(t *testing.T) {
	assert.Equal(t, KeyStrength, Classify("run then deadlift").Key)
	assert.Equal(t, KeyCardio, Classify("yoga after a run").Key)
	assert.Equal(t, KeyMobility, Classify("recovery walk").Key)
}

func TestClassify_WordBoundaries(t *testing.T) {
	// "running" is a term, "rowing" and "spinach" are not.
	assert.Equal(t, KeyCardio, Classify("running late").Key)
	assert.Equal(t, KeyEvent, Classify("rowing club meeting").Key)
	assert.Equal(t, KeyEvent, Classify("spinach salad").Key)
}

func TestTaxonomy(t *testing.T) {
	tax := Taxonomy()
	assert.Len(t, tax, 7)
	assert.Equal(t, KeyStrength, tax[0].Key)
	assert.Equal(t, Fallback, tax[len(tax)-1])
	for _, c := range tax {
		assert.Len(t, c.Badge, 1, c.Key)
	}
}
