package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeParsed(t *testing.T) {
	got := DecodeParsed([]byte(`{"summary":"Parsed 1 item(s) from today's log.","events":[{"title":"Run 5k","date":"2024-03-10","startTime":"06:30","sourceText":"6:30am Run 5k"}]}`))
	assert.Equal(t, "Parsed 1 item(s) from today's log.", got.Summary)
	assert.Len(t, got.Events, 1)
	assert.Equal(t, "06:30", got.Events[0].StartTime)
}

func TestDecodeParsed_Corrupt(t *testing.T) {
	for _, payload := range []string{`{"summary":`, ``, `[1,2]`} {
		got := DecodeParsed([]byte(payload))
		assert.Equal(t, CorruptSummary, got.Summary, payload)
		assert.NotNil(t, got.Events)
		assert.Empty(t, got.Events)
	}
}

func TestDecodeParsed_MissingEvents(t *testing.T) {
	got := DecodeParsed([]byte(`{"summary":"x"}`))
	assert.Equal(t, "x", got.Summary)
	assert.NotNil(t, got.Events)
}
