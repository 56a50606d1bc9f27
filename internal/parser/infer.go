package parser

const (
	firstDefaultHour = 9
	lastDefaultHour  = 22
)

// clock is the running default-hour state of a single parse pass.
// It is a value: each step returns the next clock instead of mutating shared state.
type clock struct {
	hour int
}

func newClock() clock {
	return clock{hour: firstDefaultHour}
}

// infer hands out HH:00 for an untimed line and advances by one hour, never past 22.
func (c clock) infer() (string, clock) {
	start := formatClock(c.hour, 0)
	next := c.hour + 1
	if next > lastDefaultHour {
		next = lastDefaultHour
	}
	return start, clock{hour: next}
}

// observe re-anchors the clock on an explicit time without advancing it.
func (c clock) observe(m TimeMatch) clock {
	return clock{hour: m.Hour}
}
