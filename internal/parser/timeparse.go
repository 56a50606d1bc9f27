package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timeToken matches clock-like tokens in a line: "6:30", "6:30pm", "6:30 pm", "9am", "9 AM".
var timeToken = regexp.MustCompile(`(?i)(\b\d{1,2}:\d{2}\s?(?:am|pm)?\b|\b\d{1,2}\s?(?:am|pm)\b)`)

var (
	bareHourMeridiem = regexp.MustCompile(`^\d{1,2}(am|pm)$`)
	bareClock        = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	fullClock        = regexp.MustCompile(`^(\d{1,2}):(\d{2})(am|pm)$`)
	whitespace       = regexp.MustCompile(`\s+`)
)

// TimeMatch is an explicit time found in a log line.
type TimeMatch struct {
	Token  string // text as it appeared in the line
	Start  int    // byte offset of Token in the line
	End    int
	Hour   int // 0-23
	Minute int
}

// StartTime renders the match as zero-padded 24-hour HH:MM.
func (m TimeMatch) StartTime() string {
	return formatClock(m.Hour, m.Minute)
}

// ExtractTime returns the first time token in line that normalizes to a valid
// clock time. Out-of-range tokens such as "25:00" are skipped.
// ok is false when the line carries no usable time.
func ExtractTime(line string) (match TimeMatch, ok bool) {
	for _, loc := range timeToken.FindAllStringIndex(line, -1) {
		token := line[loc[0]:loc[1]]
		hour, minute, valid := NormalizeTime(token)
		if !valid {
			continue
		}
		return TimeMatch{Token: token, Start: loc[0], End: loc[1], Hour: hour, Minute: minute}, true
	}
	return TimeMatch{}, false
}

// NormalizeTime converts a matched token to a 24-hour hour and minute.
// Tokens without a meridiem are read as am. Values outside 00:00-23:59 are rejected.
func NormalizeTime(token string) (hour, minute int, ok bool) {
	raw := whitespace.ReplaceAllString(strings.ToLower(token), "")
	if bareHourMeridiem.MatchString(raw) {
		raw = raw[:len(raw)-2] + ":00" + raw[len(raw)-2:]
	}
	if bareClock.MatchString(raw) {
		raw += "am"
	}

	m := fullClock.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	switch {
	case m[3] == "pm" && hour < 12:
		hour += 12
	case m[3] == "am" && hour == 12:
		hour = 0
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
