package roundtime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var ErrUnrecognizedTime = errors.New("could not recognize time")

var compactClock = regexp.MustCompile(`\b(\d{1,2})(\d{2})\s?(am|pm)\b`)

// Parser turns administrator input into round boundaries. It accepts RFC 3339
// timestamps or phrases such as "next monday 7am".
type Parser struct {
	timezones map[string]string
	when      *when.Parser
}

func NewParser() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &Parser{
		timezones: map[string]string{
			"UTC": "UTC",
			"GMT": "Europe/London",
			"CET": "Europe/Paris",
			"PST": "America/Los_Angeles",
			"PDT": "America/Los_Angeles",
			"MST": "America/Denver",
			"MDT": "America/Denver",
			"CST": "America/Chicago",
			"CDT": "America/Chicago",
			"EST": "America/New_York",
			"EDT": "America/New_York",
		},
		when: w,
	}
}

// Location resolves an abbreviation or IANA name. Empty input means UTC.
func (p *Parser) Location(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return time.UTC, nil
	}
	if name, ok := p.timezones[strings.ToUpper(tz)]; ok {
		tz = name
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Parse resolves input relative to now in loc and returns it in UTC, truncated to the minute.
func (p *Parser) Parse(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrUnrecognizedTime
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}

	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = compactClock.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := p.when.Parse(normalized, now.In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrUnrecognizedTime, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrUnrecognizedTime, input)
	}
	return r.Time.In(loc).Truncate(time.Minute).UTC(), nil
}
