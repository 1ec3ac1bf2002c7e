package domain

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day without a time component, serialized as "2006-01-02".
// Birth dates use it so JSON payloads stay compatible with the web client.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// AgeAt returns full years elapsed between the date and now, the way a person
// states their age: the year difference minus one until the birthday has passed.
func (d Date) AgeAt(now time.Time) int {
	years := now.Year() - d.Year()
	anniversary := time.Date(d.Year()+years, d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	if now.Before(anniversary) {
		years--
	}
	return years
}
