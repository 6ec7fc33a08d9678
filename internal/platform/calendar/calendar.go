package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

// Date normaliza t a medianoche UTC conservando año/mes/día de su propia zona.
// Así las fechas de negocio se comparan y restan sin efectos de DST.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta YYYY-MM-DD como fecha de negocio.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Date(t), nil
}

// DaysBetween cuenta días calendario de from a to (to exclusivo).
func DaysBetween(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)).Hours() / 24)
}

var hhmm = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TimeOfDay es una hora local HH:MM en minutos desde medianoche.
type TimeOfDay int

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !hhmm.MatchString(s) {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return TimeOfDay(h*60 + m), nil
}

func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Window es un rango horario cerrado [Open, Close].
type Window struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// DefaultBusinessHours: 08:00 a 18:00, ambos inclusive.
var DefaultBusinessHours = Window{Open: 8 * 60, Close: 18 * 60}

func (w Window) Contains(t TimeOfDay) bool {
	return t >= w.Open && t <= w.Close
}
