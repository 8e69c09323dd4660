package tz

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day without a zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Wall is a wall-clock minute without a zone. Hour 24 denotes the end of the day.
type Wall struct {
	Date
	Hour   int
	Minute int
}

// NewDate нормализует дату (32 января -> 1 февраля)
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateIn returns the calendar day of instant in loc.
func DateIn(instant time.Time, loc *time.Location) Date {
	y, m, d := instant.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Weekday считается в полдень UTC, чтобы не зависеть от зоны
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

func (d Date) Before(other Date) bool {
	return d.noon().Before(other.noon())
}

// At returns the wall time minuteOfDay minutes after local midnight of d.
func (d Date) At(minuteOfDay int) Wall {
	return Wall{Date: d, Hour: minuteOfDay / 60, Minute: minuteOfDay % 60}
}

func (d Date) noon() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// WallOf takes the wall fields of t as they read in t's own location.
func WallOf(t time.Time) Wall {
	y, m, d := t.Date()
	return Wall{Date: Date{Year: y, Month: m, Day: d}, Hour: t.Hour(), Minute: t.Minute()}
}

func (w Wall) String() string {
	return fmt.Sprintf("%s %02d:%02d", w.Date, w.Hour, w.Minute)
}

// Equal сравнивает нормализованные значения ("24:00" равно 00:00 следующего дня)
func (w Wall) Equal(other Wall) bool {
	return w.naive().Equal(other.naive())
}

// naive кодирует поля как UTC-момент; используется только для арифметики смещений
func (w Wall) naive() time.Time {
	return time.Date(w.Year, w.Month, w.Day, w.Hour, w.Minute, 0, 0, time.UTC)
}

func (w Wall) matches(instant time.Time, loc *time.Location) bool {
	return WallOf(instant.In(loc)).naive().Equal(w.naive())
}
