// Package tz converts between wall-clock times in IANA zones and absolute instants.
//
// Policy for anomalies, applied everywhere the package is used:
//   - ambiguous wall time (fall-back overlap) resolves to the earlier instant;
//   - nonexistent wall time (spring-forward gap) resolves to the first valid
//     instant after the gap.
package tz

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	// Встроенная база IANA, чтобы не зависеть от /usr/share/zoneinfo в контейнере
	_ "time/tzdata"
)

var (
	// ErrInvalidTimezone возвращается для имени зоны, которого нет в базе IANA
	ErrInvalidTimezone = errors.New("tz: invalid timezone")

	// ErrAmbiguousLocalTime возвращается строгой конвертацией для времени из повторяющегося часа
	ErrAmbiguousLocalTime = errors.New("tz: ambiguous local time")

	// ErrNonexistentLocalTime возвращается строгой конвертацией для времени из пропущенного часа
	ErrNonexistentLocalTime = errors.New("tz: nonexistent local time")
)

// Resolution describes how a wall time maps onto the instant line.
type Resolution int

const (
	Exact Resolution = iota
	Ambiguous
	Nonexistent
)

func (r Resolution) String() string {
	switch r {
	case Ambiguous:
		return "ambiguous"
	case Nonexistent:
		return "nonexistent"
	default:
		return "exact"
	}
}

// Кэш зон на время жизни процесса: база IANA статична в рамках деплоя
var locations sync.Map

// Load returns the location for an IANA zone name.
func Load(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}

	if cached, ok := locations.Load(name); ok {
		return cached.(*time.Location), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}

	actual, _ := locations.LoadOrStore(name, loc)
	return actual.(*time.Location), nil
}

// ValidTZ reports whether name is a resolvable IANA zone.
func ValidTZ(name string) bool {
	_, err := Load(name)
	return err == nil
}

// Resolve maps a wall time in loc to an instant and reports which policy was applied.
func Resolve(w Wall, loc *time.Location) (time.Time, Resolution) {
	naive := w.naive()

	// Смещения до и после возможного перехода. Реальные зоны не делают
	// двух переходов в пределах суток, поэтому двух проб достаточно.
	offBefore := offsetAt(naive.Add(-24*time.Hour), loc)
	offAfter := offsetAt(naive.Add(24*time.Hour), loc)

	first := naive.Add(-time.Duration(offBefore) * time.Second)
	second := naive.Add(-time.Duration(offAfter) * time.Second)

	firstOK := w.matches(first, loc)
	secondOK := w.matches(second, loc)

	if offBefore == offAfter {
		return first.In(loc), Exact
	}

	switch {
	case firstOK && secondOK:
		if second.Before(first) {
			first = second
		}
		return first.In(loc), Ambiguous
	case firstOK:
		return first.In(loc), Exact
	case secondOK:
		return second.In(loc), Exact
	}

	// Ни одно смещение не дает такого времени: попали в разрыв.
	// Ищем момент перехода между двумя пробами.
	return transitionBetween(naive.Add(-24*time.Hour), naive.Add(24*time.Hour), offAfter, loc).In(loc), Nonexistent
}

// ToInstant maps a wall time to an instant, applying the package policy to anomalies.
func ToInstant(w Wall, loc *time.Location) time.Time {
	t, _ := Resolve(w, loc)
	return t
}

// ToInstantStrict maps a wall time to an instant and fails on DST anomalies.
func ToInstantStrict(w Wall, loc *time.Location) (time.Time, error) {
	t, res := Resolve(w, loc)
	switch res {
	case Ambiguous:
		return t, fmt.Errorf("%w: %s in %s", ErrAmbiguousLocalTime, w, loc)
	case Nonexistent:
		return t, fmt.Errorf("%w: %s in %s", ErrNonexistentLocalTime, w, loc)
	}
	return t, nil
}

// ToWall renders an instant as wall time in loc.
func ToWall(instant time.Time, loc *time.Location) Wall {
	return WallOf(instant.In(loc))
}

// OffsetHours returns how many hours b is ahead of a at ref. Display only.
func OffsetHours(a, b *time.Location, ref time.Time) float64 {
	return float64(offsetAt(ref, b)-offsetAt(ref, a)) / 3600
}

// DayBounds returns the instants of local midnight starting d and the next day in loc.
func DayBounds(d Date, loc *time.Location) (time.Time, time.Time) {
	return ToInstant(d.At(0), loc), ToInstant(d.AddDays(1).At(0), loc)
}

func offsetAt(instant time.Time, loc *time.Location) int {
	_, offset := instant.In(loc).Zone()
	return offset
}

// transitionBetween находит первый момент в (lo, hi], где смещение равно target
func transitionBetween(lo, hi time.Time, target int, loc *time.Location) time.Time {
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2).Truncate(time.Second)
		if offsetAt(mid, loc) == target {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}
