package period

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Unit is the granularity of a period bucket.
type Unit string

const (
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// weeksPerMonth is the divisor used when weekly data is joined against
// monthly data. It is not calendar accurate: week 52 lands in "month" 13.
const weeksPerMonth = 4.33

// Week is a (year, week) bucket.
type Week struct {
	Year int `json:"year" db:"year"`
	Week int `json:"week" db:"week"`
}

// Key identifies one touched period of either unit.
type Key struct {
	Year  int  `json:"year"`
	Unit  Unit `json:"unit"`
	Value int  `json:"value"`
}

// Label renders the key as W10/2024 or M3/2024.
func (k Key) Label() string {
	if k.Unit == UnitMonth {
		return fmt.Sprintf("M%d/%d", k.Value, k.Year)
	}
	return fmt.Sprintf("W%d/%d", k.Value, k.Year)
}

// WeekKey returns the key of a weekly period.
func WeekKey(year, week int) Key {
	return Key{Year: year, Unit: UnitWeek, Value: week}
}

// MonthKey returns the key of a monthly period.
func MonthKey(year, month int) Key {
	return Key{Year: year, Unit: UnitMonth, Value: month}
}

// ISOWeek returns the ISO-8601 year and week of t. The date is shifted to
// the Thursday of its week and weeks are counted from January 1st of that
// Thursday's year.
func ISOWeek(t time.Time) (year, week int) {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	thursday := d.AddDate(0, 0, 4-wd)
	yearStart := time.Date(thursday.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	days := int(thursday.Sub(yearStart).Hours() / 24)
	return thursday.Year(), days/7 + 1
}

// Current returns the default period used when the caller omits one.
func Current(now time.Time) Week {
	y, w := ISOWeek(now)
	return Week{Year: y, Week: w}
}

// MonthForWeek maps a week number onto the month bucket used by monthly
// facts: ceil(week / 4.33).
func MonthForWeek(week int) int {
	return int(math.Ceil(float64(week) / weeksPerMonth))
}

// Set collects distinct period keys.
type Set struct {
	keys map[Key]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{keys: make(map[Key]struct{})}
}

// Add records k.
func (s *Set) Add(k Key) {
	s.keys[k] = struct{}{}
}

// Len returns the number of distinct keys.
func (s *Set) Len() int {
	return len(s.keys)
}

// Sorted returns the keys ordered by year, unit, value.
func (s *Set) Sorted() []Key {
	out := make([]Key, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Unit != out[j].Unit {
			return out[i].Unit > out[j].Unit
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Labels returns the sorted labels of the set.
func (s *Set) Labels() []string {
	keys := s.Sorted()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Label()
	}
	return out
}
