package calculator

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artur-t-96/MINDY/internal/store"
)

// Calculator builds dashboard views over the store.
type Calculator struct {
	store *store.Store
	now   func() time.Time
}

// NewCalculator creates a calculator.
func NewCalculator(st *store.Store) *Calculator {
	return &Calculator{store: st, now: time.Now}
}

// HitRatio is round(placements / closed * 100), 0 when nothing was closed.
// Both ingestion and the views use this one formula.
func HitRatio(placements, closed int) int {
	if closed <= 0 {
		return 0
	}
	return roundPercent(float64(placements) / float64(closed) * 100)
}

// StoredHitRatio is the ratio persisted for a month: 0 without closed
// requests, else the ratio the source supplied, else HitRatio.
func StoredHitRatio(placements, closed int, supplied *float64) int {
	if closed <= 0 {
		return 0
	}
	if supplied != nil {
		return roundPercent(*supplied)
	}
	return HitRatio(placements, closed)
}

func roundPercent(v float64) int {
	return int(math.Round(v))
}

// Rate divides total by days, rounded to 2 places; 0 when days is 0.
func Rate(total, days float64) float64 {
	if days == 0 {
		return 0
	}
	return decimal.NewFromFloat(total).
		Div(decimal.NewFromFloat(days)).
		Round(2).
		InexactFloat64()
}

// Percent returns actual/target*100 rounded to 1 place; 0 for a zero target.
func Percent(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	return decimal.NewFromFloat(actual).
		Div(decimal.NewFromFloat(target)).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		InexactFloat64()
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
