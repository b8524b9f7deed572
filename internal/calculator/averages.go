package calculator

import (
	"sort"

	"github.com/artur-t-96/MINDY/internal/model"
)

// RecruitmentAverage is one person's all-time recruitment rollup.
type RecruitmentAverage struct {
	Name                  string  `json:"name"`
	Role                  string  `json:"role"`
	Weeks                 int     `json:"weeks"`
	WorkingDays           float64 `json:"workingDays"`
	TotalPlacements       int     `json:"totalPlacements"`
	VerificationsPerDay   float64 `json:"verificationsPerDay"`
	RecommendationsPerDay float64 `json:"recommendationsPerDay"`
	CVsPerDay             float64 `json:"cvsPerDay"`
}

// SalesAverage is one person's all-time sales rollup.
type SalesAverage struct {
	Name            string  `json:"name"`
	Role            string  `json:"role"`
	Weeks           int     `json:"weeks"`
	WorkingDays     float64 `json:"workingDays"`
	TotalPlacements int     `json:"totalPlacements"`
	LeadsPerDay     float64 `json:"leadsPerDay"`
	OffersPerDay    float64 `json:"offersPerDay"`
	MRRPerWeek      float64 `json:"mrrPerWeek"`
}

// RecruitmentAverages derives per-day rates and orders people by total
// placements, then recommendation rate, then CV plus verification rate.
func RecruitmentAverages(totals []model.RecruitmentTotal) []RecruitmentAverage {
	out := make([]RecruitmentAverage, 0, len(totals))
	for _, t := range totals {
		out = append(out, RecruitmentAverage{
			Name:                  t.Name,
			Role:                  t.Role,
			Weeks:                 t.Weeks,
			WorkingDays:           t.WorkingDays,
			TotalPlacements:       t.Placements,
			VerificationsPerDay:   Rate(float64(t.Verifications), t.WorkingDays),
			RecommendationsPerDay: Rate(float64(t.Recommendations), t.WorkingDays),
			CVsPerDay:             Rate(float64(t.CVsAdded), t.WorkingDays),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TotalPlacements != b.TotalPlacements {
			return a.TotalPlacements > b.TotalPlacements
		}
		if a.RecommendationsPerDay != b.RecommendationsPerDay {
			return a.RecommendationsPerDay > b.RecommendationsPerDay
		}
		if ac, bc := a.CVsPerDay+a.VerificationsPerDay, b.CVsPerDay+b.VerificationsPerDay; ac != bc {
			return ac > bc
		}
		return a.Name < b.Name
	})
	return out
}

// SalesAverages derives per-day rates and MRR per week, ordered by MRR per
// week, then offer rate, then lead rate.
func SalesAverages(totals []model.SalesTotal) []SalesAverage {
	out := make([]SalesAverage, 0, len(totals))
	for _, t := range totals {
		mrr := 0.0
		if t.Weeks > 0 {
			mrr = round(t.MRR/float64(t.Weeks), 0)
		}
		out = append(out, SalesAverage{
			Name:            t.Name,
			Role:            t.Role,
			Weeks:           t.Weeks,
			WorkingDays:     t.WorkingDays,
			TotalPlacements: t.Placements,
			LeadsPerDay:     Rate(float64(t.Leads), t.WorkingDays),
			OffersPerDay:    Rate(float64(t.Offers), t.WorkingDays),
			MRRPerWeek:      mrr,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.MRRPerWeek != b.MRRPerWeek {
			return a.MRRPerWeek > b.MRRPerWeek
		}
		if a.OffersPerDay != b.OffersPerDay {
			return a.OffersPerDay > b.OffersPerDay
		}
		if a.LeadsPerDay != b.LeadsPerDay {
			return a.LeadsPerDay > b.LeadsPerDay
		}
		return a.Name < b.Name
	})
	return out
}
