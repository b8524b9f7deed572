package model

import "time"

// Person is a (name, canonical role) identity.
type Person struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Role       string    `json:"role" db:"role"`
	Department string    `json:"department" db:"department"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// RecruitmentRow is a stored recruitment fact joined with its person.
type RecruitmentRow struct {
	Name            string  `json:"name" db:"name"`
	Role            string  `json:"role" db:"role"`
	WorkingDays     float64 `json:"workingDays" db:"working_days"`
	Verifications   int     `json:"verifications" db:"verifications"`
	Recommendations int     `json:"recommendations" db:"recommendations"`
	CVsAdded        int     `json:"cvsAdded" db:"cvs_added"`
	Placements      int     `json:"placements" db:"placements"`
}

// SalesRow is a stored sales fact joined with its person.
type SalesRow struct {
	Name        string  `json:"name" db:"name"`
	Role        string  `json:"role" db:"role"`
	WorkingDays float64 `json:"workingDays" db:"working_days"`
	Leads       int     `json:"leads" db:"leads"`
	Offers      int     `json:"offers" db:"offers"`
	MRR         float64 `json:"mrr" db:"mrr"`
	Placements  int     `json:"placements" db:"placements"`
}

// HitRatioRow is a stored hit-ratio fact joined with its person.
type HitRatioRow struct {
	Name           string `json:"name" db:"name"`
	Year           int    `json:"year" db:"year"`
	Month          int    `json:"month" db:"month"`
	ClosedRequests int    `json:"closedRequests" db:"closed_requests"`
	Placements     int    `json:"placements" db:"placements"`
	HitRatio       int    `json:"hitRatio" db:"hit_ratio"`
}

// BoardMeasurement is a measured board KPI. Week 0 marks a monthly KPI.
type BoardMeasurement struct {
	Year   int     `json:"year" db:"year"`
	Month  int     `json:"month" db:"month"`
	Week   int     `json:"week" db:"week"`
	Code   string  `json:"code" db:"kpi_code"`
	Value  float64 `json:"value" db:"value"`
	Target float64 `json:"target" db:"target"`
}

// BoardNote is a descriptive board KPI with a traffic-light status.
type BoardNote struct {
	Year        int    `json:"year" db:"year"`
	Month       int    `json:"month" db:"month"`
	Code        string `json:"code" db:"kpi_code"`
	Description string `json:"description" db:"description"`
	Status      string `json:"status" db:"status"`
}

// PrepCall is a stored prep call joined with its Delivery Lead.
type PrepCall struct {
	Name      string          `json:"name" db:"name"`
	Date      string          `json:"date" db:"call_date"`
	Candidate string          `json:"candidate" db:"candidate"`
	Checklist map[string]bool `json:"checklist" db:"-"`
	RawList   string          `json:"-" db:"checklist_json"`
	Notes     string          `json:"notes" db:"notes"`
}

// Target is one per-person target row. Role "all" applies to everyone.
type Target struct {
	ID         int64   `json:"id" db:"id"`
	Role       string  `json:"role" db:"role"`
	KPI        string  `json:"kpi" db:"kpi"`
	Value      float64 `json:"value" db:"value"`
	PeriodUnit string  `json:"periodUnit" db:"period_unit"`
}

// Narrative is generated commentary stored for a department and period.
type Narrative struct {
	ID          int64     `json:"id" db:"id"`
	Department  string    `json:"department" db:"department"`
	Year        int       `json:"year" db:"year"`
	PeriodUnit  string    `json:"periodUnit" db:"period_unit"`
	PeriodValue int       `json:"periodValue" db:"period_value"`
	Content     string    `json:"content" db:"content"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// RecruitmentTotal is one person's recruitment sums over every stored week.
type RecruitmentTotal struct {
	Name            string  `db:"name"`
	Role            string  `db:"role"`
	Weeks           int     `db:"weeks"`
	WorkingDays     float64 `db:"working_days"`
	Verifications   int     `db:"verifications"`
	Recommendations int     `db:"recommendations"`
	CVsAdded        int     `db:"cvs_added"`
	Placements      int     `db:"placements"`
}

// SalesTotal is one person's sales sums over every stored week.
type SalesTotal struct {
	Name        string  `db:"name"`
	Role        string  `db:"role"`
	Weeks       int     `db:"weeks"`
	WorkingDays float64 `db:"working_days"`
	Leads       int     `db:"leads"`
	Offers      int     `db:"offers"`
	MRR         float64 `db:"mrr"`
	Placements  int     `db:"placements"`
}
