package model

// RecordType tags a candidate record group.
type RecordType string

const (
	RecordRecruitment      RecordType = "recruitment"
	RecordSales            RecordType = "sales"
	RecordHitRatio         RecordType = "hit_ratio"
	RecordBoardMath        RecordType = "board_math"
	RecordBoardDescriptive RecordType = "board_descriptive"
	RecordPrepCalls        RecordType = "prep_calls"
)

// RecordTypes lists every record type in ingestion order.
var RecordTypes = []RecordType{
	RecordRecruitment,
	RecordSales,
	RecordHitRatio,
	RecordBoardMath,
	RecordBoardDescriptive,
	RecordPrepCalls,
}

// RecruitmentRecord is one person-week of recruitment activity.
type RecruitmentRecord struct {
	Year            int     `json:"year"`
	Week            int     `json:"week"`
	Name            string  `json:"name"`
	Role            string  `json:"role"`
	WorkingDays     float64 `json:"workingDays"`
	Verifications   int     `json:"verifications"`
	Recommendations int     `json:"recommendations"`
	CVsAdded        int     `json:"cvsAdded"`
	Placements      int     `json:"placements"`
}

// SalesRecord is one person-week of sales activity.
type SalesRecord struct {
	Year        int     `json:"year"`
	Week        int     `json:"week"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	WorkingDays float64 `json:"workingDays"`
	Leads       int     `json:"leads"`
	Offers      int     `json:"offers"`
	MRR         float64 `json:"mrr"`
	Placements  int     `json:"placements"`
}

// HitRatioRecord is one Delivery Lead month.
type HitRatioRecord struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	Name           string `json:"name"`
	ClosedRequests int    `json:"closedRequests"`
	Placements     int    `json:"placements"`
	// SuppliedRatio is the percentage the source carries, unrounded.
	SuppliedRatio *float64 `json:"suppliedRatio,omitempty"`
}

// BoardMathRecord is one measured board KPI. Week is nil for monthly KPIs.
type BoardMathRecord struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Week   *int    `json:"week"`
	Code   string  `json:"code"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
}

// BoardNoteRecord is one descriptive board KPI.
type BoardNoteRecord struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// PrepCallRecord is one Delivery Lead prep call. Date is YYYY-MM-DD.
type PrepCallRecord struct {
	Date      string          `json:"date"`
	Name      string          `json:"name"`
	Candidate string          `json:"candidate"`
	Checklist map[string]bool `json:"checklist"`
	Notes     string          `json:"notes"`
}

// Batch is the output of a spreadsheet extraction, grouped by record type.
type Batch struct {
	Recruitment []RecruitmentRecord `json:"recruitment"`
	Sales       []SalesRecord       `json:"sales"`
	HitRatio    []HitRatioRecord    `json:"hitRatio"`
	BoardMath   []BoardMathRecord   `json:"boardMath"`
	BoardNotes  []BoardNoteRecord   `json:"boardNotes"`
	PrepCalls   []PrepCallRecord    `json:"prepCalls"`

	Summary  string   `json:"summary"`
	Warnings []string `json:"warnings"`
}

// Len returns the number of candidate records in the batch.
func (b *Batch) Len() int {
	return len(b.Recruitment) + len(b.Sales) + len(b.HitRatio) +
		len(b.BoardMath) + len(b.BoardNotes) + len(b.PrepCalls)
}

// Merge appends other into b.
func (b *Batch) Merge(other *Batch) {
	if other == nil {
		return
	}
	b.Recruitment = append(b.Recruitment, other.Recruitment...)
	b.Sales = append(b.Sales, other.Sales...)
	b.HitRatio = append(b.HitRatio, other.HitRatio...)
	b.BoardMath = append(b.BoardMath, other.BoardMath...)
	b.BoardNotes = append(b.BoardNotes, other.BoardNotes...)
	b.PrepCalls = append(b.PrepCalls, other.PrepCalls...)
	b.Warnings = append(b.Warnings, other.Warnings...)
}
