package parser

import "strings"

// Field is a logical column looked up through header aliases.
type Field string

const (
	FieldYear            Field = "year"
	FieldWeek            Field = "week"
	FieldMonth           Field = "month"
	FieldName            Field = "name"
	FieldRole            Field = "role"
	FieldWorkingDays     Field = "working_days"
	FieldVerifications   Field = "verifications"
	FieldRecommendations Field = "recommendations"
	FieldCVsAdded        Field = "cvs_added"
	FieldPlacements      Field = "placements"
	FieldLeads           Field = "leads"
	FieldOffers          Field = "offers"
	FieldMRR             Field = "mrr"
	FieldDeliveryLead    Field = "delivery_lead"
	FieldClosedRequests  Field = "closed_requests"
	FieldHitRatio        Field = "hit_ratio"
	FieldCode            Field = "code"
	FieldValue           Field = "value"
	FieldTarget          Field = "target"
	FieldDescription     Field = "description"
	FieldStatus          Field = "status"
	FieldDate            Field = "date"
	FieldCandidate       Field = "candidate"
	FieldNotes           Field = "notes"
)

// fieldAliases lists accepted headers per field in lookup order, already
// normalized (lowercase, no diacritics).
var fieldAliases = map[Field][]string{
	FieldYear:            {"rok", "year"},
	FieldWeek:            {"tydzien", "week", "t"},
	FieldMonth:           {"miesiac", "month"},
	FieldName:            {"imie", "name", "pracownik", "imie i nazwisko"},
	FieldRole:            {"stanowisko", "rola", "role"},
	FieldWorkingDays:     {"dni pracy", "dni", "working days"},
	FieldVerifications:   {"weryfikacje", "weryf", "verifications"},
	FieldRecommendations: {"rekomendacje", "reco", "recommendations"},
	FieldCVsAdded:        {"cv do bazy", "cv", "cvs added", "cv dodane"},
	FieldPlacements:      {"placements", "placementy"},
	FieldLeads:           {"leady", "leads"},
	FieldOffers:          {"oferty", "wyslane oferty", "offers"},
	FieldMRR:             {"mrr", "revenue"},
	FieldDeliveryLead:    {"delivery lead", "dl", "imie", "name"},
	FieldClosedRequests:  {"zamkniete requesty", "closed", "closed requests"},
	FieldHitRatio:        {"hit ratio", "hit ratio %", "hr"},
	FieldCode:            {"kpi", "code", "kod"},
	FieldValue:           {"wartosc", "value"},
	FieldTarget:          {"target", "cel"},
	FieldDescription:     {"opis", "description"},
	FieldStatus:          {"status"},
	FieldDate:            {"data", "date"},
	FieldCandidate:       {"kandydat", "candidate"},
	FieldNotes:           {"notatki", "notes", "uwagi"},
}

// FieldMapper resolves fields against one sheet's header row.
type FieldMapper struct {
	index   map[string]int
	headers []string
}

// NewFieldMapper indexes a header row. The first occurrence of a header wins.
func NewFieldMapper(header []string) *FieldMapper {
	m := &FieldMapper{index: make(map[string]int, len(header))}
	for i, h := range header {
		n := NormalizeHeader(h)
		m.headers = append(m.headers, n)
		if n == "" {
			continue
		}
		if _, ok := m.index[n]; !ok {
			m.index[n] = i
		}
	}
	return m
}

// Has reports whether any alias of f is present in the header.
func (m *FieldMapper) Has(f Field) bool {
	for _, alias := range fieldAliases[f] {
		if _, ok := m.index[alias]; ok {
			return true
		}
	}
	return false
}

// Value returns the first present, non-empty cell among f's aliases.
func (m *FieldMapper) Value(row []string, f Field) (string, bool) {
	for _, alias := range fieldAliases[f] {
		idx, ok := m.index[alias]
		if !ok || idx >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[idx]); v != "" {
			return v, true
		}
	}
	return "", false
}

// String returns the value of f or "".
func (m *FieldMapper) String(row []string, f Field) string {
	v, _ := m.Value(row, f)
	return v
}

// Int returns the value of f or def when absent.
func (m *FieldMapper) Int(row []string, f Field, def int) int {
	if v, ok := m.Value(row, f); ok {
		return ToInt(v)
	}
	return def
}

// Float returns the value of f or def when absent.
func (m *FieldMapper) Float(row []string, f Field, def float64) float64 {
	if v, ok := m.Value(row, f); ok {
		return ToFloat(v)
	}
	return def
}

// Unmapped returns the header columns claimed by none of fields.
func (m *FieldMapper) Unmapped(fields ...Field) map[int]string {
	claimed := make(map[string]bool)
	for _, f := range fields {
		for _, alias := range fieldAliases[f] {
			claimed[alias] = true
		}
	}
	out := make(map[int]string)
	for i, h := range m.headers {
		if h != "" && !claimed[h] {
			out[i] = h
		}
	}
	return out
}
