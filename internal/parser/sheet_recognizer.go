package parser

import (
	"github.com/artur-t-96/MINDY/internal/model"
)

// sheetRule recognizes a sheet by keywords in its normalized name. All of
// every group must match; any group may match.
type sheetRule struct {
	kind   model.RecordType
	groups [][]string
}

// sheetRules is evaluated in order; the first match wins.
var sheetRules = []sheetRule{
	{kind: model.RecordPrepCalls, groups: [][]string{{"prep"}}},
	{kind: model.RecordBoardMath, groups: [][]string{{"kpi", "mat"}}},
	{kind: model.RecordBoardDescriptive, groups: [][]string{{"kpi", "opis"}, {"kpi", "desc"}}},
	{kind: model.RecordHitRatio, groups: [][]string{{"hit"}, {"ratio"}}},
	{kind: model.RecordRecruitment, groups: [][]string{{"rekrut"}, {"recruit"}, {"body"}}},
	{kind: model.RecordSales, groups: [][]string{{"sprzeda"}, {"sales"}}},
}

// SheetRecognizer maps sheet names onto record types.
type SheetRecognizer struct{}

// NewSheetRecognizer creates a recognizer.
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{}
}

// Recognize returns the record type a sheet name announces, or "" when the
// name carries no keyword.
func (r *SheetRecognizer) Recognize(sheetName string) model.RecordType {
	name := NormalizeHeader(sheetName)
	for _, rule := range sheetRules {
		for _, group := range rule.groups {
			if containsAll(name, group) {
				return rule.kind
			}
		}
	}
	return ""
}

// Pick returns the sheet of wb holding kind. With fallback set, a workbook
// without a matching name yields its first sheet not claimed by another
// kind.
func (r *SheetRecognizer) Pick(wb *Workbook, kind model.RecordType, fallback bool) *Sheet {
	for i := range wb.Sheets {
		if r.Recognize(wb.Sheets[i].Name) == kind {
			return &wb.Sheets[i]
		}
	}
	if !fallback {
		return nil
	}
	for i := range wb.Sheets {
		if r.Recognize(wb.Sheets[i].Name) == "" {
			return &wb.Sheets[i]
		}
	}
	return nil
}

func containsAll(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !ContainsAny(text, kw) {
			return false
		}
	}
	return true
}
