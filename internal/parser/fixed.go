package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/artur-t-96/MINDY/internal/model"
)

// defaultWorkingDays applies when a row carries no working-days cell.
const defaultWorkingDays = 5

// FixedStrategy reads sheets with known header names.
type FixedStrategy struct {
	recognizer *SheetRecognizer
	now        func() time.Time
}

// NewFixedStrategy creates the header-matching strategy.
func NewFixedStrategy() *FixedStrategy {
	return &FixedStrategy{recognizer: NewSheetRecognizer(), now: time.Now}
}

// Name implements Strategy.
func (s *FixedStrategy) Name() string { return "fixed" }

// Extract implements Strategy.
func (s *FixedStrategy) Extract(ctx context.Context, sources []Source, panel Panel) (*model.Batch, error) {
	workbooks, err := ReadWorkbooks(ctx, sources)
	if err != nil {
		return nil, err
	}

	batch := &model.Batch{}
	sheets := 0
	for _, wb := range workbooks {
		for _, kind := range panel.Kinds() {
			fallback := (panel == PanelRecruitment && kind == model.RecordRecruitment) ||
				(panel == PanelSales && kind == model.RecordSales)
			sheet := s.recognizer.Pick(wb, kind, fallback)
			if sheet == nil {
				continue
			}
			sheets++
			skipped, missing := s.extractSheet(batch, sheet, kind)
			if len(missing) > 0 {
				batch.Warnings = append(batch.Warnings,
					fmt.Sprintf("%s / %s: no column for %s", wb.Name, sheet.Name, strings.Join(missing, ", ")))
			}
			if skipped > 0 {
				batch.Warnings = append(batch.Warnings,
					fmt.Sprintf("%s / %s: skipped %d rows without required fields", wb.Name, sheet.Name, skipped))
			}
		}
	}
	batch.Summary = fmt.Sprintf("Read %d sheets from %d files: %d records", sheets, len(workbooks), batch.Len())
	return batch, nil
}

// identityFields are the columns a row of each kind cannot do without.
var identityFields = map[model.RecordType][]Field{
	model.RecordRecruitment:      {FieldName, FieldWeek},
	model.RecordSales:            {FieldName, FieldWeek},
	model.RecordHitRatio:         {FieldDeliveryLead, FieldMonth},
	model.RecordBoardMath:        {FieldCode},
	model.RecordBoardDescriptive: {FieldCode},
	model.RecordPrepCalls:        {FieldDeliveryLead, FieldDate},
}

// extractSheet appends the sheet's records to batch. It returns the number
// of rows dropped for missing identity fields and the identity columns the
// header lacks altogether.
func (s *FixedStrategy) extractSheet(batch *model.Batch, sheet *Sheet, kind model.RecordType) (int, []string) {
	header, body := splitHeader(sheet.Rows)
	if header == nil {
		return 0, nil
	}
	m := NewFieldMapper(header)
	var missing []string
	for _, f := range identityFields[kind] {
		if !m.Has(f) {
			missing = append(missing, string(f))
		}
	}
	now := s.now()

	skipped := 0
	for _, row := range body {
		if blankRow(row) {
			continue
		}
		ok := true
		switch kind {
		case model.RecordRecruitment:
			ok = s.recruitmentRow(batch, m, row, now)
		case model.RecordSales:
			ok = s.salesRow(batch, m, row, now)
		case model.RecordHitRatio:
			ok = s.hitRatioRow(batch, m, row, now)
		case model.RecordBoardMath:
			ok = s.boardMathRow(batch, m, row, now)
		case model.RecordBoardDescriptive:
			ok = s.boardNoteRow(batch, m, row, now)
		case model.RecordPrepCalls:
			ok = s.prepCallRow(batch, m, row)
		}
		if !ok {
			skipped++
		}
	}
	return skipped, missing
}

func (s *FixedStrategy) recruitmentRow(batch *model.Batch, m *FieldMapper, row []string, now time.Time) bool {
	name := m.String(row, FieldName)
	week := m.Int(row, FieldWeek, 0)
	if name == "" || week <= 0 {
		return false
	}
	batch.Recruitment = append(batch.Recruitment, model.RecruitmentRecord{
		Year:            m.Int(row, FieldYear, now.Year()),
		Week:            week,
		Name:            name,
		Role:            m.String(row, FieldRole),
		WorkingDays:     m.Float(row, FieldWorkingDays, defaultWorkingDays),
		Verifications:   m.Int(row, FieldVerifications, 0),
		Recommendations: m.Int(row, FieldRecommendations, 0),
		CVsAdded:        m.Int(row, FieldCVsAdded, 0),
		Placements:      m.Int(row, FieldPlacements, 0),
	})
	return true
}

func (s *FixedStrategy) salesRow(batch *model.Batch, m *FieldMapper, row []string, now time.Time) bool {
	name := m.String(row, FieldName)
	week := m.Int(row, FieldWeek, 0)
	if name == "" || week <= 0 {
		return false
	}
	batch.Sales = append(batch.Sales, model.SalesRecord{
		Year:        m.Int(row, FieldYear, now.Year()),
		Week:        week,
		Name:        name,
		Role:        m.String(row, FieldRole),
		WorkingDays: m.Float(row, FieldWorkingDays, defaultWorkingDays),
		Leads:       m.Int(row, FieldLeads, 0),
		Offers:      m.Int(row, FieldOffers, 0),
		MRR:         m.Float(row, FieldMRR, 0),
		Placements:  m.Int(row, FieldPlacements, 0),
	})
	return true
}

func (s *FixedStrategy) hitRatioRow(batch *model.Batch, m *FieldMapper, row []string, now time.Time) bool {
	name := m.String(row, FieldDeliveryLead)
	month := m.Int(row, FieldMonth, 0)
	if name == "" || month <= 0 {
		return false
	}
	rec := model.HitRatioRecord{
		Year:           m.Int(row, FieldYear, now.Year()),
		Month:          month,
		Name:           name,
		ClosedRequests: m.Int(row, FieldClosedRequests, 0),
		Placements:     m.Int(row, FieldPlacements, 0),
	}
	if v, ok := m.Value(row, FieldHitRatio); ok {
		r := ToFloat(v)
		rec.SuppliedRatio = &r
	}
	batch.HitRatio = append(batch.HitRatio, rec)
	return true
}

func (s *FixedStrategy) boardMathRow(batch *model.Batch, m *FieldMapper, row []string, now time.Time) bool {
	code := m.String(row, FieldCode)
	if code == "" {
		return false
	}
	rec := model.BoardMathRecord{
		Year:   m.Int(row, FieldYear, now.Year()),
		Month:  m.Int(row, FieldMonth, int(now.Month())),
		Code:   strings.ToUpper(code),
		Value:  m.Float(row, FieldValue, 0),
		Target: m.Float(row, FieldTarget, 0),
	}
	if w := m.Int(row, FieldWeek, 0); w > 0 {
		rec.Week = &w
	}
	batch.BoardMath = append(batch.BoardMath, rec)
	return true
}

func (s *FixedStrategy) boardNoteRow(batch *model.Batch, m *FieldMapper, row []string, now time.Time) bool {
	code := m.String(row, FieldCode)
	if code == "" {
		return false
	}
	batch.BoardNotes = append(batch.BoardNotes, model.BoardNoteRecord{
		Year:        m.Int(row, FieldYear, now.Year()),
		Month:       m.Int(row, FieldMonth, int(now.Month())),
		Code:        strings.ToUpper(code),
		Description: m.String(row, FieldDescription),
		Status:      NormalizeStatus(m.String(row, FieldStatus)),
	})
	return true
}

func (s *FixedStrategy) prepCallRow(batch *model.Batch, m *FieldMapper, row []string) bool {
	name := m.String(row, FieldDeliveryLead)
	date, ok := ParseDate(m.String(row, FieldDate))
	if name == "" || !ok {
		return false
	}
	checklist := make(map[string]bool)
	for idx, header := range m.Unmapped(FieldDate, FieldDeliveryLead, FieldCandidate, FieldNotes, FieldRole, FieldYear, FieldMonth, FieldWeek) {
		cell := ""
		if idx < len(row) {
			cell = row[idx]
		}
		checklist[header] = ParseBool(cell)
	}
	batch.PrepCalls = append(batch.PrepCalls, model.PrepCallRecord{
		Date:      date,
		Name:      name,
		Candidate: m.String(row, FieldCandidate),
		Checklist: checklist,
		Notes:     m.String(row, FieldNotes),
	})
	return true
}

// NormalizeStatus maps traffic-light labels onto green, yellow or red.
func NormalizeStatus(s string) string {
	switch NormalizeHeader(s) {
	case "green", "zielony", "g":
		return "green"
	case "red", "czerwony", "r":
		return "red"
	}
	return "yellow"
}

// splitHeader treats the first non-blank row as the header.
func splitHeader(rows [][]string) (header []string, body [][]string) {
	for i, row := range rows {
		if !blankRow(row) {
			return row, rows[i+1:]
		}
	}
	return nil, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
