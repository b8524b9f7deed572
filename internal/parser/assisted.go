package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/artur-t-96/MINDY/internal/model"
	"github.com/artur-t-96/MINDY/internal/period"
)

// Grid bounds for the rendered prompt.
const (
	maxGridRows  = 80
	maxGridCols  = 20
	maxCellChars = 40
)

// AssistedStrategy hands a text rendering of every sheet to an Interpreter
// and decodes the JSON it returns.
type AssistedStrategy struct {
	interp Interpreter
	now    func() time.Time
}

// NewAssistedStrategy creates the model-assisted strategy.
func NewAssistedStrategy(interp Interpreter) *AssistedStrategy {
	return &AssistedStrategy{interp: interp, now: time.Now}
}

// Name implements Strategy.
func (s *AssistedStrategy) Name() string { return "assisted" }

// Extract implements Strategy. Any failure to obtain or decode the reply is
// reported as ErrInterpretation.
func (s *AssistedStrategy) Extract(ctx context.Context, sources []Source, panel Panel) (*model.Batch, error) {
	if s.interp == nil {
		return nil, fmt.Errorf("%w: no interpreter configured", ErrInterpretation)
	}
	workbooks, err := ReadWorkbooks(ctx, sources)
	if err != nil {
		return nil, err
	}

	prompt := BuildInterpretPrompt(workbooks, panel)
	reply, err := s.interp.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterpretation, err)
	}

	parsed, err := DecodeReply(reply)
	if err != nil {
		return nil, err
	}
	return parsed.toBatch(panel, s.now()), nil
}

// RenderSheet renders a sheet as a bounded pipe-separated grid.
func RenderSheet(sheet Sheet) string {
	var b strings.Builder
	rows := sheet.Rows
	truncated := false
	if len(rows) > maxGridRows {
		rows = rows[:maxGridRows]
		truncated = true
	}
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		if len(row) > maxGridCols {
			row = row[:maxGridCols]
		}
		cells := make([]string, len(row))
		for j, c := range row {
			c = strings.Join(strings.Fields(c), " ")
			if r := []rune(c); len(r) > maxCellChars {
				c = string(r[:maxCellChars]) + "…"
			}
			cells[j] = c
		}
		fmt.Fprintf(&b, "%d | %s\n", i+1, strings.Join(cells, " | "))
	}
	if truncated {
		fmt.Fprintf(&b, "... (%d more rows)\n", len(sheet.Rows)-maxGridRows)
	}
	return b.String()
}

// BuildInterpretPrompt renders all workbooks into one instruction prompt.
func BuildInterpretPrompt(workbooks []*Workbook, panel Panel) string {
	var b strings.Builder
	b.WriteString("You convert KPI spreadsheets of a staffing company into JSON.\n")
	fmt.Fprintf(&b, "Expected record types: %s.\n\n", kindList(panel))
	b.WriteString(replySchema)
	b.WriteString("\nSpreadsheets:\n")
	for _, wb := range workbooks {
		for _, sheet := range wb.Sheets {
			fmt.Fprintf(&b, "\n=== file: %s / sheet: %s ===\n", wb.Name, sheet.Name)
			b.WriteString(RenderSheet(sheet))
		}
	}
	b.WriteString("\nReturn only the JSON object.\n")
	return b.String()
}

const replySchema = `Reply with a single JSON object:
{
  "summary": "one sentence describing what was found",
  "warnings": ["rows or sheets you could not interpret"],
  "groups": [
    {"type": "recruitment", "records": [{"year": 2024, "week": 10, "name": "", "role": "", "workingDays": 5, "verifications": 0, "recommendations": 0, "cvsAdded": 0, "placements": 0}]},
    {"type": "sales", "records": [{"year": 2024, "week": 10, "name": "", "role": "", "workingDays": 5, "leads": 0, "offers": 0, "mrr": 0, "placements": 0}]},
    {"type": "hit_ratio", "records": [{"year": 2024, "month": 3, "name": "", "closedRequests": 0, "placements": 0}]},
    {"type": "board_math", "records": [{"year": 2024, "month": 3, "week": null, "code": "TD-01", "value": 0, "target": 0}]},
    {"type": "board_descriptive", "records": [{"year": 2024, "month": 3, "code": "DD-01", "description": "", "status": "green|yellow|red"}]},
    {"type": "prep_calls", "records": [{"date": "2024-03-05", "name": "", "candidate": "", "checklist": {"item": true}, "notes": ""}]}
  ]
}
Week is the ISO week number. Use null for unknown numbers. Omit empty groups.
`

func kindList(panel Panel) string {
	kinds := panel.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Reply is the decoded interpreter answer.
type Reply struct {
	Summary  string       `json:"summary"`
	Warnings []string     `json:"warnings"`
	Groups   []ReplyGroup `json:"groups"`
}

// ReplyGroup is one typed record collection.
type ReplyGroup struct {
	Type    string        `json:"type"`
	Records []ReplyRecord `json:"records"`
}

// ReplyRecord is the union of every record shape; absent fields decode as
// zero values.
type ReplyRecord struct {
	Year            Num                        `json:"year"`
	Week            *Num                       `json:"week"`
	Month           Num                        `json:"month"`
	Name            string                     `json:"name"`
	Role            string                     `json:"role"`
	WorkingDays     *Num                       `json:"workingDays"`
	Verifications   Num                        `json:"verifications"`
	Recommendations Num                        `json:"recommendations"`
	CVsAdded        Num                        `json:"cvsAdded"`
	Placements      Num                        `json:"placements"`
	Leads           Num                        `json:"leads"`
	Offers          Num                        `json:"offers"`
	MRR             Num                        `json:"mrr"`
	ClosedRequests  Num                        `json:"closedRequests"`
	HitRatio        *Num                       `json:"hitRatio"`
	Code            string                     `json:"code"`
	Value           Num                        `json:"value"`
	Target          Num                        `json:"target"`
	Description     string                     `json:"description"`
	Status          string                     `json:"status"`
	Date            string                     `json:"date"`
	Candidate       string                     `json:"candidate"`
	Checklist       map[string]json.RawMessage `json:"checklist"`
	Notes           string                     `json:"notes"`
}

// DecodeReply extracts the first top-level JSON object from text and decodes
// it, running a repair pass when the object is malformed.
func DecodeReply(text string) (*Reply, error) {
	candidate, ok := FindJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("%w: reply contains no JSON object", ErrInterpretation)
	}

	var reply Reply
	if err := json.Unmarshal([]byte(candidate), &reply); err == nil {
		return &reply, nil
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: reply is not valid JSON: %w", ErrInterpretation, err)
	}
	if err := json.Unmarshal([]byte(repaired), &reply); err != nil {
		return nil, fmt.Errorf("%w: repaired reply does not match the record schema: %w", ErrInterpretation, err)
	}
	return &reply, nil
}

// FindJSONObject returns the first balanced top-level {...} in text. An
// object cut off before its closing brace is returned up to the end of text
// so a repair pass can close it.
func FindJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return text[start:], true
}

// normalizeType accepts the spellings models use for group types.
func normalizeType(t string) model.RecordType {
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.NewReplacer("-", "_", " ", "_").Replace(t)
	switch t {
	case "recruitment", "rekrutacja", "body_leasing":
		return model.RecordRecruitment
	case "sales", "sprzedaz":
		return model.RecordSales
	case "hit_ratio", "hitratio":
		return model.RecordHitRatio
	case "board_math", "boardmath", "kpi_mat", "board_mathematical":
		return model.RecordBoardMath
	case "board_descriptive", "boarddescriptive", "board_desc", "kpi_opis", "board_notes":
		return model.RecordBoardDescriptive
	case "prep_calls", "prepcalls", "prep_call":
		return model.RecordPrepCalls
	}
	return ""
}

func (r *Reply) toBatch(panel Panel, now time.Time) *model.Batch {
	batch := &model.Batch{Summary: r.Summary}
	batch.Warnings = append(batch.Warnings, r.Warnings...)

	allowed := make(map[model.RecordType]bool)
	for _, k := range panel.Kinds() {
		allowed[k] = true
	}
	cur := period.Current(now)

	for _, g := range r.Groups {
		kind := normalizeType(g.Type)
		if kind == "" {
			batch.Warnings = append(batch.Warnings, fmt.Sprintf("ignored %d records of unknown type %q", len(g.Records), g.Type))
			continue
		}
		if !allowed[kind] {
			batch.Warnings = append(batch.Warnings, fmt.Sprintf("ignored %d %s records outside the %s panel", len(g.Records), kind, panel))
			continue
		}
		for _, rec := range g.Records {
			rec.appendTo(batch, kind, cur, now)
		}
	}
	return batch
}

func (rec ReplyRecord) appendTo(batch *model.Batch, kind model.RecordType, cur period.Week, now time.Time) {
	year := rec.Year.Int()
	month := rec.Month.Int()
	week := 0
	if rec.Week != nil {
		week = rec.Week.Int()
	}
	name := strings.TrimSpace(rec.Name)

	switch kind {
	case model.RecordRecruitment, model.RecordSales:
		if year <= 0 {
			year = cur.Year
		}
		if week <= 0 {
			week = cur.Week
		}
		days := float64(defaultWorkingDays)
		if rec.WorkingDays != nil {
			days = rec.WorkingDays.Float()
		}
		if kind == model.RecordRecruitment {
			batch.Recruitment = append(batch.Recruitment, model.RecruitmentRecord{
				Year: year, Week: week, Name: name, Role: rec.Role, WorkingDays: days,
				Verifications:   rec.Verifications.Int(),
				Recommendations: rec.Recommendations.Int(),
				CVsAdded:        rec.CVsAdded.Int(),
				Placements:      rec.Placements.Int(),
			})
			return
		}
		batch.Sales = append(batch.Sales, model.SalesRecord{
			Year: year, Week: week, Name: name, Role: rec.Role, WorkingDays: days,
			Leads:      rec.Leads.Int(),
			Offers:     rec.Offers.Int(),
			MRR:        rec.MRR.Float(),
			Placements: rec.Placements.Int(),
		})

	case model.RecordHitRatio:
		if year <= 0 {
			year = now.Year()
		}
		if month <= 0 {
			month = int(now.Month())
		}
		hr := model.HitRatioRecord{
			Year: year, Month: month, Name: name,
			ClosedRequests: rec.ClosedRequests.Int(),
			Placements:     rec.Placements.Int(),
		}
		if rec.HitRatio != nil {
			v := rec.HitRatio.Float()
			hr.SuppliedRatio = &v
		}
		batch.HitRatio = append(batch.HitRatio, hr)

	case model.RecordBoardMath:
		if year <= 0 {
			year = now.Year()
		}
		if month <= 0 {
			month = int(now.Month())
		}
		bm := model.BoardMathRecord{
			Year: year, Month: month,
			Code:   strings.ToUpper(strings.TrimSpace(rec.Code)),
			Value:  rec.Value.Float(),
			Target: rec.Target.Float(),
		}
		if week > 0 {
			bm.Week = &week
		}
		batch.BoardMath = append(batch.BoardMath, bm)

	case model.RecordBoardDescriptive:
		if year <= 0 {
			year = now.Year()
		}
		if month <= 0 {
			month = int(now.Month())
		}
		batch.BoardNotes = append(batch.BoardNotes, model.BoardNoteRecord{
			Year: year, Month: month,
			Code:        strings.ToUpper(strings.TrimSpace(rec.Code)),
			Description: rec.Description,
			Status:      NormalizeStatus(rec.Status),
		})

	case model.RecordPrepCalls:
		date, _ := ParseDate(rec.Date)
		checklist := make(map[string]bool, len(rec.Checklist))
		for k, raw := range rec.Checklist {
			checklist[k] = rawBool(raw)
		}
		batch.PrepCalls = append(batch.PrepCalls, model.PrepCallRecord{
			Date: date, Name: name, Candidate: rec.Candidate,
			Checklist: checklist, Notes: rec.Notes,
		})
	}
}

// rawBool reads a checklist value that may be a bool, number or string.
func rawBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var n Num
	if err := json.Unmarshal(raw, &n); err == nil && n != 0 {
		return true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseBool(s)
	}
	return false
}
