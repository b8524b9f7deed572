package exporter

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/artur-t-96/MINDY/internal/calculator"
)

// Dashboards that can be exported.
const (
	DashboardRecruitment = "recruitment"
	DashboardSales       = "sales"
	DashboardBoard       = "board"
)

// ErrUnknownDashboard is returned for an unsupported dashboard name.
var ErrUnknownDashboard = errors.New("unknown dashboard")

// Exporter writes dashboard views into workbooks.
type Exporter struct {
	calc *calculator.Calculator
}

// NewExporter creates an exporter.
func NewExporter(calc *calculator.Calculator) *Exporter {
	return &Exporter{calc: calc}
}

// ExportOptions selects the dashboard and period. Week applies to the
// department dashboards, Month to the board.
type ExportOptions struct {
	Dashboard string
	Year      int
	Week      int
	Month     int
	Progress  func(ProgressEvent)
}

// FileName is the download name of an export.
func FileName(opts ExportOptions) string {
	if opts.Dashboard == DashboardBoard {
		return fmt.Sprintf("kpi-board-%d-%02d.xlsx", opts.Year, opts.Month)
	}
	return fmt.Sprintf("kpi-%s-%d-W%02d.xlsx", opts.Dashboard, opts.Year, opts.Week)
}

// Export builds the workbook of one dashboard. The caller closes the file.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*excelize.File, error) {
	var tables []table
	reportProgress(opts.Progress, 10, "load", "")

	switch opts.Dashboard {
	case DashboardRecruitment:
		v, err := e.calc.RecruitmentView(ctx, opts.Year, opts.Week)
		if err != nil {
			return nil, err
		}
		tables = recruitmentTables(v)
	case DashboardSales:
		v, err := e.calc.SalesView(ctx, opts.Year, opts.Week)
		if err != nil {
			return nil, err
		}
		tables = salesTables(v)
	case DashboardBoard:
		v, err := e.calc.BoardView(ctx, opts.Year, opts.Month)
		if err != nil {
			return nil, err
		}
		tables = boardTables(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDashboard, opts.Dashboard)
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, t := range tables {
		reportProgress(opts.Progress, 20+70*i/len(tables), "write", t.name)
		if err := writeTable(f, i == 0, t, headerStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", t.name, err)
		}
	}
	f.SetActiveSheet(0)
	reportProgress(opts.Progress, 100, "done", "")
	return f, nil
}

// table is one exported sheet.
type table struct {
	name   string
	header []string
	rows   [][]interface{}
}

// writeTable writes t into its own sheet; the first table takes over the
// default sheet.
func writeTable(f *excelize.File, first bool, t table, headerStyle int) error {
	if first {
		if err := f.SetSheetName("Sheet1", t.name); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(t.name); err != nil {
		return err
	}

	header := make([]interface{}, len(t.header))
	for i, h := range t.header {
		header[i] = h
	}
	if err := f.SetSheetRow(t.name, "A1", &header); err != nil {
		return err
	}
	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.name, cell, &row); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(t.header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.name, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(t.name, "A", last, 16)
}

func teamTargetRows(tt calculator.TeamTargets) [][]interface{} {
	rows := make([][]interface{}, 0, len(tt.Items))
	for _, t := range tt.Items {
		rows = append(rows, []interface{}{t.KPI, t.Role, t.Headcount, t.PerPerson, t.Target, t.Actual, t.Attainment})
	}
	return rows
}

var teamTargetHeader = []string{"KPI", "Role", "Headcount", "Per person", "Target", "Actual", "Attainment %"}

func recruitmentTables(v *calculator.RecruitmentView) []table {
	current := table{
		name:   fmt.Sprintf("Recruitment W%d-%d", v.Week, v.Year),
		header: []string{"Name", "Role", "Working days", "Verifications", "Recommendations", "CVs added", "Placements"},
	}
	for _, r := range v.Rows {
		current.rows = append(current.rows, []interface{}{r.Name, r.Role, r.WorkingDays, r.Verifications, r.Recommendations, r.CVsAdded, r.Placements})
	}

	hit := table{
		name:   fmt.Sprintf("Hit ratio M%d", v.Month),
		header: []string{"Delivery Lead", "Closed requests", "Placements", "Hit ratio %"},
	}
	for _, h := range v.HitRatios {
		hit.rows = append(hit.rows, []interface{}{h.Name, h.ClosedRequests, h.Placements, h.HitRatio})
	}

	avg := table{
		name:   "Averages",
		header: []string{"Name", "Role", "Weeks", "Working days", "Placements", "Verifications/day", "Recommendations/day", "CVs/day"},
	}
	for _, a := range v.Averages {
		avg.rows = append(avg.rows, []interface{}{a.Name, a.Role, a.Weeks, a.WorkingDays, a.TotalPlacements, a.VerificationsPerDay, a.RecommendationsPerDay, a.CVsPerDay})
	}

	return []table{current, hit, {name: "Team targets", header: teamTargetHeader, rows: teamTargetRows(v.TeamTargets)}, avg}
}

func salesTables(v *calculator.SalesView) []table {
	current := table{
		name:   fmt.Sprintf("Sales W%d-%d", v.Week, v.Year),
		header: []string{"Name", "Role", "Working days", "Leads", "Offers", "MRR", "Placements"},
	}
	for _, r := range v.Rows {
		current.rows = append(current.rows, []interface{}{r.Name, r.Role, r.WorkingDays, r.Leads, r.Offers, r.MRR, r.Placements})
	}

	avg := table{
		name:   "Averages",
		header: []string{"Name", "Role", "Weeks", "Working days", "Placements", "Leads/day", "Offers/day", "MRR/week"},
	}
	for _, a := range v.Averages {
		avg.rows = append(avg.rows, []interface{}{a.Name, a.Role, a.Weeks, a.WorkingDays, a.TotalPlacements, a.LeadsPerDay, a.OffersPerDay, a.MRRPerWeek})
	}

	return []table{current, {name: "Team targets", header: teamTargetHeader, rows: teamTargetRows(v.TeamTargets)}, avg}
}

func boardTables(v *calculator.BoardView) []table {
	indicators := table{
		name:   fmt.Sprintf("Board %d-%02d", v.Year, v.Month),
		header: []string{"Code", "Name", "Week", "Value", "Target", "Attainment %", "Status"},
	}
	for _, ind := range v.Indicators {
		var week interface{}
		if ind.Week > 0 {
			week = ind.Week
		}
		indicators.rows = append(indicators.rows, []interface{}{ind.Code, ind.Name, week, ind.Value, ind.Target, ind.Attainment, ind.Status})
	}

	notes := table{name: "Notes", header: []string{"Code", "Description", "Status"}}
	for _, n := range v.Notes {
		notes.rows = append(notes.rows, []interface{}{n.Code, n.Description, n.Status})
	}

	hit := table{name: "Hit ratio", header: []string{"Delivery Lead", "Closed requests", "Placements", "Hit ratio %"}}
	for _, h := range v.HitRatios {
		hit.rows = append(hit.rows, []interface{}{h.Name, h.ClosedRequests, h.Placements, h.HitRatio})
	}

	calls := table{name: "Prep calls", header: []string{"Date", "Delivery Lead", "Candidate", "Complete", "Notes"}}
	for _, c := range v.PrepCalls {
		done := len(c.Checklist) > 0
		for _, ok := range c.Checklist {
			done = done && ok
		}
		calls.rows = append(calls.rows, []interface{}{c.Date, c.Name, c.Candidate, done, c.Notes})
	}

	return []table{indicators, notes, hit, calls}
}
