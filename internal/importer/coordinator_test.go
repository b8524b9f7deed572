package importer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/artur-t-96/MINDY/internal/calculator"
	"github.com/artur-t-96/MINDY/internal/identity"
	"github.com/artur-t-96/MINDY/internal/model"
	"github.com/artur-t-96/MINDY/internal/parser"
	"github.com/artur-t-96/MINDY/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "kpi.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// stubStrategy returns a canned batch or error.
type stubStrategy struct {
	name  string
	batch *model.Batch
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Extract(context.Context, []parser.Source, parser.Panel) (*model.Batch, error) {
	s.calls++
	return s.batch, s.err
}

func oneSource() []parser.Source {
	return []parser.Source{{Path: "unused.xlsx", Name: "upload.xlsx"}}
}

func writeRecruitmentXLSX(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	if err := f.SetSheetName("Sheet1", "Rekrutacja"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := [][]interface{}{
		{"Rok", "Tydzień", "Imię", "Rola", "Dni pracy", "Weryfikacje", "Rekomendacje", "CV", "Placements"},
		{2024, 10, "Anna", "sourcer", 5, 22, 16, 0, 1},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Rekrutacja", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "kpi.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	return path
}

func TestImport_RecruitmentWorkbookEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	var events []string
	c := NewCoordinator(st, nil)
	report, err := c.Import(ctx, ImportOptions{
		Sources:  []parser.Source{{Path: writeRecruitmentXLSX(t), Name: "kpi.xlsx"}},
		Panel:    parser.PanelRecruitment,
		Progress: func(e ProgressEvent) { events = append(events, e.Type) },
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 1 || report.ByType[model.RecordRecruitment] != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.Periods) != 1 || report.Periods[0] != "W10/2024" {
		t.Fatalf("periods = %v", report.Periods)
	}
	if len(events) != 3 || events[0] != "start" || events[2] != "done" {
		t.Fatalf("progress events = %v", events)
	}

	people, err := st.ListPeople(ctx, identity.DepartmentRecruitment)
	if err != nil {
		t.Fatalf("list people: %v", err)
	}
	if len(people) != 1 || people[0].Name != "Anna" || people[0].Role != "Sourcer" {
		t.Fatalf("people = %+v", people)
	}

	rows, err := st.ListRecruitment(ctx, 2024, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := model.RecruitmentRow{Name: "Anna", Role: "Sourcer", WorkingDays: 5, Verifications: 22, Recommendations: 16, Placements: 1}
	if len(rows) != 1 || rows[0] != want {
		t.Fatalf("rows = %+v", rows)
	}

	view, err := calculator.NewCalculator(st).RecruitmentView(ctx, 2024, 10)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if verif, _ := view.TeamTargets.Get(model.KPIVerifications); verif.Actual != 22 {
		t.Fatalf("verification actual = %v", verif.Actual)
	}

	logs, err := st.ListImportLogs(ctx, 0)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Filenames != "kpi.xlsx" || logs[0].RecordsImported != 1 || logs[0].BatchID != report.BatchID {
		t.Fatalf("logs = %+v", logs)
	}

	// re-import overwrites in place
	if _, err := c.Import(ctx, ImportOptions{
		Sources: []parser.Source{{Path: writeRecruitmentXLSX(t), Name: "kpi.xlsx"}},
		Panel:   parser.PanelRecruitment,
	}); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if rows, _ := st.ListRecruitment(ctx, 2024, 10); len(rows) != 1 {
		t.Fatalf("rows after re-import = %+v", rows)
	}

	n, err := st.DeleteWeek(ctx, 2024, 10)
	if err != nil || n != 1 {
		t.Fatalf("delete week = %d, %v", n, err)
	}
	if rows, _ := st.ListRecruitment(ctx, 2024, 10); len(rows) != 0 {
		t.Fatalf("rows after delete = %+v", rows)
	}
}

func TestImport_NoFiles(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(newTestStore(t), nil)
	if _, err := c.Import(context.Background(), ImportOptions{}); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, want ErrNoFiles", err)
	}
}

func TestImport_UnknownStrategy(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(newTestStore(t), nil)
	_, err := c.Import(context.Background(), ImportOptions{Sources: oneSource(), Strategy: "magic"})
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("err = %v, want ErrUnknownStrategy", err)
	}
}

func TestImport_NoRecordsKeepsWarnings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	stub := &stubStrategy{name: "stub", batch: &model.Batch{
		Recruitment: []model.RecruitmentRecord{{Year: 2024, Week: 0, Name: "Anna"}},
		Warnings:    []string{"Rekrutacja: skipped 3 rows"},
	}}
	report, err := NewCoordinator(st, nil, stub).Import(ctx, ImportOptions{Sources: oneSource()})
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("err = %v, want ErrNoRecords", err)
	}
	if report == nil || report.Dropped != 1 || len(report.Warnings) != 2 {
		t.Fatalf("report = %+v", report)
	}
	if logs, _ := st.ListImportLogs(ctx, 0); len(logs) != 0 {
		t.Fatalf("empty import must not be logged: %+v", logs)
	}
}

func TestImport_InterpretationFailureWritesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	stub := &stubStrategy{name: "assisted", err: errors.New("model returned prose")}
	_, err := NewCoordinator(st, nil, stub).Import(ctx, ImportOptions{Sources: oneSource()})
	if !errors.Is(err, ErrInterpretation) {
		t.Fatalf("err = %v, want ErrInterpretation", err)
	}
	weeks, _ := st.ListWeeks(ctx, 0)
	people, _ := st.ListPeople(ctx, "")
	logs, _ := st.ListImportLogs(ctx, 0)
	if len(weeks)+len(people)+len(logs) != 0 {
		t.Fatalf("store not empty: weeks=%v people=%v logs=%v", weeks, people, logs)
	}
}

func TestImport_MonthlyAndBoardRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	supplied := 45.4
	week := 9
	stub := &stubStrategy{name: "stub", batch: &model.Batch{
		HitRatio: []model.HitRatioRecord{
			{Year: 2024, Month: 3, Name: "Marta", ClosedRequests: 3, Placements: 1, SuppliedRatio: &supplied},
			{Year: 2024, Month: 3, Name: "Kamil", SuppliedRatio: &supplied},
			{Year: 2024, Month: 3, Name: "Ola", ClosedRequests: 4, Placements: 1},
		},
		BoardMath: []model.BoardMathRecord{
			{Year: 2024, Month: 3, Week: &week, Code: "TD-01", Value: 18, Target: 20},
			{Year: 2024, Month: 3, Code: "CS-02", Value: 92},
			{Year: 2024, Month: 3, Code: ""},
		},
		BoardNotes: []model.BoardNoteRecord{
			{Year: 2024, Month: 3, Code: "DD-01", Description: "on track", Status: "Zielony"},
		},
		PrepCalls: []model.PrepCallRecord{
			{Date: "2024-03-04", Name: "Marta", Checklist: map[string]bool{"cv": true}},
			{Date: "not a date", Name: "Marta"},
		},
	}}

	report, err := NewCoordinator(st, nil, stub).Import(ctx, ImportOptions{Sources: oneSource(), Panel: parser.PanelBoard})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 7 || report.Dropped != 2 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.Periods) != 1 || report.Periods[0] != "M3/2024" {
		t.Fatalf("periods = %v", report.Periods)
	}

	ratios, err := st.ListHitRatios(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("list hit ratios: %v", err)
	}
	got := map[string]int{}
	for _, r := range ratios {
		got[r.Name] = r.HitRatio
	}
	// supplied ratio is kept, but never without closed requests
	if got["Marta"] != 45 || got["Kamil"] != 0 || got["Ola"] != 25 {
		t.Fatalf("hit ratios = %v", got)
	}

	people, _ := st.ListPeople(ctx, identity.DepartmentRecruitment)
	for _, p := range people {
		if p.Role != string(identity.RoleDeliveryLead) {
			t.Fatalf("person %s stored as %s", p.Name, p.Role)
		}
	}

	notes, _ := st.ListBoardNotes(ctx, 2024, 3)
	if len(notes) != 1 || notes[0].Status != "green" {
		t.Fatalf("notes = %+v", notes)
	}
	calls, _ := st.ListPrepCalls(ctx, 2024, 3)
	if len(calls) != 1 || !calls[0].Checklist["cv"] {
		t.Fatalf("prep calls = %+v", calls)
	}
}

func TestImport_DefaultStrategyIsFirst(t *testing.T) {
	t.Parallel()

	first := &stubStrategy{name: "first", batch: &model.Batch{}}
	second := &stubStrategy{name: "second", batch: &model.Batch{}}
	c := NewCoordinator(newTestStore(t), nil, first, second)
	_, _ = c.Import(context.Background(), ImportOptions{Sources: oneSource()})
	if first.calls != 1 || second.calls != 0 {
		t.Fatalf("calls: first=%d second=%d", first.calls, second.calls)
	}
	if len(c.Strategies()) != 2 {
		t.Fatalf("strategies = %v", c.Strategies())
	}
}

func TestImport_WarnsOnUnrecognizedRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	stub := &stubStrategy{name: "stub", batch: &model.Batch{
		Recruitment: []model.RecruitmentRecord{
			{Year: 2024, Week: 10, Name: "Anna", Role: "sourcer"},
			{Year: 2024, Week: 10, Name: "Igor", Role: "Intern"},
		},
		Sales: []model.SalesRecord{
			{Year: 2024, Week: 10, Name: "Ewa", Role: "Account Manager"},
		},
	}}
	report, err := NewCoordinator(st, nil, stub).Import(ctx, ImportOptions{Sources: oneSource()})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want := []string{"unrecognized roles kept as written: Account Manager, Intern"}
	if diff := cmp.Diff(want, report.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}

	people, err := st.ListPeople(ctx, "")
	if err != nil {
		t.Fatalf("list people: %v", err)
	}
	roles := map[string]string{}
	for _, p := range people {
		roles[p.Name] = p.Role
	}
	if roles["Igor"] != "Intern" || roles["Anna"] != "Sourcer" {
		t.Fatalf("roles = %v", roles)
	}
}
