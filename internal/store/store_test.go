package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/artur-t-96/MINDY/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "kpi.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestInit_IsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	if err := st.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}
	v, err := st.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != LatestSchemaVersion() {
		t.Fatalf("schema version = %d, want %d", v, LatestSchemaVersion())
	}

	targets, err := st.ListTargets(ctx)
	if err != nil {
		t.Fatalf("list targets: %v", err)
	}
	if len(targets) != len(model.DefaultTargets) {
		t.Fatalf("targets = %d, want %d (seeded once)", len(targets), len(model.DefaultTargets))
	}
}

func TestSchemaVersion_ZeroWhenUnrecorded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	if _, err := st.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", settingSchemaVersion); err != nil {
		t.Fatalf("delete version: %v", err)
	}
	v, err := st.SchemaVersion(ctx)
	if err != nil || v != 0 {
		t.Fatalf("schema version = %d, %v; want 0, nil", v, err)
	}
}

func TestResolvePerson_SameIdentityOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	const workers = 8
	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := st.ResolvePerson(ctx, "Anna", "sourcer")
			if err != nil {
				t.Errorf("resolve: %v", err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("ids differ: %v", ids)
		}
	}

	people, err := st.ListPeople(ctx, "")
	if err != nil {
		t.Fatalf("list people: %v", err)
	}
	if len(people) != 1 {
		t.Fatalf("people = %d, want 1", len(people))
	}
	p := people[0]
	if p.Name != "Anna" || p.Role != "Sourcer" || p.Department != "recruitment" || !p.Active {
		t.Fatalf("unexpected person: %+v", p)
	}
}

func TestResolvePerson_RoleSplitsIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	a, err := st.ResolvePerson(ctx, "Jan", "SDR")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	b, err := st.ResolvePerson(ctx, "Jan", "BDM")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a == b {
		t.Fatalf("same id %d for different roles", a)
	}

	sales, err := st.ListPeople(ctx, "sales")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("sales people = %d, want 2", len(sales))
	}
}

func TestUpsertRecruitment_OverwritesEveryMeasure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	pid, _ := st.ResolvePerson(ctx, "Anna", "Sourcer")
	wid, err := st.ResolveWeek(ctx, 2024, 10)
	if err != nil {
		t.Fatalf("resolve week: %v", err)
	}

	first := model.RecruitmentRecord{Name: "Anna", WorkingDays: 5, Verifications: 22, Recommendations: 16, CVsAdded: 3, Placements: 1}
	second := model.RecruitmentRecord{Name: "Anna", WorkingDays: 4, Verifications: 7, Recommendations: 0, CVsAdded: 0, Placements: 0}
	for _, r := range []model.RecruitmentRecord{first, second} {
		if err := st.UpsertRecruitment(ctx, pid, wid, r); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	rows, err := st.ListRecruitment(ctx, 2024, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []model.RecruitmentRow{{Name: "Anna", Role: "Sourcer", WorkingDays: 4, Verifications: 7}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveWeek_StoresOutOfRangeAsIs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	a, err := st.ResolveWeek(ctx, 2024, 60)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	b, err := st.ResolveWeek(ctx, 2024, 60)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a != b {
		t.Fatalf("week resolved twice: %d vs %d", a, b)
	}

	weeks, err := st.ListWeeks(ctx, 0)
	if err != nil {
		t.Fatalf("list weeks: %v", err)
	}
	if len(weeks) != 1 || weeks[0].Week != 60 {
		t.Fatalf("weeks = %+v", weeks)
	}
}

func TestAddTarget_AppendsNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	seeded, err := st.ListTargets(ctx)
	if err != nil {
		t.Fatalf("list targets: %v", err)
	}
	for _, v := range []float64{20, 25} {
		if _, err := st.AddTarget(ctx, model.Target{Role: "Sourcer", KPI: "weryfikacje", Value: v}); err != nil {
			t.Fatalf("add target: %v", err)
		}
	}

	got, err := st.ListTargets(ctx)
	if err != nil {
		t.Fatalf("list targets: %v", err)
	}
	if len(got) != len(seeded)+2 {
		t.Fatalf("targets = %+v, want %d rows", got, len(seeded)+2)
	}
	if got[0].Value != 25 || got[1].Value != 20 || got[0].PeriodUnit != "week" || got[0].ID <= got[1].ID {
		t.Fatalf("newest targets = %+v, %+v", got[0], got[1])
	}
}

func TestDeleteWeek(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	anna, _ := st.ResolvePerson(ctx, "Anna", "Sourcer")
	ola, _ := st.ResolvePerson(ctx, "Ola", "SDR")
	wid, _ := st.ResolveWeek(ctx, 2024, 10)
	if err := st.UpsertRecruitment(ctx, anna, wid, model.RecruitmentRecord{Name: "Anna", WorkingDays: 5}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := st.UpsertSales(ctx, ola, wid, model.SalesRecord{Name: "Ola", WorkingDays: 5, Leads: 3}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	removed, err := st.DeleteWeek(ctx, 2024, 10)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	rows, err := st.ListRecruitment(ctx, 2024, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows left after delete: %+v", rows)
	}

	if _, err := st.DeleteWeek(ctx, 2024, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestUpsertBoardMeasurement_MonthlyDeduplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	for _, v := range []float64{70, 85} {
		r := model.BoardMathRecord{Year: 2024, Month: 3, Code: "CS-02", Value: v, Target: 90}
		if err := st.UpsertBoardMeasurement(ctx, r); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	week := 10
	if err := st.UpsertBoardMeasurement(ctx, model.BoardMathRecord{Year: 2024, Month: 3, Week: &week, Code: "TD-01", Value: 18, Target: 20}); err != nil {
		t.Fatalf("upsert weekly: %v", err)
	}

	got, err := st.ListBoardMeasurements(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []model.BoardMeasurement{
		{Year: 2024, Month: 3, Week: 0, Code: "CS-02", Value: 85, Target: 90},
		{Year: 2024, Month: 3, Week: 10, Code: "TD-01", Value: 18, Target: 20},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("measurements mismatch (-want +got):\n%s", diff)
	}
}

func TestImportLog_ListAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	id, err := st.CreateImportLog(ctx, model.ImportLogEntry{Filenames: "a.xlsx", RecordsImported: 3, Periods: "W10/2024", Panel: "recruitment"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	logs, err := st.ListImportLogs(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 || logs[0].RecordsImported != 3 || logs[0].Periods != "W10/2024" {
		t.Fatalf("logs = %+v", logs)
	}
	if err := st.DeleteImportLog(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.DeleteImportLog(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestPrepCalls_RoundTripChecklist(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	dl, _ := st.ResolvePerson(ctx, "Marta", "DeliveryLead")
	rec := model.PrepCallRecord{Date: "2024-03-05", Name: "Marta", Candidate: "Piotr", Checklist: map[string]bool{"cv": true, "rate": false}}
	if err := st.UpsertPrepCall(ctx, dl, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	calls, err := st.ListPrepCalls(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if diff := cmp.Diff(rec.Checklist, calls[0].Checklist); diff != "" {
		t.Fatalf("checklist mismatch (-want +got):\n%s", diff)
	}
	if others, _ := st.ListPrepCalls(ctx, 2024, 4); len(others) != 0 {
		t.Fatalf("april calls = %+v", others)
	}
}
