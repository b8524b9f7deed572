package advisor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artur-t-96/MINDY/internal/calculator"
	"github.com/artur-t-96/MINDY/internal/model"
	"github.com/artur-t-96/MINDY/internal/store"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func seeded(t *testing.T) (*store.Store, *calculator.Calculator) {
	t.Helper()
	ctx := context.Background()
	st, err := store.New(filepath.Join(t.TempDir(), "kpi.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	pid, _ := st.ResolvePerson(ctx, "Anna", "Sourcer")
	wid, _ := st.ResolveWeek(ctx, 2024, 10)
	if err := st.UpsertRecruitment(ctx, pid, wid, model.RecruitmentRecord{
		Name: "Anna", WorkingDays: 5, Verifications: 22, Recommendations: 16, Placements: 1,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	return st, calculator.NewCalculator(st)
}

func TestNarrate_StoresGeneratedText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, calc := seeded(t)

	gen := &fakeGenerator{reply: "Anna is ahead of target."}
	res, err := New(st, calc, gen, nil, 0).Narrate(ctx, Request{Subject: "body-leasing", Year: 2024, Week: 10})
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if res.Fallback || res.Content != gen.reply || res.Subject != "recruitment" || res.Narrative == nil {
		t.Fatalf("result = %+v", res)
	}
	for _, want := range []string{"Week 10/2024", "Anna (Sourcer): Verifications:22", "MINDY", "120 words"} {
		if !strings.Contains(gen.prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, gen.prompt)
		}
	}

	view, err := calc.RecruitmentView(ctx, 2024, 10)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Narrative == nil || view.Narrative.Content != gen.reply {
		t.Fatalf("dashboard narrative = %+v", view.Narrative)
	}
}

func TestNarrate_FallbackIsNotStored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, calc := seeded(t)

	gen := &fakeGenerator{err: errors.New("overloaded")}
	res, err := New(st, calc, gen, nil, 0).Narrate(ctx, Request{Subject: "recruitment", Year: 2024, Week: 10})
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if !res.Fallback || res.Unavailable || res.Narrative != nil {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Content, "1 people reported") || !strings.Contains(res.Content, "Best: placements at 400%") || !strings.Contains(res.Content, "recommendations at 106.7%") {
		t.Fatalf("fallback = %q", res.Content)
	}
	if view, _ := calc.RecruitmentView(ctx, 2024, 10); view.Narrative != nil {
		t.Fatalf("fallback must not be stored: %+v", view.Narrative)
	}
}

func TestNarrate_Unavailable(t *testing.T) {
	t.Parallel()
	st, calc := seeded(t)

	a := New(st, calc, NewGenerator("", "", 0), nil, 0)
	if a.Available() {
		t.Fatalf("advisor without key reports available")
	}
	res, err := a.Narrate(context.Background(), Request{Subject: "sales", Year: 2024, Week: 10})
	if err != nil || !res.Fallback || !res.Unavailable {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
}

func TestNarrate_BoardAndUnknownSubject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, calc := seeded(t)

	if err := st.UpsertBoardMeasurement(ctx, model.BoardMathRecord{Year: 2024, Month: 3, Code: "CS-02", Value: 60}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	gen := &fakeGenerator{reply: "Verification rate is low."}
	a := New(st, calc, gen, nil, 0)

	res, err := a.Narrate(ctx, Request{Subject: "Board", Year: 2024, Month: 3})
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if res.Subject != SubjectBoard || res.Period.Label() != "M3/2024" {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(gen.prompt, "CS-02 Technical Verification Rate (month): 60") {
		t.Fatalf("prompt = %s", gen.prompt)
	}

	if _, err := a.Narrate(ctx, Request{Subject: "finance", Year: 2024, Week: 1}); !errors.Is(err, ErrUnknownSubject) {
		t.Fatalf("err = %v, want ErrUnknownSubject", err)
	}
}
