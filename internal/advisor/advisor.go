package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/artur-t-96/MINDY/internal/calculator"
	"github.com/artur-t-96/MINDY/internal/identity"
	"github.com/artur-t-96/MINDY/internal/model"
	"github.com/artur-t-96/MINDY/internal/period"
	"github.com/artur-t-96/MINDY/internal/store"
)

// SubjectBoard narrates the board dashboard; other subjects are departments.
const SubjectBoard = "board"

// ErrUnknownSubject is returned for a subject that is neither a department
// nor the board.
var ErrUnknownSubject = errors.New("unknown narrative subject")

// Request names the dashboard to narrate. Week is used by departments,
// Month by the board.
type Request struct {
	Subject string
	Year    int
	Week    int
	Month   int
}

// Result is a generated narrative, or the local summary when Fallback is set.
// Unavailable marks a fallback caused by a missing API key rather than a
// failed call.
type Result struct {
	Subject     string           `json:"subject"`
	Period      period.Key       `json:"period"`
	Content     string           `json:"content"`
	Fallback    bool             `json:"fallback"`
	Unavailable bool             `json:"unavailable"`
	Narrative   *model.Narrative `json:"narrative,omitempty"`
}

// Advisor narrates dashboards through a Generator.
type Advisor struct {
	store   *store.Store
	calc    *calculator.Calculator
	gen     Generator
	logger  *log.Logger
	timeout time.Duration
}

// New creates an advisor. A nil generator behaves as Unavailable.
func New(st *store.Store, calc *calculator.Calculator, gen Generator, logger *log.Logger, timeout time.Duration) *Advisor {
	if gen == nil {
		gen = Unavailable{}
	}
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Advisor{store: st, calc: calc, gen: gen, logger: logger.WithPrefix("advisor"), timeout: timeout}
}

// Available reports whether a real generator is configured.
func (a *Advisor) Available() bool {
	if a == nil {
		return false
	}
	_, off := a.gen.(Unavailable)
	return !off
}

// Narrate builds the prompt from the aggregated view, generates text and
// stores it. When generation fails a local summary is returned with
// Fallback set and nothing is stored.
func (a *Advisor) Narrate(ctx context.Context, req Request) (*Result, error) {
	subject, key, prompt, fallback, err := a.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	res := &Result{Subject: subject, Period: key}

	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	text, err := a.gen.Generate(genCtx, prompt)
	if err != nil {
		res.Unavailable = errors.Is(err, ErrUnavailable)
		if !res.Unavailable {
			a.logger.Warn("generation failed, using local summary", "subject", subject, "period", key.Label(), "err", err)
		}
		res.Content, res.Fallback = fallback, true
		return res, nil
	}
	res.Content = text

	if _, err := a.store.SaveNarrative(ctx, subject, key, text); err != nil {
		return nil, err
	}
	n, err := a.store.LatestNarrative(ctx, subject, key)
	if err != nil {
		return nil, err
	}
	res.Narrative = &n
	a.logger.Info("narrative stored", "subject", subject, "period", key.Label(), "chars", len(text))
	return res, nil
}

// prepare resolves the subject to its canonical name and renders the prompt
// and the local fallback for it.
func (a *Advisor) prepare(ctx context.Context, req Request) (subject string, key period.Key, prompt, fallback string, err error) {
	if strings.EqualFold(strings.TrimSpace(req.Subject), SubjectBoard) {
		key = period.MonthKey(req.Year, req.Month)
		v, err := a.calc.BoardView(ctx, req.Year, req.Month)
		if err != nil {
			return "", key, "", "", err
		}
		return SubjectBoard, key, BoardPrompt(v), boardFallback(v), nil
	}

	dept, ok := identity.ParseDepartment(req.Subject)
	if !ok {
		return "", key, "", "", fmt.Errorf("%w: %q", ErrUnknownSubject, req.Subject)
	}
	key = period.WeekKey(req.Year, req.Week)
	if dept == identity.DepartmentSales {
		v, err := a.calc.SalesView(ctx, req.Year, req.Week)
		if err != nil {
			return "", key, "", "", err
		}
		return string(dept), key, SalesPrompt(v), fallbackSummary("Sales "+key.Label(), len(v.Rows), v.TeamTargets), nil
	}
	v, err := a.calc.RecruitmentView(ctx, req.Year, req.Week)
	if err != nil {
		return "", key, "", "", err
	}
	return string(dept), key, RecruitmentPrompt(v), fallbackSummary("Recruitment "+key.Label(), len(v.Rows), v.TeamTargets), nil
}
