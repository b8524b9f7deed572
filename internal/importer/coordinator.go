package importer

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/artur-t-96/MINDY/internal/calculator"
	"github.com/artur-t-96/MINDY/internal/identity"
	"github.com/artur-t-96/MINDY/internal/model"
	"github.com/artur-t-96/MINDY/internal/parser"
	"github.com/artur-t-96/MINDY/internal/period"
	"github.com/artur-t-96/MINDY/internal/store"
)

var (
	// ErrNoFiles is returned for an upload without files.
	ErrNoFiles = errors.New("no files uploaded")
	// ErrNoRecords is returned when non-empty files yield nothing to store.
	ErrNoRecords = errors.New("no records found: check sheet names and column headers")
	// ErrUnknownStrategy is returned for an unregistered strategy name.
	ErrUnknownStrategy = errors.New("unknown extraction strategy")
	// ErrInterpretation wraps every extraction failure.
	ErrInterpretation = parser.ErrInterpretation
)

// Coordinator runs uploads through extraction and ingestion. Imports are
// serialized: the store has a single writer.
type Coordinator struct {
	store      *store.Store
	logger     *log.Logger
	strategies map[string]parser.Strategy
	fallback   string

	mu sync.Mutex
}

// NewCoordinator creates a coordinator. The first strategy is the default.
func NewCoordinator(st *store.Store, logger *log.Logger, strategies ...parser.Strategy) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	if len(strategies) == 0 {
		strategies = []parser.Strategy{parser.NewFixedStrategy()}
	}
	c := &Coordinator{
		store:      st,
		logger:     logger.WithPrefix("import"),
		strategies: make(map[string]parser.Strategy, len(strategies)),
		fallback:   strategies[0].Name(),
	}
	for _, s := range strategies {
		c.strategies[s.Name()] = s
	}
	return c
}

// Strategies lists registered strategy names.
func (c *Coordinator) Strategies() []string {
	out := make([]string, 0, len(c.strategies))
	for name := range c.strategies {
		out = append(out, name)
	}
	return out
}

// ImportOptions describes one upload.
type ImportOptions struct {
	Sources  []parser.Source
	Panel    parser.Panel
	Strategy string // empty selects the default
	Progress func(ProgressEvent)
}

// ProgressEvent reports import progress to an optional observer.
type ProgressEvent struct {
	Type      string      `json:"type"` // start/extracted/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Report summarizes a finished import.
type Report struct {
	BatchID  string                   `json:"batchId"`
	Strategy string                   `json:"strategy"`
	Imported int                      `json:"imported"`
	Summary  string                   `json:"summary"`
	ByType   map[model.RecordType]int `json:"byType"`
	Periods  []string                 `json:"periods"`
	Warnings []string                 `json:"warnings"`
	Dropped  int                      `json:"dropped"`
	Duration time.Duration            `json:"duration"`
}

// Import extracts records from opts.Sources and stores them.
//
// Extraction failures abort before any write and wrap ErrInterpretation.
// A row write failure stops the batch; rows already written stay. When
// nothing could be stored the report is returned together with ErrNoRecords
// so callers can show its warnings.
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	if len(opts.Sources) == 0 {
		return nil, ErrNoFiles
	}
	if opts.Panel == "" {
		opts.Panel = parser.PanelAuto
	}
	name := opts.Strategy
	if name == "" {
		name = c.fallback
	}
	strategy, ok := c.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}

	report := &Report{
		BatchID:  uuid.NewString(),
		Strategy: name,
		ByType:   make(map[model.RecordType]int),
	}
	files := sourceNames(opts.Sources)

	c.sendProgress(opts, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("Reading %d files with the %s strategy", len(opts.Sources), name),
		Data:    map[string]interface{}{"files": files, "panel": opts.Panel},
	})

	batch, err := strategy.Extract(ctx, opts.Sources, opts.Panel)
	if err != nil {
		if !errors.Is(err, ErrInterpretation) {
			err = fmt.Errorf("%w: %w", ErrInterpretation, err)
		}
		c.logger.Error("extraction failed", "batch", report.BatchID, "files", files, "err", err)
		c.sendProgress(opts, ProgressEvent{Type: "error", Message: err.Error()})
		return nil, err
	}
	report.Summary = batch.Summary
	report.Warnings = append(report.Warnings, batch.Warnings...)

	c.sendProgress(opts, ProgressEvent{
		Type:    "extracted",
		Message: fmt.Sprintf("Found %d candidate records", batch.Len()),
		Data:    batch.Len(),
	})

	touched := period.NewSet()
	if err := c.ingest(ctx, batch, report, touched); err != nil {
		c.logger.Error("ingestion stopped", "batch", report.BatchID, "imported", report.Imported, "err", err)
		c.sendProgress(opts, ProgressEvent{Type: "error", Message: err.Error()})
		return nil, err
	}
	report.Periods = touched.Labels()
	report.Duration = time.Since(start)

	if report.Imported == 0 {
		c.logger.Warn("nothing imported", "batch", report.BatchID, "files", files, "warnings", len(report.Warnings))
		c.sendProgress(opts, ProgressEvent{Type: "error", Message: ErrNoRecords.Error(), Data: report})
		return report, ErrNoRecords
	}
	if report.Summary == "" {
		report.Summary = fmt.Sprintf("Imported %d records", report.Imported)
	}

	_, err = c.store.CreateImportLog(ctx, model.ImportLogEntry{
		BatchID:         report.BatchID,
		Filenames:       strings.Join(files, ", "),
		RecordsImported: report.Imported,
		Periods:         strings.Join(report.Periods, ", "),
		Panel:           string(opts.Panel),
		Summary:         report.Summary,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("import finished",
		"batch", report.BatchID,
		"strategy", name,
		"imported", report.Imported,
		"dropped", report.Dropped,
		"periods", strings.Join(report.Periods, ","),
		"took", report.Duration.Round(time.Millisecond),
	)
	c.sendProgress(opts, ProgressEvent{Type: "done", Message: report.Summary, Data: report})
	return report, nil
}

// sendProgress delivers an event to the observer, if any.
func (c *Coordinator) sendProgress(opts ImportOptions, evt ProgressEvent) {
	if opts.Progress == nil {
		return
	}
	evt.Timestamp = time.Now()
	opts.Progress(evt)
}

func sourceNames(sources []parser.Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.Name
	}
	return out
}

// ingest stores every candidate record of batch. Records missing identity
// fields are dropped and counted.
func (c *Coordinator) ingest(ctx context.Context, batch *model.Batch, report *Report, touched *period.Set) error {
	dropped := make(map[model.RecordType]int)
	unknownRoles := make(map[string]struct{})
	noteRole := func(raw string) {
		if !identity.Canonical(identity.NormalizeRole(raw)) {
			unknownRoles[strings.TrimSpace(raw)] = struct{}{}
		}
	}

	for _, r := range batch.Recruitment {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" || r.Week <= 0 || r.Year <= 0 {
			dropped[model.RecordRecruitment]++
			continue
		}
		noteRole(r.Role)
		weekID, personID, err := c.resolveWeekly(ctx, r.Year, r.Week, r.Name, r.Role)
		if err != nil {
			return err
		}
		if err := c.store.UpsertRecruitment(ctx, personID, weekID, r); err != nil {
			return err
		}
		c.count(report, model.RecordRecruitment)
		touched.Add(period.WeekKey(r.Year, r.Week))
	}

	for _, r := range batch.Sales {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" || r.Week <= 0 || r.Year <= 0 {
			dropped[model.RecordSales]++
			continue
		}
		noteRole(r.Role)
		weekID, personID, err := c.resolveWeekly(ctx, r.Year, r.Week, r.Name, r.Role)
		if err != nil {
			return err
		}
		if err := c.store.UpsertSales(ctx, personID, weekID, r); err != nil {
			return err
		}
		c.count(report, model.RecordSales)
		touched.Add(period.WeekKey(r.Year, r.Week))
	}

	for _, r := range batch.HitRatio {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" || r.Month <= 0 || r.Year <= 0 {
			dropped[model.RecordHitRatio]++
			continue
		}
		personID, err := c.store.ResolvePerson(ctx, r.Name, string(identity.RoleDeliveryLead))
		if err != nil {
			return err
		}
		ratio := calculator.StoredHitRatio(r.Placements, r.ClosedRequests, r.SuppliedRatio)
		if err := c.store.UpsertHitRatio(ctx, personID, r, ratio); err != nil {
			return err
		}
		c.count(report, model.RecordHitRatio)
		touched.Add(period.MonthKey(r.Year, r.Month))
	}

	for _, r := range batch.BoardMath {
		r.Code = strings.TrimSpace(r.Code)
		if r.Code == "" || r.Month <= 0 || r.Year <= 0 {
			dropped[model.RecordBoardMath]++
			continue
		}
		if err := c.store.UpsertBoardMeasurement(ctx, r); err != nil {
			return err
		}
		c.count(report, model.RecordBoardMath)
		touched.Add(period.MonthKey(r.Year, r.Month))
	}

	for _, r := range batch.BoardNotes {
		r.Code = strings.TrimSpace(r.Code)
		if r.Code == "" || r.Month <= 0 || r.Year <= 0 {
			dropped[model.RecordBoardDescriptive]++
			continue
		}
		r.Status = parser.NormalizeStatus(r.Status)
		if err := c.store.UpsertBoardNote(ctx, r); err != nil {
			return err
		}
		c.count(report, model.RecordBoardDescriptive)
		touched.Add(period.MonthKey(r.Year, r.Month))
	}

	for _, r := range batch.PrepCalls {
		r.Name = strings.TrimSpace(r.Name)
		day, err := time.Parse("2006-01-02", r.Date)
		if r.Name == "" || err != nil {
			dropped[model.RecordPrepCalls]++
			continue
		}
		personID, err := c.store.ResolvePerson(ctx, r.Name, string(identity.RoleDeliveryLead))
		if err != nil {
			return err
		}
		if err := c.store.UpsertPrepCall(ctx, personID, r); err != nil {
			return err
		}
		c.count(report, model.RecordPrepCalls)
		touched.Add(period.MonthKey(day.Year(), int(day.Month())))
	}

	for _, kind := range model.RecordTypes {
		if n := dropped[kind]; n > 0 {
			report.Dropped += n
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s: dropped %d records missing %s", kind, n, requiredFields(kind)))
		}
	}
	if len(unknownRoles) > 0 {
		report.Warnings = append(report.Warnings,
			"unrecognized roles kept as written: "+strings.Join(slices.Sorted(maps.Keys(unknownRoles)), ", "))
	}
	return nil
}

func (c *Coordinator) resolveWeekly(ctx context.Context, year, week int, name, role string) (weekID, personID int64, err error) {
	weekID, err = c.store.ResolveWeek(ctx, year, week)
	if err != nil {
		return 0, 0, err
	}
	personID, err = c.store.ResolvePerson(ctx, name, role)
	if err != nil {
		return 0, 0, err
	}
	return weekID, personID, nil
}

func (c *Coordinator) count(report *Report, kind model.RecordType) {
	report.Imported++
	report.ByType[kind]++
}

func requiredFields(kind model.RecordType) string {
	switch kind {
	case model.RecordRecruitment, model.RecordSales:
		return "name or week"
	case model.RecordHitRatio:
		return "name or month"
	case model.RecordPrepCalls:
		return "name or date"
	}
	return "code or month"
}
