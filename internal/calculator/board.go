package calculator

import (
	"context"

	"github.com/artur-t-96/MINDY/internal/model"
)

// Cadence of a board KPI.
const (
	CadenceWeekly      = "week"
	CadenceMonthly     = "month"
	CadenceDescriptive = "descriptive"
)

// KPIDefinition describes one board-level KPI.
type KPIDefinition struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Target  float64 `json:"target,omitempty"`
	Cadence string  `json:"cadence"`
}

// BoardDefinitions is the board KPI catalogue.
var BoardDefinitions = []KPIDefinition{
	{Code: "TD-01", Name: "Sourcer Daily Verification Amount", Target: 20, Cadence: CadenceWeekly},
	{Code: "TD-02", Name: "Job Post Coverage", Target: 80, Cadence: CadenceWeekly},
	{Code: "TD-03", Name: "Recruiter Weekly New CV Upload", Target: 25, Cadence: CadenceWeekly},
	{Code: "CS-02", Name: "Technical Verification Rate", Target: 90, Cadence: CadenceMonthly},
	{Code: "CS-03", Name: "Champion Advertisement Rate", Target: 50, Cadence: CadenceMonthly},
	{Code: "CS-04", Name: "Candidate Follow-up Frequency", Target: 100, Cadence: CadenceMonthly},
	{Code: "IM-02", Name: "Prep Call Completion Rate", Target: 95, Cadence: CadenceMonthly},
	{Code: "IM-05", Name: "Feedback After Interview", Target: 80, Cadence: CadenceMonthly},
	{Code: "DL-HR", Name: "DL Hit Ratio", Target: 30, Cadence: CadenceMonthly},
	{Code: "DD-01", Name: "Profile Completion Rate", Cadence: CadenceDescriptive},
	{Code: "CS-01", Name: "Rejection Justification Timeliness", Cadence: CadenceDescriptive},
}

// Definition looks up a KPI code in the catalogue.
func Definition(code string) (KPIDefinition, bool) {
	for _, d := range BoardDefinitions {
		if d.Code == code {
			return d, true
		}
	}
	return KPIDefinition{}, false
}

// Indicator is a board measurement with its attainment.
type Indicator struct {
	model.BoardMeasurement
	Name       string  `json:"name"`
	Attainment float64 `json:"attainment"`
	Status     string  `json:"status"`
}

// BoardView is the board dashboard for one month.
type BoardView struct {
	Year               int                 `json:"year"`
	Month              int                 `json:"month"`
	Indicators         []Indicator         `json:"indicators"`
	Notes              []model.BoardNote   `json:"notes"`
	HitRatios          []model.HitRatioRow `json:"hitRatio"`
	HitRatioTarget     float64             `json:"hitRatioTarget"`
	PrepCalls          []model.PrepCall    `json:"prepCalls"`
	PrepCallCompletion float64             `json:"prepCallCompletion"`
	Definitions        []KPIDefinition     `json:"kpiDefinitions"`
}

// Status thresholds on attainment percent.
const (
	greenFrom  = 100
	yellowFrom = 80
)

// TrafficLight classifies an attainment percentage.
func TrafficLight(attainment float64) string {
	switch {
	case attainment >= greenFrom:
		return "green"
	case attainment >= yellowFrom:
		return "yellow"
	}
	return "red"
}

// NewIndicator computes attainment against the row target, or the
// catalogue target when the row carries none.
func NewIndicator(m model.BoardMeasurement) Indicator {
	ind := Indicator{BoardMeasurement: m}
	def, ok := Definition(m.Code)
	if ok {
		ind.Name = def.Name
	}
	target := m.Target
	if target == 0 && ok {
		target = def.Target
	}
	ind.Attainment = Percent(m.Value, target)
	ind.Status = TrafficLight(ind.Attainment)
	return ind
}

// PrepCallCompletion is the percentage of calls with every checklist item
// done. Calls with an empty checklist count as incomplete.
func PrepCallCompletion(calls []model.PrepCall) float64 {
	if len(calls) == 0 {
		return 0
	}
	done := 0
	for _, c := range calls {
		if len(c.Checklist) == 0 {
			continue
		}
		complete := true
		for _, ok := range c.Checklist {
			if !ok {
				complete = false
				break
			}
		}
		if complete {
			done++
		}
	}
	return Percent(float64(done), float64(len(calls)))
}

// BoardView builds the board dashboard of (year, month).
func (c *Calculator) BoardView(ctx context.Context, year, month int) (*BoardView, error) {
	v := &BoardView{Year: year, Month: month, Definitions: BoardDefinitions}

	measurements, err := c.store.ListBoardMeasurements(ctx, year, month)
	if err != nil {
		return nil, err
	}
	v.Indicators = make([]Indicator, 0, len(measurements))
	for _, m := range measurements {
		v.Indicators = append(v.Indicators, NewIndicator(m))
	}

	if v.Notes, err = c.store.ListBoardNotes(ctx, year, month); err != nil {
		return nil, err
	}
	if v.HitRatios, err = c.store.ListHitRatios(ctx, year, month); err != nil {
		return nil, err
	}
	targets, err := c.store.ListTargets(ctx)
	if err != nil {
		return nil, err
	}
	if t, ok := LatestTarget(targets, model.KPIHitRatio); ok {
		v.HitRatioTarget = t.Value
	}
	if v.PrepCalls, err = c.store.ListPrepCalls(ctx, year, month); err != nil {
		return nil, err
	}
	v.PrepCallCompletion = PrepCallCompletion(v.PrepCalls)
	return v, nil
}
