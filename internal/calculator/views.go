package calculator

import (
	"context"
	"errors"

	"github.com/artur-t-96/MINDY/internal/identity"
	"github.com/artur-t-96/MINDY/internal/model"
	"github.com/artur-t-96/MINDY/internal/period"
	"github.com/artur-t-96/MINDY/internal/store"
)

// RecruitmentView is the recruitment dashboard for one week.
type RecruitmentView struct {
	Year        int                    `json:"year"`
	Week        int                    `json:"week"`
	Month       int                    `json:"month"`
	Rows        []model.RecruitmentRow `json:"current"`
	HitRatios   []model.HitRatioRow    `json:"hitRatio"`
	Averages    []RecruitmentAverage   `json:"average"`
	Targets     []model.Target         `json:"targets"`
	TeamTargets TeamTargets            `json:"teamTargets"`
	Weeks       []period.Week          `json:"weeks"`
	Narrative   *model.Narrative       `json:"narrative"`
}

// SalesView is the sales dashboard for one week.
type SalesView struct {
	Year        int              `json:"year"`
	Week        int              `json:"week"`
	Rows        []model.SalesRow `json:"current"`
	Averages    []SalesAverage   `json:"average"`
	Targets     []model.Target   `json:"targets"`
	TeamTargets TeamTargets      `json:"teamTargets"`
	Weeks       []period.Week    `json:"weeks"`
	Narrative   *model.Narrative `json:"narrative"`
}

// DefaultWeek returns the current ISO week, used when a caller omits one.
func (c *Calculator) DefaultWeek() period.Week {
	return period.Current(c.now())
}

// RecruitmentView builds the recruitment dashboard of (year, week). Hit
// ratios come from the month the week approximately falls in.
func (c *Calculator) RecruitmentView(ctx context.Context, year, week int) (*RecruitmentView, error) {
	v := &RecruitmentView{Year: year, Week: week, Month: period.MonthForWeek(week)}

	var err error
	if v.Rows, err = c.store.ListRecruitment(ctx, year, week); err != nil {
		return nil, err
	}
	if v.HitRatios, err = c.store.ListHitRatios(ctx, year, v.Month); err != nil {
		return nil, err
	}
	totals, err := c.store.RecruitmentTotals(ctx)
	if err != nil {
		return nil, err
	}
	v.Averages = RecruitmentAverages(totals)
	if v.Targets, err = c.store.ListTargets(ctx); err != nil {
		return nil, err
	}
	v.TeamTargets = RecruitmentTeamTargets(v.Rows, v.Targets)
	if v.Weeks, err = c.store.ListWeeks(ctx, 100); err != nil {
		return nil, err
	}
	if v.Narrative, err = c.narrative(ctx, identity.DepartmentRecruitment, period.WeekKey(year, week)); err != nil {
		return nil, err
	}
	return v, nil
}

// SalesView builds the sales dashboard of (year, week).
func (c *Calculator) SalesView(ctx context.Context, year, week int) (*SalesView, error) {
	v := &SalesView{Year: year, Week: week}

	var err error
	if v.Rows, err = c.store.ListSales(ctx, year, week); err != nil {
		return nil, err
	}
	totals, err := c.store.SalesTotals(ctx)
	if err != nil {
		return nil, err
	}
	v.Averages = SalesAverages(totals)
	if v.Targets, err = c.store.ListTargets(ctx); err != nil {
		return nil, err
	}
	v.TeamTargets = SalesTeamTargets(v.Rows, v.Targets)
	if v.Weeks, err = c.store.ListWeeks(ctx, 100); err != nil {
		return nil, err
	}
	if v.Narrative, err = c.narrative(ctx, identity.DepartmentSales, period.WeekKey(year, week)); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Calculator) narrative(ctx context.Context, dept identity.Department, key period.Key) (*model.Narrative, error) {
	n, err := c.store.LatestNarrative(ctx, string(dept), key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
