package calculator

import (
	"github.com/artur-t-96/MINDY/internal/identity"
	"github.com/artur-t-96/MINDY/internal/model"
)

// monthToWeek folds a monthly per-person target into a weekly view.
const monthToWeek = 4

// TeamTarget is the expected team total of one KPI for a week.
type TeamTarget struct {
	KPI        string  `json:"kpi"`
	Role       string  `json:"role"` // "all" for total headcount
	Headcount  int     `json:"headcount"`
	PerPerson  float64 `json:"perPerson"`
	Target     float64 `json:"target"`
	Actual     float64 `json:"actual"`
	Attainment float64 `json:"attainment"`
}

// TeamTargets holds the roster headcount and per-KPI team targets.
type TeamTargets struct {
	Headcount map[string]int `json:"headcount"`
	Total     int            `json:"total"`
	Items     []TeamTarget   `json:"items"`
}

// Get returns the team target of a KPI.
func (t TeamTargets) Get(kpi string) (TeamTarget, bool) {
	for _, it := range t.Items {
		if it.KPI == kpi {
			return it, true
		}
	}
	return TeamTarget{}, false
}

// LatestTarget picks the most recently inserted target of a KPI, whatever
// its role.
func LatestTarget(targets []model.Target, kpi string) (model.Target, bool) {
	var best model.Target
	found := false
	for _, t := range targets {
		if t.KPI == kpi && (!found || t.ID > best.ID) {
			best, found = t, true
		}
	}
	return best, found
}

// weeklyValue returns the per-person weekly value of a KPI target.
func weeklyValue(targets []model.Target, kpi string) float64 {
	t, ok := LatestTarget(targets, kpi)
	if !ok {
		return 0
	}
	if t.PeriodUnit == "month" {
		return t.Value / monthToWeek
	}
	return t.Value
}

type teamKPI struct {
	kpi    string
	role   string // "" means total headcount
	actual float64
}

func buildTeamTargets(headcount map[string]int, total int, targets []model.Target, kpis []teamKPI) TeamTargets {
	out := TeamTargets{Headcount: headcount, Total: total}
	for _, k := range kpis {
		n, role := total, model.TargetRoleAll
		if k.role != "" {
			n, role = headcount[k.role], k.role
		}
		per := weeklyValue(targets, k.kpi)
		target := round(float64(n)*per, 2)
		out.Items = append(out.Items, TeamTarget{
			KPI:        k.kpi,
			Role:       role,
			Headcount:  n,
			PerPerson:  per,
			Target:     target,
			Actual:     k.actual,
			Attainment: Percent(k.actual, target),
		})
	}
	return out
}

// RecruitmentTeamTargets computes team targets for a week's recruitment
// roster. Verification and recommendation targets scale with Sourcers, CV
// targets with Recruiters, placements with the whole roster.
func RecruitmentTeamTargets(rows []model.RecruitmentRow, targets []model.Target) TeamTargets {
	headcount := make(map[string]int)
	var verif, reco, cvs, placements float64
	for _, r := range rows {
		headcount[r.Role]++
		verif += float64(r.Verifications)
		reco += float64(r.Recommendations)
		cvs += float64(r.CVsAdded)
		placements += float64(r.Placements)
	}
	return buildTeamTargets(headcount, len(rows), targets, []teamKPI{
		{kpi: model.KPIVerifications, role: string(identity.RoleSourcer), actual: verif},
		{kpi: model.KPIRecommendations, role: string(identity.RoleSourcer), actual: reco},
		{kpi: model.KPICVsAdded, role: string(identity.RoleRecruiter), actual: cvs},
		{kpi: model.KPIPlacements, actual: placements},
	})
}

// SalesTeamTargets computes team targets for a week's sales roster.
func SalesTeamTargets(rows []model.SalesRow, targets []model.Target) TeamTargets {
	headcount := make(map[string]int)
	var leads, offers, mrr float64
	for _, r := range rows {
		headcount[r.Role]++
		leads += float64(r.Leads)
		offers += float64(r.Offers)
		mrr += r.MRR
	}
	return buildTeamTargets(headcount, len(rows), targets, []teamKPI{
		{kpi: model.KPILeads, role: string(identity.RoleSDR), actual: leads},
		{kpi: model.KPIOffers, role: string(identity.RoleBDM), actual: offers},
		{kpi: model.KPIMRR, role: string(identity.RoleHeadOfTechnology), actual: mrr},
	})
}
