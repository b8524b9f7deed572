package model

// KPI names used by targets.
const (
	KPIVerifications   = "verifications"
	KPIRecommendations = "recommendations"
	KPICVsAdded        = "cvs_added"
	KPIPlacements      = "placements"
	KPIHitRatio        = "hit_ratio"
	KPILeads           = "leads"
	KPIOffers          = "offers"
	KPIMRR             = "mrr"
)

// TargetRoleAll marks a target that applies to every role.
const TargetRoleAll = "all"

// DefaultTargets is the target set seeded into an empty database.
var DefaultTargets = []Target{
	{Role: "Sourcer", KPI: KPIVerifications, Value: 20, PeriodUnit: "week"},
	{Role: "Sourcer", KPI: KPIRecommendations, Value: 15, PeriodUnit: "week"},
	{Role: "Recruiter", KPI: KPICVsAdded, Value: 25, PeriodUnit: "week"},
	{Role: TargetRoleAll, KPI: KPIPlacements, Value: 1, PeriodUnit: "month"},
	{Role: "DeliveryLead", KPI: KPIHitRatio, Value: 30, PeriodUnit: "month"},
	{Role: "SDR", KPI: KPILeads, Value: 10, PeriodUnit: "week"},
	{Role: "BDM", KPI: KPIOffers, Value: 1, PeriodUnit: "week"},
	{Role: "HeadOfTechnology", KPI: KPIMRR, Value: 4000, PeriodUnit: "week"},
}
