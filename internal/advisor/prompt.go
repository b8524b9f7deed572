package advisor

import (
	"fmt"
	"strings"

	"github.com/artur-t-96/MINDY/internal/calculator"
)

const (
	personaRecruitment = "MINDY, the Body Leasing assistant"
	personaSales       = "INFRON, the Sales assistant"
	personaBoard       = "MINDY, the board reporting assistant"
)

const instructions = `Write a short analysis (at most 120 words):
1. What is going well (at most 2 points)
2. What needs attention (at most 2 points)
3. One recommendation
Use emoji.`

func finish(sb *strings.Builder, persona string) string {
	fmt.Fprintf(sb, "\nYou are %s.\n%s", persona, instructions)
	return sb.String()
}

func writeTeamTargets(sb *strings.Builder, tt calculator.TeamTargets) {
	for _, t := range tt.Items {
		fmt.Fprintf(sb, "Team %s: %g of %g (%g%%, %d x %s)\n",
			t.KPI, t.Actual, t.Target, t.Attainment, t.Headcount, t.Role)
	}
}

// RecruitmentPrompt describes one recruitment week.
func RecruitmentPrompt(v *calculator.RecruitmentView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BODY LEASING - Week %d/%d\n", v.Week, v.Year)
	for _, r := range v.Rows {
		fmt.Fprintf(&sb, "- %s (%s): Verifications:%d, Recommendations:%d, CVs:%d, Placements:%d, Days:%g\n",
			r.Name, r.Role, r.Verifications, r.Recommendations, r.CVsAdded, r.Placements, r.WorkingDays)
	}
	for _, h := range v.HitRatios {
		fmt.Fprintf(&sb, "- %s hit ratio in month %d: %d%% (%d/%d)\n",
			h.Name, h.Month, h.HitRatio, h.Placements, h.ClosedRequests)
	}
	writeTeamTargets(&sb, v.TeamTargets)
	return finish(&sb, personaRecruitment)
}

// SalesPrompt describes one sales week.
func SalesPrompt(v *calculator.SalesView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SALES - Week %d/%d\n", v.Week, v.Year)
	for _, r := range v.Rows {
		fmt.Fprintf(&sb, "- %s (%s): MRR:%g PLN, Offers:%d, Leads:%d, Placements:%d\n",
			r.Name, r.Role, r.MRR, r.Offers, r.Leads, r.Placements)
	}
	writeTeamTargets(&sb, v.TeamTargets)
	return finish(&sb, personaSales)
}

// BoardPrompt describes one board month.
func BoardPrompt(v *calculator.BoardView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BOARD KPIs - Month %d/%d\n", v.Month, v.Year)
	for _, ind := range v.Indicators {
		when := "month"
		if ind.Week > 0 {
			when = fmt.Sprintf("week %d", ind.Week)
		}
		fmt.Fprintf(&sb, "- %s %s (%s): %g, attainment %g%% [%s]\n",
			ind.Code, ind.Name, when, ind.Value, ind.Attainment, ind.Status)
	}
	for _, n := range v.Notes {
		fmt.Fprintf(&sb, "- %s [%s]: %s\n", n.Code, n.Status, n.Description)
	}
	for _, h := range v.HitRatios {
		fmt.Fprintf(&sb, "- %s hit ratio: %d%% (target %g%%)\n", h.Name, h.HitRatio, v.HitRatioTarget)
	}
	if len(v.PrepCalls) > 0 {
		fmt.Fprintf(&sb, "Prep calls: %d, complete %g%%\n", len(v.PrepCalls), v.PrepCallCompletion)
	}
	return finish(&sb, personaBoard)
}

// fallbackSummary is the local summary shown when generation fails.
func fallbackSummary(label string, people int, tt calculator.TeamTargets) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d people reported.", label, people)
	var best, worst *calculator.TeamTarget
	for i := range tt.Items {
		t := &tt.Items[i]
		if t.Target == 0 {
			continue
		}
		if best == nil || t.Attainment > best.Attainment {
			best = t
		}
		if worst == nil || t.Attainment < worst.Attainment {
			worst = t
		}
	}
	if best != nil {
		fmt.Fprintf(&sb, " Best: %s at %g%% of target.", best.KPI, best.Attainment)
	}
	if worst != nil && worst != best {
		fmt.Fprintf(&sb, " Needs attention: %s at %g%% of target.", worst.KPI, worst.Attainment)
	}
	return sb.String()
}

func boardFallback(v *calculator.BoardView) string {
	counts := map[string]int{}
	for _, ind := range v.Indicators {
		counts[ind.Status]++
	}
	return fmt.Sprintf("Month %d/%d: %d measured KPIs (%d green, %d yellow, %d red), %d notes.",
		v.Month, v.Year, len(v.Indicators), counts["green"], counts["yellow"], counts["red"], len(v.Notes))
}
