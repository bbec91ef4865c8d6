package assessment

import (
	"math"
	"sort"
)

// Scoring weights and thresholds. The general set contributes 40% and the
// role set 60%; category performance of 70%+ is a strength and 30%- a
// weakness, with the band between intentionally in neither list.
const (
	generalWeight      = 0.4
	roleWeight         = 0.6
	strengthThreshold  = 0.7
	weaknessThreshold  = 0.3
	floorRate          = 55
	maxRecommendations = 5
)

// curve remaps a raw correctness ratio onto the published band. The lower
// half of the raw range lands on [0.55, 0.75] and the upper half on
// (0.75, 0.90], so the reported rate never drops below 55% and the top end
// compresses toward 90%.
func curve(score float64) float64 {
	if score <= 0.5 {
		return 0.55 + score*0.4
	}
	return 0.75 + (score-0.5)*(0.15/0.5)
}

// Score turns the recorded answers for the selected role into a
// ResultSnapshot. It is pure: same answers, role, and catalog always yield
// an identical snapshot, and nothing it reads is mutated.
//
// Denominators are full catalog set sizes, not answered counts — an absent
// answer scores the same as an explicit "no". The stage controller refuses
// to reach scoring with unanswered questions, so that distinction only
// matters if Score is called directly.
func Score(answers AnswerSet, role Role, c *Catalog) (ResultSnapshot, error) {
	if role == "" {
		return ResultSnapshot{}, ErrNoRoleSelected
	}
	roleQs, ok := c.Roles[role]
	if !ok {
		return ResultSnapshot{}, ErrUnknownRole
	}

	generalScore := ratioTrue(answers.General, c.General)
	roleScore := ratioTrue(answers.RoleSpecific, roleQs)

	weighted := curve(generalScore)*generalWeight + curve(roleScore)*roleWeight
	rate := int(math.Round(weighted * 100))
	if rate < floorRate {
		rate = floorRate
	}

	// Per-category tallies across both sets, in catalog encounter order so
	// the emitted strength/weakness lists are deterministic.
	type tally struct{ total, correct int }
	stats := map[string]*tally{}
	var order []string
	var recs []Recommendation

	walk := func(qs []Question, answered map[string]bool, roleSpecific bool) {
		for _, q := range qs {
			t, ok := stats[q.Category]
			if !ok {
				t = &tally{}
				stats[q.Category] = t
				order = append(order, q.Category)
			}
			t.total++
			ans, present := answered[q.ID]
			switch {
			case present && ans:
				t.correct++
			case present && !ans:
				var course *Course
				if cd, ok := c.Courses[q.CourseRecommendation]; ok {
					course = &cd
				}
				recs = append(recs, Recommendation{
					QuestionID:   q.ID,
					QuestionText: q.Text,
					CourseName:   q.CourseRecommendation,
					Course:       course,
					RoleSpecific: roleSpecific,
				})
			}
		}
	}
	walk(c.General, answers.General, false)
	walk(roleQs, answers.RoleSpecific, true)

	strengths := []string{}
	weaknesses := []string{}
	for _, cat := range order {
		t := stats[cat]
		pct := float64(t.correct) / float64(t.total)
		if pct >= strengthThreshold {
			strengths = append(strengths, cat)
		} else if pct <= weaknessThreshold {
			weaknesses = append(weaknesses, cat)
		}
	}

	// Role-specific recommendations outrank general ones; ties keep
	// encounter order.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RoleSpecific && !recs[j].RoleSpecific
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	if recs == nil {
		recs = []Recommendation{}
	}

	return ResultSnapshot{
		SuccessRate:     rate,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Recommendations: recs,
	}, nil
}

// ratioTrue counts "yes" answers per catalog question, so ids outside the
// set can never push the raw ratio past 1.0 no matter what was recorded.
func ratioTrue(answered map[string]bool, qs []Question) float64 {
	yes := 0
	for _, q := range qs {
		if answered[q.ID] {
			yes++
		}
	}
	return float64(yes) / float64(len(qs))
}
