package models

import (
	"time"

	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
)

// Criterion is one of the five fixed evaluation dimensions.
type Criterion string

const (
	CriterionInnovation   Criterion = "innovation"
	CriterionTechnicality Criterion = "technicality"
	CriterionPresentation Criterion = "presentation"
	CriterionFeasibility  Criterion = "feasibility"
	CriterionImpact       Criterion = "impact"
)

// Criteria lists the dimensions in presentation order.
var Criteria = []Criterion{
	CriterionInnovation,
	CriterionTechnicality,
	CriterionPresentation,
	CriterionFeasibility,
	CriterionImpact,
}

const (
	minScore = 0
	maxScore = 10
)

// CriterionScores holds one judge's integer scores, each in [0,10].
type CriterionScores struct {
	Innovation   int `json:"innovation"`
	Technicality int `json:"technicality"`
	Presentation int `json:"presentation"`
	Feasibility  int `json:"feasibility"`
	Impact       int `json:"impact"`
}

// Validate checks every score is within range.
func (s CriterionScores) Validate() error {
	for criterion, score := range s.ByCriterion() {
		if score < minScore || score > maxScore {
			return dErrors.New(dErrors.CodeInvalidScore,
				string(criterion)+" score must be between 0 and 10")
		}
	}
	return nil
}

// ByCriterion exposes the scores as a map for aggregation.
func (s CriterionScores) ByCriterion() map[Criterion]int {
	return map[Criterion]int{
		CriterionInnovation:   s.Innovation,
		CriterionTechnicality: s.Technicality,
		CriterionPresentation: s.Presentation,
		CriterionFeasibility:  s.Feasibility,
		CriterionImpact:       s.Impact,
	}
}

// Mean is this rating's own five-criterion average.
func (s CriterionScores) Mean() float64 {
	total := s.Innovation + s.Technicality + s.Presentation + s.Feasibility + s.Impact
	return float64(total) / float64(len(Criteria))
}

// Rating is one judge's evaluation of one team.
//
// Invariants:
//   - at most one Rating exists per (judge, team) pair
//   - every criterion score is an integer in [0,10]
//   - a resubmission replaces the prior Rating; SubmittedAt is preserved,
//     UpdatedAt tracks the replacement
type Rating struct {
	JudgeID     id.JudgeID      `json:"judge_id"`
	TeamID      id.TeamID       `json:"team_id"`
	Scores      CriterionScores `json:"scores"`
	Comment     string          `json:"comment,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewRating(judgeID id.JudgeID, teamID id.TeamID, scores CriterionScores, comment string, now time.Time) (*Rating, error) {
	if err := scores.Validate(); err != nil {
		return nil, err
	}
	return &Rating{
		JudgeID:     judgeID,
		TeamID:      teamID,
		Scores:      scores,
		Comment:     comment,
		SubmittedAt: now,
		UpdatedAt:   now,
	}, nil
}

// AggregatedScore is the derived per-team view: per-criterion means, their
// overall mean, and how many judges contributed. Zero judges yields all
// zeros, never NaN, so downstream sorting stays total.
type AggregatedScore struct {
	TeamID     id.TeamID             `json:"team_id"`
	Criteria   map[Criterion]float64 `json:"criteria"`
	Overall    float64               `json:"overall"`
	JudgeCount int                   `json:"judge_count"`
}

// AggregateRatings computes the per-criterion and overall means for a team's
// ratings at a single point in time.
func AggregateRatings(teamID id.TeamID, ratings []*Rating) AggregatedScore {
	agg := AggregatedScore{
		TeamID:     teamID,
		Criteria:   make(map[Criterion]float64, len(Criteria)),
		JudgeCount: len(ratings),
	}
	for _, c := range Criteria {
		agg.Criteria[c] = 0
	}
	if len(ratings) == 0 {
		return agg
	}

	totals := make(map[Criterion]int, len(Criteria))
	for _, r := range ratings {
		for criterion, score := range r.Scores.ByCriterion() {
			totals[criterion] += score
		}
	}

	var overall float64
	for _, c := range Criteria {
		mean := float64(totals[c]) / float64(len(ratings))
		agg.Criteria[c] = mean
		overall += mean
	}
	agg.Overall = overall / float64(len(Criteria))
	return agg
}

// LeaderboardEntry is one ranked row. Rank is the 1-based position after
// sorting; ties still receive distinct sequential ranks.
type LeaderboardEntry struct {
	Rank       int                   `json:"rank"`
	TeamID     id.TeamID             `json:"team_id"`
	TeamName   string                `json:"team_name"`
	Overall    float64               `json:"overall"`
	JudgeCount int                   `json:"judge_count"`
	Criteria   map[Criterion]float64 `json:"criteria"`
}
