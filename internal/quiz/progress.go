package quiz

import (
	"errors"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

// ErrDegenerateSession marks a zero-question summary. Callers treat it as
// a no-op: a degenerate session must not corrupt the running average.
var ErrDegenerateSession = errors.New("session has zero questions")

// NewAggregate returns the empty progress aggregate. Also the result of a
// full reset ("clear all progress").
func NewAggregate() *model.ProgressAggregate {
	return &model.ProgressAggregate{
		CategoryStats: make(map[string]*model.CategoryStats),
	}
}

// RecordSession folds a completed session summary into the aggregate.
//
// The top-level average is an online running mean over session-level
// percentages: avg' = (avg*n + p) / (n+1). Each prior session carries
// equal weight 1 regardless of its length. Do not replace this with a
// global correct/total ratio: that is a materially different metric and
// would break continuity with previously persisted aggregates.
func RecordSession(agg *model.ProgressAggregate, summary model.SessionSummary) error {
	if summary.TotalQuestions == 0 {
		return ErrDegenerateSession
	}
	if agg.CategoryStats == nil {
		agg.CategoryStats = make(map[string]*model.CategoryStats)
	}

	sessionPercent := 100 * float64(summary.Score) / float64(summary.TotalQuestions)

	prior := agg.TotalSessions
	agg.TotalSessions = prior + 1
	agg.AverageScorePercent = (agg.AverageScorePercent*float64(prior) + sessionPercent) / float64(agg.TotalSessions)
	agg.TotalTimeSpentSeconds += summary.TimeSpentSeconds

	stats, ok := agg.CategoryStats[summary.Category]
	if !ok {
		stats = &model.CategoryStats{}
		agg.CategoryStats[summary.Category] = stats
	}
	stats.Sessions++
	stats.TotalQuestions += summary.TotalQuestions
	stats.CorrectAnswers += summary.Score
	stats.TimeSpentSeconds += summary.TimeSpentSeconds
	// True ratio, recomputed every fold. Intentionally not the running
	// mean used for the top-level average.
	stats.AccuracyPercent = 100 * float64(stats.CorrectAnswers) / float64(stats.TotalQuestions)

	return nil
}
