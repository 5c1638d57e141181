package repository

import (
	"testing"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

func TestDecodeAggregateCorruptValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage bytes", []byte("\x00\xffnot json at all")},
		{"truncated object", []byte(`{"total_sessions": 3, "category_stats": {"Kari`)},
		{"wrong type", []byte(`{"total_sessions": "three"}`)},
		{"empty value", []byte("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, err := decodeAggregate(tt.data)
			if err == nil {
				t.Fatal("expected a decode error")
			}
			if agg == nil {
				t.Fatal("corrupt value must still yield an aggregate")
			}
			if agg.TotalSessions != 0 || agg.AverageScorePercent != 0 {
				t.Fatalf("corrupt value yielded non-empty aggregate: %+v", agg)
			}
			if agg.CategoryStats == nil || len(agg.CategoryStats) != 0 {
				t.Fatalf("expected empty category map, got %v", agg.CategoryStats)
			}
		})
	}
}

func TestDecodeAggregateValidValue(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"total_sessions": 4,
		"average_score_percent": 75,
		"total_time_spent_seconds": 600,
		"category_stats": {
			"karimen": {"sessions": 4, "total_questions": 20, "correct_answers": 15, "accuracy_percent": 75, "time_spent_seconds": 600}
		}
	}`)

	agg, err := decodeAggregate(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if agg.TotalSessions != 4 || agg.AverageScorePercent != 75 {
		t.Fatalf("unexpected aggregate: %+v", agg)
	}
	stats, ok := agg.CategoryStats["karimen"]
	if !ok || stats.CorrectAnswers != 15 {
		t.Fatalf("unexpected category stats: %+v", agg.CategoryStats)
	}
}

func TestDecodeAggregateRepairsNilCategoryMap(t *testing.T) {
	t.Parallel()

	agg, err := decodeAggregate([]byte(`{"total_sessions": 1, "category_stats": null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if agg.CategoryStats == nil {
		t.Fatal("nil category map must be repaired")
	}
	agg.CategoryStats["honmen"] = &model.CategoryStats{Sessions: 1}
}
