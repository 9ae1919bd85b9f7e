package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/AnuragSingh014/castle-backend/models"
)

func TestCompletionPercentageEmpty(t *testing.T) {
	assert.Equal(t, 0, CompletionPercentage(map[string]interface{}{}))
	assert.Equal(t, 0, CompletionPercentage(nil))
}

func TestCompletionPercentageSingleSection(t *testing.T) {
	stored := map[string]interface{}{
		"information": bson.M{"companyName": "Acme Industries"},
	}
	assert.Equal(t, 10, CompletionPercentage(stored))
}

func TestCompletionPercentageAllSections(t *testing.T) {
	stored := map[string]interface{}{}
	for _, s := range All() {
		stored[string(s)] = bson.M{"field": "value"}
	}
	assert.Equal(t, 100, CompletionPercentage(stored))
}

func TestCompletionMonotonic(t *testing.T) {
	stored := map[string]interface{}{}
	prev := 0
	for _, s := range All() {
		stored[string(s)] = bson.M{"field": "value"}
		got := CompletionPercentage(stored)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
	assert.Equal(t, 100, prev)
}

func TestFilled(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
		want    bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"whitespace string", "   ", false},
		{"string", "hello", true},
		{"empty list", []interface{}{}, false},
		{"list", []interface{}{1}, true},
		{"empty bson array", bson.A{}, false},
		{"bson array", bson.A{"x"}, true},
		{"empty object", bson.M{}, false},
		{"object with nil property", bson.M{"a": nil}, false},
		{"object with empty string property", bson.M{"a": ""}, false},
		{"object with empty nested object", bson.M{"a": bson.M{}}, false},
		{"object with empty nested list", bson.M{"a": []interface{}{}}, false},
		{"object with string property", bson.M{"a": "x"}, true},
		{"object with number property", bson.M{"a": 0}, true},
		{"object with bool property", bson.M{"a": false}, true},
		{"object with nested object", bson.M{"a": bson.M{"b": 1}}, true},
		{"bson.D document", bson.D{{Key: "a", Value: "x"}}, true},
		{"number payload", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filled(tt.payload))
		})
	}
}

func fullSeries() models.MetricSeries {
	actual := models.MonthlySeries{}
	for _, m := range Months {
		actual[m] = 100
	}
	return models.MetricSeries{Actual: actual}
}

func TestHalfCompletionFull(t *testing.T) {
	half := models.DashboardHalf{}
	for _, field := range RequiredCEOFields {
		half[field] = fullSeries()
	}
	assert.Equal(t, 100, HalfCompletion(half, RequiredCEOFields))
}

func TestHalfCompletionEmpty(t *testing.T) {
	assert.Equal(t, 0, HalfCompletion(models.DashboardHalf{}, RequiredCEOFields))
	assert.Equal(t, 0, HalfCompletion(nil, RequiredCFOFields))
}

func TestHalfCompletionPartial(t *testing.T) {
	// One required field fully entered out of three: 12 of 36 slots.
	half := models.DashboardHalf{
		"revenue": fullSeries(),
	}
	assert.Equal(t, 33, HalfCompletion(half, RequiredCEOFields))
}

func TestHalfCompletionZeroValuesDoNotCount(t *testing.T) {
	actual := models.MonthlySeries{}
	for _, m := range Months {
		actual[m] = 0
	}
	half := models.DashboardHalf{
		"revenue": {Actual: actual},
	}
	assert.Equal(t, 0, HalfCompletion(half, RequiredCEOFields))
}

func TestHalfCompletionIgnoresExtraMetrics(t *testing.T) {
	// Calculated metrics outside the required set never move the score.
	half := models.DashboardHalf{
		"grossProfit": fullSeries(),
	}
	assert.Equal(t, 0, HalfCompletion(half, RequiredCEOFields))
}

func TestOverallCompletion(t *testing.T) {
	assert.Equal(t, 0, OverallCompletion(0, 0))
	assert.Equal(t, 100, OverallCompletion(100, 100))
	assert.Equal(t, 50, OverallCompletion(100, 0))
	assert.Equal(t, 67, OverallCompletion(67, 67))
	assert.Equal(t, 84, OverallCompletion(100, 67))
}
