// sections/completion.go
package sections

import (
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnuragSingh014/castle-backend/models"
)

// Months is the fiscal-year order (April through March) used by investor
// dashboard vectors.
var Months = []string{"apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec", "jan", "feb", "mar"}

// Required input fields per investor dashboard half. Calculated metrics are
// excluded; completion measures what the investor actually entered.
var (
	RequiredCEOFields = []string{"revenue", "costOfGoodsSold", "operatingExpenses"}
	RequiredCFOFields = []string{"revenue", "costOfGoodsSold", "currentAssets", "currentLiabilities"}
)

// CompletionPercentage derives the 0-100 score from a dashboard's section
// payloads. Pure and deterministic: it is recomputed on every write, never
// cached.
func CompletionPercentage(stored map[string]interface{}) int {
	done := 0
	for _, s := range all {
		if Filled(stored[string(s)]) {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(all)) * 100))
}

// Filled reports whether a section payload counts toward completion: a
// non-empty trimmed string, a non-empty list, or an object with at least one
// property that is neither nil, empty string, nor an empty nested container.
func Filled(v interface{}) bool {
	switch data := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(data) != ""
	case bson.A:
		return len(data) > 0
	case []interface{}:
		return len(data) > 0
	case bson.M:
		return mapFilled(data)
	case map[string]interface{}:
		return mapFilled(data)
	case bson.D:
		return mapFilled(data.Map())
	default:
		return false
	}
}

func mapFilled(m map[string]interface{}) bool {
	for _, v := range m {
		if propertyFilled(v) {
			return true
		}
	}
	return false
}

// propertyFilled mirrors the per-property rule: nil and "" never count, and a
// nested container only counts when non-empty. Scalars (numbers, bools,
// timestamps) always count.
func propertyFilled(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bson.M:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	case bson.D:
		return len(val) > 0
	case bson.A:
		return len(val) > 0
	case []interface{}:
		return len(val) > 0
	case primitive.Null:
		return false
	default:
		return true
	}
}

// HalfCompletion computes one investor dashboard half's percentage over its
// required fields: one slot per (field, month), counted when the actual value
// for that month is present and non-zero.
func HalfCompletion(half models.DashboardHalf, required []string) int {
	total := len(required) * len(Months)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, field := range required {
		series, ok := half[field]
		if !ok {
			continue
		}
		for _, month := range Months {
			if series.Actual[month] != 0 {
				completed++
			}
		}
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// OverallCompletion combines the CEO and CFO halves.
func OverallCompletion(ceo, cfo int) int {
	return int(math.Round(float64(ceo+cfo) / 2))
}
