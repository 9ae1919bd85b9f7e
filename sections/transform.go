// sections/transform.go
package sections

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
)

// ValidationError carries a stable machine-readable code (e.g.
// invalid_loan_amount) alongside the human message. Handlers map these to 400
// responses.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransformFunc pre-processes a section payload before storage. Transforms
// must be idempotent: applying one twice yields the same stored shape as once.
type TransformFunc func(payload interface{}) (interface{}, error)

var transforms = map[Section]TransformFunc{
	DDForm:      transformDDForm,
	LoanRequest: transformLoanRequest,
}

// Apply runs the section's registered transform, if any. Sections without a
// transform store their payload wholesale.
func Apply(section Section, payload interface{}) (interface{}, error) {
	fn, ok := transforms[section]
	if !ok {
		return payload, nil
	}
	return fn(payload)
}

// HasTransform reports whether a section registers a transform.
func HasTransform(section Section) bool {
	_, ok := transforms[section]
	return ok
}

// transformDDForm coerces the named financial fields to numbers and
// restructures the documents list into the stored attachment shape. Both
// steps leave already-transformed payloads untouched.
func transformDDForm(payload interface{}) (interface{}, error) {
	m := asMap(payload)
	if m == nil {
		return payload, nil
	}

	if fin := asMap(m["financialInformation"]); fin != nil {
		m["financialInformation"] = bson.M{
			"annualRevenue": toFloat(fin["annualRevenue"]),
			"profitMargin":  toFloat(fin["profitMargin"]),
			"debtRatio":     toFloat(fin["debtRatio"]),
			"cashFlow":      toFloat(fin["cashFlow"]),
		}
	}

	if docs := asList(m["documents"]); docs != nil {
		restructured := make([]interface{}, 0, len(docs))
		for _, d := range docs {
			doc := asMap(d)
			if doc == nil {
				continue
			}
			name := toString(doc["filename"])
			if name == "" {
				name = toString(doc["fileName"])
			}
			originalName := toString(doc["originalName"])
			if originalName == "" {
				originalName = name
			}
			path := toString(doc["path"])
			if path == "" {
				path = toString(doc["fileLink"])
			}
			uploadedAt := doc["uploadedAt"]
			if uploadedAt == nil {
				uploadedAt = time.Now().UTC()
			}
			restructured = append(restructured, bson.M{
				"type":         toString(doc["type"]),
				"filename":     name,
				"originalName": originalName,
				"mimetype":     "application/pdf",
				"size":         toFloat(doc["size"]),
				"path":         path,
				"uploadedAt":   uploadedAt,
			})
		}
		m["documents"] = restructured
	}

	return m, nil
}

// loanRequestInput mirrors the loan request form fields with their gating
// rules. Amount, ROI and tenure must all be strictly positive.
type loanRequestInput struct {
	LoanAmountRequired float64 `validate:"gt=0"`
	ExpectedROI        float64 `validate:"gt=0"`
	Tenure             float64 `validate:"gt=0"`
	TenureUnit         string  `validate:"omitempty,oneof=months years"`
}

var validate = validator.New()

// transformLoanRequest validates the loan request fields, stamps the section
// submitted, and normalizes numerics. Validation failures carry field-specific
// error codes rather than a generic one.
func transformLoanRequest(payload interface{}) (interface{}, error) {
	m := asMap(payload)
	if m == nil {
		return nil, &ValidationError{Code: "invalid_payload", Message: "loan request body must be an object"}
	}

	input := loanRequestInput{
		LoanAmountRequired: toFloat(m["loanAmountRequired"]),
		ExpectedROI:        toFloat(m["expectedROI"]),
		Tenure:             toFloat(m["tenure"]),
		TenureUnit:         toString(m["tenureUnit"]),
	}

	if err := validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return nil, loanRequestFieldError(errs[0])
		}
		return nil, &ValidationError{Code: "invalid_payload", Message: err.Error()}
	}

	tenureUnit := input.TenureUnit
	if tenureUnit == "" {
		tenureUnit = "months"
	}

	submittedAt := m["submittedAt"]
	if submittedAt == nil {
		submittedAt = time.Now().UTC()
	}

	return bson.M{
		"loanAmountRequired": input.LoanAmountRequired,
		"expectedROI":        input.ExpectedROI,
		"tenure":             input.Tenure,
		"tenureUnit":         tenureUnit,
		"loanType":           toString(m["loanType"]),
		"loanPurpose":        toString(m["loanPurpose"]),
		"status":             "submitted",
		"submittedAt":        submittedAt,
	}, nil
}

func loanRequestFieldError(fe validator.FieldError) *ValidationError {
	switch fe.Field() {
	case "LoanAmountRequired":
		return &ValidationError{Code: "invalid_loan_amount", Message: "loan amount must be greater than 0"}
	case "ExpectedROI":
		return &ValidationError{Code: "invalid_roi", Message: "expected ROI must be greater than 0"}
	case "Tenure":
		return &ValidationError{Code: "invalid_tenure", Message: "tenure must be greater than 0"}
	case "TenureUnit":
		return &ValidationError{Code: "invalid_tenure_unit", Message: "tenure unit must be months or years"}
	default:
		return &ValidationError{Code: "invalid_payload", Message: fmt.Sprintf("invalid field %s", fe.Field())}
	}
}

// ==== payload coercion helpers ====

func asMap(v interface{}) bson.M {
	switch m := v.(type) {
	case bson.M:
		return m
	case map[string]interface{}:
		return bson.M(m)
	case bson.D:
		return m.Map()
	default:
		return nil
	}
}

func asList(v interface{}) []interface{} {
	switch l := v.(type) {
	case bson.A:
		return []interface{}(l)
	case []interface{}:
		return l
	default:
		return nil
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
