package sections

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestApplyPassthrough(t *testing.T) {
	payload := bson.M{"companyName": "Acme Industries"}
	out, err := Apply(Information, payload)
	require.NoError(t, err)
	assert.Equal(t, payload, out)

	assert.False(t, HasTransform(Information))
	assert.True(t, HasTransform(DDForm))
	assert.True(t, HasTransform(LoanRequest))
}

func TestDDFormCoercesFinancials(t *testing.T) {
	payload := bson.M{
		"financialInformation": bson.M{
			"annualRevenue": "150000",
			"profitMargin":  "12.5",
			"debtRatio":     0.4,
			"cashFlow":      25000,
		},
	}

	out, err := Apply(DDForm, payload)
	require.NoError(t, err)

	fin := out.(bson.M)["financialInformation"].(bson.M)
	assert.Equal(t, 150000.0, fin["annualRevenue"])
	assert.Equal(t, 12.5, fin["profitMargin"])
	assert.Equal(t, 0.4, fin["debtRatio"])
	assert.Equal(t, 25000.0, fin["cashFlow"])
}

func TestDDFormUnparseableNumberBecomesZero(t *testing.T) {
	payload := bson.M{
		"financialInformation": bson.M{"annualRevenue": "not a number"},
	}
	out, err := Apply(DDForm, payload)
	require.NoError(t, err)

	fin := out.(bson.M)["financialInformation"].(bson.M)
	assert.Equal(t, 0.0, fin["annualRevenue"])
}

func TestDDFormRestructuresDocuments(t *testing.T) {
	payload := bson.M{
		"documents": []interface{}{
			bson.M{
				"type":     "incorporation",
				"fileName": "cert.pdf",
				"fileLink": "/uploads/cert.pdf",
			},
		},
	}

	out, err := Apply(DDForm, payload)
	require.NoError(t, err)

	docs := out.(bson.M)["documents"].([]interface{})
	require.Len(t, docs, 1)
	doc := docs[0].(bson.M)
	assert.Equal(t, "incorporation", doc["type"])
	assert.Equal(t, "cert.pdf", doc["filename"])
	assert.Equal(t, "cert.pdf", doc["originalName"])
	assert.Equal(t, "application/pdf", doc["mimetype"])
	assert.Equal(t, "/uploads/cert.pdf", doc["path"])
	assert.NotNil(t, doc["uploadedAt"])
}

func TestDDFormIdempotent(t *testing.T) {
	payload := bson.M{
		"financialInformation": bson.M{
			"annualRevenue": "150000",
			"profitMargin":  "12.5",
		},
		"documents": []interface{}{
			bson.M{
				"type":     "incorporation",
				"fileName": "cert.pdf",
				"fileLink": "/uploads/cert.pdf",
			},
		},
	}

	once, err := Apply(DDForm, payload)
	require.NoError(t, err)
	twice, err := Apply(DDForm, once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestDDFormNonObjectPassthrough(t *testing.T) {
	out, err := Apply(DDForm, "not an object")
	require.NoError(t, err)
	assert.Equal(t, "not an object", out)
}

func TestLoanRequestValid(t *testing.T) {
	payload := bson.M{
		"loanAmountRequired": 500000.0,
		"expectedROI":        12.0,
		"tenure":             24.0,
		"loanType":           "working_capital",
		"loanPurpose":        "inventory",
	}

	out, err := Apply(LoanRequest, payload)
	require.NoError(t, err)

	m := out.(bson.M)
	assert.Equal(t, 500000.0, m["loanAmountRequired"])
	assert.Equal(t, 12.0, m["expectedROI"])
	assert.Equal(t, 24.0, m["tenure"])
	assert.Equal(t, "months", m["tenureUnit"])
	assert.Equal(t, "working_capital", m["loanType"])
	assert.Equal(t, "submitted", m["status"])
	assert.NotNil(t, m["submittedAt"])
}

func TestLoanRequestFieldCodes(t *testing.T) {
	base := func() bson.M {
		return bson.M{
			"loanAmountRequired": 500000.0,
			"expectedROI":        12.0,
			"tenure":             24.0,
		}
	}

	tests := []struct {
		name     string
		mutate   func(bson.M)
		wantCode string
	}{
		{"zero amount", func(m bson.M) { m["loanAmountRequired"] = 0 }, "invalid_loan_amount"},
		{"negative amount", func(m bson.M) { m["loanAmountRequired"] = -1 }, "invalid_loan_amount"},
		{"missing amount", func(m bson.M) { delete(m, "loanAmountRequired") }, "invalid_loan_amount"},
		{"zero roi", func(m bson.M) { m["expectedROI"] = 0 }, "invalid_roi"},
		{"zero tenure", func(m bson.M) { m["tenure"] = 0 }, "invalid_tenure"},
		{"bad tenure unit", func(m bson.M) { m["tenureUnit"] = "decades" }, "invalid_tenure_unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := base()
			tt.mutate(payload)
			_, err := Apply(LoanRequest, payload)
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantCode, ve.Code)
		})
	}
}

func TestLoanRequestPreservesSubmittedAt(t *testing.T) {
	original := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := bson.M{
		"loanAmountRequired": 500000.0,
		"expectedROI":        12.0,
		"tenure":             24.0,
		"submittedAt":        original,
	}

	out, err := Apply(LoanRequest, payload)
	require.NoError(t, err)
	assert.Equal(t, original, out.(bson.M)["submittedAt"])
}

func TestLoanRequestIdempotent(t *testing.T) {
	payload := bson.M{
		"loanAmountRequired": 500000.0,
		"expectedROI":        12.0,
		"tenure":             24.0,
		"tenureUnit":         "years",
	}

	once, err := Apply(LoanRequest, payload)
	require.NoError(t, err)
	twice, err := Apply(LoanRequest, once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestLoanRequestNonObject(t *testing.T) {
	_, err := Apply(LoanRequest, []interface{}{"x"})
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "invalid_payload", ve.Code)
}

func TestLoanRequestStringNumbersAccepted(t *testing.T) {
	payload := bson.M{
		"loanAmountRequired": "500000",
		"expectedROI":        "12",
		"tenure":             "24",
	}

	out, err := Apply(LoanRequest, payload)
	require.NoError(t, err)
	assert.Equal(t, 500000.0, out.(bson.M)["loanAmountRequired"])
}
