package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnuragSingh014/castle-backend/models"
)

func acmeDashboard() *models.Dashboard {
	return &models.Dashboard{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Sections: map[string]interface{}{
			"information": bson.M{
				"companyName":   "Acme Industries",
				"companyType":   "Private Limited",
				"industry":      "Manufacturing",
				"foundedYear":   2015.0,
				"employeeCount": 250.0,
				"headquarters":  "Pune",
				"website":       "https://acme.example",
				"description":   "Industrial tooling",
				"contactInfo":   bson.M{"email": "hello@acme.example"},
			},
			"overview": bson.M{
				"businessOverview":    "B2B tooling manufacturer",
				"revenueStreams":      "Equipment sales, service contracts",
				"industryOverview":    "Fragmented market",
				"fundUtilization":     "Capacity expansion",
				"aboutPromoters":      "Two founders",
				"riskFactors":         "Input cost volatility",
				"ipoIntermediaries":   "None",
				"financialHighlights": bson.M{"fy24Revenue": 120000000.0},
				"peerAnalysis":        bson.M{"peers": bson.A{"Globex"}},
				"shareholding":        bson.M{"promoters": 72.5},
				"images":              []interface{}{"plant.jpg"},
			},
			"informationSheet": bson.M{"isin": "INE000000000"},
			"beneficialOwnerCertification": bson.M{
				"owners": []interface{}{bson.M{"name": "A. Founder", "stake": 40.0}},
			},
			"companyReferences": bson.M{
				"references": []interface{}{bson.M{"name": "First Bank"}},
			},
			"loanDetails": bson.M{
				"loans": []interface{}{bson.M{"lender": "First Bank", "amount": 5000000.0}},
			},
		},
	}
}

func TestBuildPublishedCompany(t *testing.T) {
	dashboard := acmeDashboard()
	got := BuildPublishedCompany(dashboard)

	assert.Equal(t, dashboard.UserID, got.OriginalUserID)
	assert.Equal(t, dashboard.ID, got.OriginalDashboardID)
	assert.True(t, got.IsActive)

	assert.Equal(t, "Acme Industries", got.CompanyInfo.CompanyName)
	assert.Equal(t, "Manufacturing", got.CompanyInfo.Industry)
	assert.Equal(t, 2015.0, got.CompanyInfo.FoundedYear)
	assert.Equal(t, 250.0, got.CompanyInfo.EmployeeCount)
	assert.Equal(t, "hello@acme.example", got.CompanyInfo.ContactInfo["email"])

	// The overview's businessOverview text becomes the business model field.
	assert.Equal(t, "B2B tooling manufacturer", got.BusinessOverview.BusinessModel)
	assert.Equal(t, "Equipment sales, service contracts", got.BusinessOverview.RevenueStreams)
	assert.Equal(t, "None", got.BusinessOverview.IPOIntermediaries)

	assert.Equal(t, 120000000.0, got.FinancialHighlights["fy24Revenue"])
	assert.Equal(t, bson.M{"promoters": 72.5}, got.Shareholding)
	require.Len(t, got.Images, 1)

	require.Len(t, got.BeneficialOwners, 1)
	owner := got.BeneficialOwners[0].(bson.M)
	assert.Equal(t, "A. Founder", owner["name"])

	require.Len(t, got.CompanyReferences, 1)
	require.Len(t, got.LoanDetails, 1)
	assert.Equal(t, bson.M{"isin": "INE000000000"}, got.InformationSheet)
}

func TestBuildPublishedCompanyEmptyDashboard(t *testing.T) {
	dashboard := &models.Dashboard{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
	}
	got := BuildPublishedCompany(dashboard)

	assert.Equal(t, "", got.CompanyInfo.CompanyName)
	assert.Equal(t, 0.0, got.CompanyInfo.FoundedYear)
	assert.Empty(t, got.BeneficialOwners)
	assert.Empty(t, got.LoanDetails)
	assert.True(t, got.IsActive)
}

func TestBuildPublishedCompanyIgnoresMalformedSections(t *testing.T) {
	dashboard := &models.Dashboard{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Sections: map[string]interface{}{
			"information":       "free text instead of an object",
			"overview":          []interface{}{"also wrong"},
			"companyReferences": bson.M{"references": "not a list"},
		},
	}
	got := BuildPublishedCompany(dashboard)

	assert.Equal(t, "", got.CompanyInfo.CompanyName)
	assert.Equal(t, "", got.BusinessOverview.BusinessModel)
	assert.Empty(t, got.CompanyReferences)
}

func TestBuildPublishedCompanyBsonDSections(t *testing.T) {
	// Sections decoded straight from the driver arrive as bson.D.
	dashboard := &models.Dashboard{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Sections: map[string]interface{}{
			"information": bson.D{
				{Key: "companyName", Value: "Acme Industries"},
				{Key: "industry", Value: "Manufacturing"},
			},
		},
	}
	got := BuildPublishedCompany(dashboard)
	assert.Equal(t, "Acme Industries", got.CompanyInfo.CompanyName)
	assert.Equal(t, "Manufacturing", got.CompanyInfo.Industry)
}
