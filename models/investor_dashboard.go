// models/investor_dashboard.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MonthlySeries is one fiscal-year vector (April through March) keyed by
// lowercase month abbreviation: apr, may, jun, jul, aug, sep, oct, nov, dec,
// jan, feb, mar.
type MonthlySeries map[string]float64

// MetricSeries groups the actual/target/prior-year vectors for one metric.
// Not every metric carries targets or last-year figures.
type MetricSeries struct {
	Actual   MonthlySeries `bson:"actual,omitempty" json:"actual,omitempty"`
	Target   MonthlySeries `bson:"target,omitempty" json:"target,omitempty"`
	LastYear MonthlySeries `bson:"lastYear,omitempty" json:"lastYear,omitempty"`
}

// DashboardHalf is one CEO or CFO dashboard: metric name -> series.
type DashboardHalf map[string]MetricSeries

type InvestorProfile struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

// Investment is one child record of the portfolio. Children carry stable
// ObjectIDs so they can be addressed for update/delete without positional
// mutation. AdditionalDetails is a free-form JSON-serialized blob.
type Investment struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName       string             `bson:"companyName" json:"companyName"`
	AmountInvested    float64            `bson:"amountInvested" json:"amountInvested"`
	CurrentValuation  float64            `bson:"currentValuation,omitempty" json:"currentValuation,omitempty"`
	StakePercentage   float64            `bson:"stakePercentage,omitempty" json:"stakePercentage,omitempty"`
	YearOfInvestment  int                `bson:"yearOfInvestment,omitempty" json:"yearOfInvestment,omitempty"`
	CurrentStatus     string             `bson:"currentStatus,omitempty" json:"currentStatus,omitempty"` // Active, Exited
	ExitAmount        float64            `bson:"exitAmount,omitempty" json:"exitAmount,omitempty"`
	AdditionalDetails string             `bson:"additionalDetails,omitempty" json:"additionalDetails,omitempty"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CompletionBreakdown struct {
	CEO     int `bson:"ceo" json:"ceo"`
	CFO     int `bson:"cfo" json:"cfo"`
	Overall int `bson:"overall" json:"overall"`
}

type CompletionFlags struct {
	CEO     bool `bson:"ceo" json:"ceo"`
	CFO     bool `bson:"cfo" json:"cfo"`
	Overall bool `bson:"overall" json:"overall"`
}

// InvestorDashboard is the per-investor aggregate document, one per
// investorId (unique index), created lazily like the company dashboard.
type InvestorDashboard struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InvestorID primitive.ObjectID `bson:"investorId" json:"investorId"`

	InvestorProfile InvestorProfile `bson:"investorProfile" json:"investorProfile"`

	CEODashboard DashboardHalf `bson:"ceoDashboard" json:"ceoDashboard"`
	CFODashboard DashboardHalf `bson:"cfoDashboard" json:"cfoDashboard"`

	InvestmentPortfolio []Investment `bson:"investmentPortfolio" json:"investmentPortfolio"`

	Approvals map[string]string `bson:"approvals,omitempty" json:"approvals,omitempty"`

	CompletionPercentage CompletionBreakdown `bson:"completionPercentage" json:"completionPercentage"`
	IsComplete           CompletionFlags     `bson:"isComplete" json:"isComplete"`
	LastUpdated          time.Time           `bson:"lastUpdated" json:"lastUpdated"`

	Audit []AuditEntry `bson:"audit" json:"audit"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
