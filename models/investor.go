// models/investor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvestorAccountProfile struct {
	Company              string `bson:"company,omitempty" json:"company,omitempty"`
	Designation          string `bson:"designation,omitempty" json:"designation,omitempty"`
	InvestmentExperience string `bson:"investmentExperience,omitempty" json:"investmentExperience,omitempty"`
	RiskProfile          string `bson:"riskProfile,omitempty" json:"riskProfile,omitempty"` // Conservative, Moderate, Aggressive
}

type Investor struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Name         string                 `bson:"name" json:"name"`
	Email        string                 `bson:"email" json:"email"`
	Phone        string                 `bson:"phone" json:"phone"`
	PasswordHash string                 `bson:"passwordHash" json:"-"`
	UserType     string                 `bson:"userType" json:"userType"`
	IsActive     bool                   `bson:"isActive" json:"isActive"`
	Profile      InvestorAccountProfile `bson:"profile,omitempty" json:"profile,omitempty"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time              `bson:"updatedAt" json:"updatedAt"`
}
