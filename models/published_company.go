// models/published_company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentList is an array of loosely-structured documents in a public
// record. The driver decodes nested documents behind a plain interface{} as
// ordered primitive.D, which the JSON encoder renders as arrays of key/value
// pairs; DocumentList converts elements back to maps on decode so the public
// API always serves JSON objects.
type DocumentList []interface{}

func (l *DocumentList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*l = nil
	if t == bsontype.Null {
		return nil
	}
	raw := bson.RawValue{Type: t, Value: data}
	var arr bson.A
	if err := raw.Unmarshal(&arr); err != nil {
		return err
	}
	out := make(DocumentList, 0, len(arr))
	for _, item := range arr {
		out = append(out, normalizeValue(item))
	}
	*l = out
	return nil
}

// normalizeValue rewrites decoded BSON into JSON-friendly shapes: bson.D
// documents become bson.M, arrays are normalized element-wise, scalars pass
// through.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.D:
		out := make(bson.M, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.M:
		for k, item := range val {
			val[k] = normalizeValue(item)
		}
		return val
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalizeValue(item)
		}
		return val
	case bson.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case []interface{}:
		for i, item := range val {
			val[i] = normalizeValue(item)
		}
		return val
	}
	return v
}

type CompanyInfo struct {
	CompanyName   string  `bson:"companyName" json:"companyName"`
	CompanyType   string  `bson:"companyType,omitempty" json:"companyType,omitempty"`
	Industry      string  `bson:"industry,omitempty" json:"industry,omitempty"`
	FoundedYear   float64 `bson:"foundedYear,omitempty" json:"foundedYear,omitempty"`
	EmployeeCount float64 `bson:"employeeCount,omitempty" json:"employeeCount,omitempty"`
	Headquarters  string  `bson:"headquarters,omitempty" json:"headquarters,omitempty"`
	Website       string  `bson:"website,omitempty" json:"website,omitempty"`
	Description   string  `bson:"description,omitempty" json:"description,omitempty"`
	ContactInfo   bson.M  `bson:"contactInfo,omitempty" json:"contactInfo,omitempty"`
}

type BusinessOverview struct {
	BusinessModel     string `bson:"businessModel,omitempty" json:"businessModel,omitempty"`
	RevenueStreams    string `bson:"revenueStreams,omitempty" json:"revenueStreams,omitempty"`
	IndustryOverview  string `bson:"industryOverview,omitempty" json:"industryOverview,omitempty"`
	FundUtilization   string `bson:"fundUtilization,omitempty" json:"fundUtilization,omitempty"`
	AboutPromoters    string `bson:"aboutPromoters,omitempty" json:"aboutPromoters,omitempty"`
	RiskFactors       string `bson:"riskFactors,omitempty" json:"riskFactors,omitempty"`
	IPOIntermediaries string `bson:"ipoIntermediaries,omitempty" json:"ipoIntermediaries,omitempty"`
}

// PublishedCompany is the denormalized public read model, one per published
// user, maintained by the publication synchronizer. Unpublishing flips
// isActive instead of deleting so viewCount history survives.
type PublishedCompany struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OriginalUserID      primitive.ObjectID `bson:"originalUserId" json:"-"`
	OriginalDashboardID primitive.ObjectID `bson:"originalDashboardId" json:"-"`

	CompanyInfo      CompanyInfo      `bson:"companyInfo" json:"companyInfo"`
	BusinessOverview BusinessOverview `bson:"businessOverview" json:"businessOverview"`

	FinancialHighlights bson.M       `bson:"financialHighlights,omitempty" json:"financialHighlights,omitempty"`
	PeerAnalysis        bson.M       `bson:"peerAnalysis,omitempty" json:"peerAnalysis,omitempty"`
	Shareholding        bson.M       `bson:"shareholding,omitempty" json:"shareholding,omitempty"`
	Images              DocumentList `bson:"images,omitempty" json:"images,omitempty"`
	InformationSheet    bson.M       `bson:"informationSheet,omitempty" json:"informationSheet,omitempty"`
	BeneficialOwners    DocumentList `bson:"beneficialOwners,omitempty" json:"beneficialOwners,omitempty"`
	CompanyReferences   DocumentList `bson:"companyReferences,omitempty" json:"companyReferences,omitempty"`
	LoanDetails         DocumentList `bson:"loanDetails,omitempty" json:"loanDetails,omitempty"`

	PublishedAt  time.Time `bson:"publishedAt" json:"publishedAt"`
	LastSyncedAt time.Time `bson:"lastSyncedAt" json:"lastSyncedAt"`
	IsActive     bool      `bson:"isActive" json:"isActive"`
	ViewCount    int64     `bson:"viewCount" json:"viewCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
