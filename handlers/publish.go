// handlers/publish.go
//
// Publication synchronizer: projects an approved dashboard into the
// denormalized public read model. publish/unpublish are idempotent; the
// public record soft-deletes on unpublish so viewCount history survives.
package handlers

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnuragSingh014/castle-backend/models"
	"github.com/AnuragSingh014/castle-backend/sections"
)

// BuildPublishedCompany projects a dashboard into its public representation.
// Pure: missing sections project to zero values, never errors.
func BuildPublishedCompany(dashboard *models.Dashboard) models.PublishedCompany {
	information := models.SectionPayloadAsMap(dashboard.Section(string(sections.Information)))
	overview := models.SectionPayloadAsMap(dashboard.Section(string(sections.Overview)))
	infoSheet := models.SectionPayloadAsMap(dashboard.Section(string(sections.InformationSheet)))
	ownerCert := models.SectionPayloadAsMap(dashboard.Section(string(sections.BeneficialOwnerCertification)))
	references := models.SectionPayloadAsMap(dashboard.Section(string(sections.CompanyReferences)))
	loanDetails := models.SectionPayloadAsMap(dashboard.Section(string(sections.LoanDetails)))

	return models.PublishedCompany{
		OriginalUserID:      dashboard.UserID,
		OriginalDashboardID: dashboard.ID,
		CompanyInfo: models.CompanyInfo{
			CompanyName:   mapString(information, "companyName"),
			CompanyType:   mapString(information, "companyType"),
			Industry:      mapString(information, "industry"),
			FoundedYear:   mapFloat(information, "foundedYear"),
			EmployeeCount: mapFloat(information, "employeeCount"),
			Headquarters:  mapString(information, "headquarters"),
			Website:       mapString(information, "website"),
			Description:   mapString(information, "description"),
			ContactInfo:   mapObject(information, "contactInfo"),
		},
		BusinessOverview: models.BusinessOverview{
			BusinessModel:     mapString(overview, "businessOverview"),
			RevenueStreams:    mapString(overview, "revenueStreams"),
			IndustryOverview:  mapString(overview, "industryOverview"),
			FundUtilization:   mapString(overview, "fundUtilization"),
			AboutPromoters:    mapString(overview, "aboutPromoters"),
			RiskFactors:       mapString(overview, "riskFactors"),
			IPOIntermediaries: mapString(overview, "ipoIntermediaries"),
		},
		FinancialHighlights: mapObject(overview, "financialHighlights"),
		PeerAnalysis:        mapObject(overview, "peerAnalysis"),
		Shareholding:        mapObject(overview, "shareholding"),
		Images:              mapList(overview, "images"),
		InformationSheet:    infoSheet,
		BeneficialOwners:    mapList(ownerCert, "owners"),
		CompanyReferences:   mapList(references, "references"),
		LoanDetails:         mapList(loanDetails, "loans"),
		IsActive:            true,
	}
}

// SyncPublishedCompany upserts the public record for a dashboard. The upsert
// is keyed by originalUserId with a one-time legacy fallback on company name
// for records written before originalUserId existed.
func SyncPublishedCompany(ctx context.Context, dashboard *models.Dashboard) error {
	projected := BuildPublishedCompany(dashboard)
	now := time.Now().UTC()

	filter := bson.M{"originalUserId": dashboard.UserID}

	var existing models.PublishedCompany
	err := publishedCompanyCollection.FindOne(ctx, filter).Decode(&existing)
	if err == mongo.ErrNoDocuments && projected.CompanyInfo.CompanyName != "" {
		// Legacy records predate the originalUserId key; reconcile by name.
		legacy := bson.M{"companyInfo.companyName": projected.CompanyInfo.CompanyName}
		if nameErr := publishedCompanyCollection.FindOne(ctx, legacy).Decode(&existing); nameErr == nil {
			filter = bson.M{"_id": existing.ID}
			err = nil
		}
	}
	if err != nil && err != mongo.ErrNoDocuments {
		return fmt.Errorf("lookup published company: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"originalUserId":      projected.OriginalUserID,
			"originalDashboardId": projected.OriginalDashboardID,
			"companyInfo":         projected.CompanyInfo,
			"businessOverview":    projected.BusinessOverview,
			"financialHighlights": projected.FinancialHighlights,
			"peerAnalysis":        projected.PeerAnalysis,
			"shareholding":        projected.Shareholding,
			"images":              projected.Images,
			"informationSheet":    projected.InformationSheet,
			"beneficialOwners":    projected.BeneficialOwners,
			"companyReferences":   projected.CompanyReferences,
			"loanDetails":         projected.LoanDetails,
			"isActive":            true,
			"lastSyncedAt":        now,
			"updatedAt":           now,
		},
		"$setOnInsert": bson.M{
			"publishedAt": now,
			"viewCount":   int64(0),
			"createdAt":   now,
		},
	}

	_, err = publishedCompanyCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert published company: %w", err)
	}

	log.WithField("userId", dashboard.UserID.Hex()).Info("published company synced")
	return nil
}

// UnpublishCompany soft-deletes the public record. viewCount and publishedAt
// are left untouched so a later republish keeps its history.
func UnpublishCompany(ctx context.Context, userID primitive.ObjectID) error {
	_, err := publishedCompanyCollection.UpdateOne(ctx,
		bson.M{"originalUserId": userID},
		bson.M{"$set": bson.M{
			"isActive":  false,
			"updatedAt": time.Now().UTC(),
		}})
	if err != nil {
		return fmt.Errorf("unpublish company: %w", err)
	}
	return nil
}

func mapString(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func mapFloat(m bson.M, key string) float64 {
	if m == nil {
		return 0
	}
	switch n := m[key].(type) {
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
	}
	return 0
}

func mapObject(m bson.M, key string) bson.M {
	if m == nil {
		return nil
	}
	return models.SectionPayloadAsMap(m[key])
}

func mapList(m bson.M, key string) models.DocumentList {
	if m == nil {
		return nil
	}
	switch l := m[key].(type) {
	case []interface{}:
		return models.DocumentList(l)
	case bson.A:
		return models.DocumentList(l)
	}
	return nil
}
