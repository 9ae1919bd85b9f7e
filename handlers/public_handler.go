// handlers/public_handler.go
package handlers

import (
	"context"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnuragSingh014/castle-backend/models"
	"github.com/AnuragSingh014/castle-backend/sections"
	"github.com/AnuragSingh014/castle-backend/utils"
)

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// searchNameFilter builds the case-insensitive company name filter. The
// query text is matched literally, never interpreted as a regex pattern.
func searchNameFilter(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}

// GetPublishedCompanies is the public, paginated company listing. Only
// active records are visible; industry and name filters are optional.
func GetPublishedCompanies(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	if limit > 100 {
		limit = 100
	}

	query := bson.M{"isActive": true}
	if industry := r.URL.Query().Get("industry"); industry != "" {
		query["companyInfo.industry"] = industry
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query["companyInfo.companyName"] = searchNameFilter(search)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := publishedCompanyCollection.Find(ctx, query, opts)
	if err != nil {
		log.WithError(err).Error("public companies: find")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch published companies")
		return
	}
	defer cursor.Close(ctx)

	companies := []models.PublishedCompany{}
	if err := cursor.All(ctx, &companies); err != nil {
		log.WithError(err).Error("public companies: decode")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch published companies")
		return
	}

	total, err := publishedCompanyCollection.CountDocuments(ctx, query)
	if err != nil {
		log.WithError(err).Error("public companies: count")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch published companies")
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"companies": companies,
			"pagination": map[string]interface{}{
				"currentPage":    page,
				"totalPages":     totalPages,
				"totalCompanies": total,
				"hasNext":        page < totalPages,
				"hasPrev":        page > 1,
			},
		},
	})
}

// GetPublishedCompanyByID returns one active public record and counts the
// view in the same update.
func GetPublishedCompanyByID(w http.ResponseWriter, r *http.Request) {
	companyID, err := primitive.ObjectIDFromHex(mux.Vars(r)["companyId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var company models.PublishedCompany
	err = publishedCompanyCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": companyID, "isActive": true},
		bson.M{"$inc": bson.M{"viewCount": 1}},
		opts).Decode(&company)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithErrorCode(w, http.StatusNotFound, "company_not_found", "Company not found")
			return
		}
		log.WithError(err).Error("public company detail")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch company details")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    company,
	})
}

// GetIndustries lists the distinct industries across active public records,
// for the listing filter.
func GetIndustries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	raw, err := publishedCompanyCollection.Distinct(ctx, "companyInfo.industry", bson.M{"isActive": true})
	if err != nil {
		log.WithError(err).Error("public industries")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch industries")
		return
	}

	industries := []string{}
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			industries = append(industries, s)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    industries,
	})
}

// GetPublicPDFs lists presentation PDFs of companies displayed on the
// website. Metadata only; the blob stays server-side until download.
func GetPublicPDFs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := dashboardCollection.Find(ctx, bson.M{
		"isDisplayedOnWebsite": true,
		"pdfDocument":          bson.M{"$exists": true},
	})
	if err != nil {
		log.WithError(err).Error("public pdfs: find")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch PDFs")
		return
	}
	defer cursor.Close(ctx)

	pdfs := []map[string]interface{}{}
	for cursor.Next(ctx) {
		var dashboard models.Dashboard
		if err := cursor.Decode(&dashboard); err != nil || dashboard.PDFDocument == nil {
			continue
		}
		information := models.SectionPayloadAsMap(dashboard.Section(string(sections.Information)))
		pdfs = append(pdfs, map[string]interface{}{
			"userId":       dashboard.UserID.Hex(),
			"companyName":  mapString(information, "companyName"),
			"title":        dashboard.PDFDocument.Title,
			"description":  dashboard.PDFDocument.Description,
			"originalName": dashboard.PDFDocument.OriginalName,
			"size":         dashboard.PDFDocument.Size,
			"uploadedAt":   dashboard.PDFDocument.UploadedAt,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"pdfs":    pdfs,
	})
}

// DownloadPublicPDF streams the presentation PDF of a displayed company.
func DownloadPublicPDF(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var dashboard models.Dashboard
	err = dashboardCollection.FindOne(ctx, bson.M{
		"userId":               userID,
		"isDisplayedOnWebsite": true,
	}).Decode(&dashboard)
	if err != nil || dashboard.PDFDocument == nil {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "pdf_not_found", "No PDF found for this company")
		return
	}

	serveAttachment(w, dashboard.PDFDocument)
}
