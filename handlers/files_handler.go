// handlers/files_handler.go
//
// Attachment endpoints. Blobs are stored base64-encoded inside the owning
// document and decoded only on download; listings carry metadata only.
package handlers

import (
	"context"
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnuragSingh014/castle-backend/middleware"
	"github.com/AnuragSingh014/castle-backend/models"
	"github.com/AnuragSingh014/castle-backend/utils"
)

const (
	maxPDFSize       = 10 << 20
	maxSignatureSize = 20 << 20
)

// readUpload pulls one multipart file, enforcing size and mimetype. The
// mimetype check accepts either an exact match or a prefix match when accept
// ends with "/".
func readUpload(r *http.Request, field string, maxSize int64, accept string) (*models.Attachment, string, bool) {
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, "File too large or malformed upload", false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "No file uploaded", false
	}
	defer file.Close()

	mimetype := header.Header.Get("Content-Type")
	if strings.HasSuffix(accept, "/") {
		if !strings.HasPrefix(mimetype, accept) {
			return nil, "Unsupported file type", false
		}
	} else if mimetype != accept {
		return nil, "Unsupported file type", false
	}
	if header.Size > maxSize {
		return nil, "File too large", false
	}

	data, err := readAll(file, maxSize)
	if err != nil {
		return nil, "Failed to read upload", false
	}

	return &models.Attachment{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		FounderName:  r.FormValue("founderName"),
		FounderTitle: r.FormValue("founderTitle"),
		Filename:     header.Filename,
		OriginalName: header.Filename,
		Mimetype:     mimetype,
		Size:         header.Size,
		Data:         base64.StdEncoding.EncodeToString(data),
		UploadedAt:   time.Now().UTC(),
	}, "", true
}

func readAll(file multipart.File, maxSize int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(file, maxSize+1))
}

// serveAttachment decodes and streams a stored blob.
func serveAttachment(w http.ResponseWriter, att *models.Attachment) {
	data, err := base64.StdEncoding.DecodeString(att.Data)
	if err != nil {
		log.WithError(err).Error("attachment decode")
		utils.RespondWithError(w, http.StatusInternalServerError, "Stored file is corrupted")
		return
	}
	w.Header().Set("Content-Type", att.Mimetype)
	w.Header().Set("Content-Disposition", `attachment; filename="`+att.OriginalName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func setDashboardAttachment(w http.ResponseWriter, r *http.Request, field string, att *models.Attachment) (*models.Dashboard, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if _, err := ensureDashboard(ctx, userID); err != nil {
		log.WithError(err).Error("attachment: ensure dashboard")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return nil, false
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var dashboard models.Dashboard
	err := dashboardCollection.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			field:       att,
			"updatedAt": time.Now().UTC(),
		}},
		opts).Decode(&dashboard)
	if err != nil {
		log.WithError(err).Error("attachment: store")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return nil, false
	}

	appendDashboardAudit(ctx, userID, models.NewAuditEntry(
		models.ActorUser, userID.Hex(), "upload_"+field,
		bson.M{"originalName": att.OriginalName, "size": att.Size}))

	return &dashboard, true
}

// UploadPDF stores the company presentation PDF on the dashboard.
func UploadPDF(w http.ResponseWriter, r *http.Request) {
	att, msg, ok := readUpload(r, "pdfFile", maxPDFSize, "application/pdf")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if _, ok := setDashboardAttachment(w, r, "pdfDocument", att); !ok {
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "PDF uploaded successfully",
		"pdf": map[string]interface{}{
			"title":        att.Title,
			"originalName": att.OriginalName,
			"size":         att.Size,
			"uploadedAt":   att.UploadedAt,
		},
	})
}

// GetUserPDF returns presentation PDF metadata without the blob.
func GetUserPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var dashboard models.Dashboard
	err := dashboardCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&dashboard)
	if err != nil || dashboard.PDFDocument == nil {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "pdf_not_found", "No PDF found for this user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"pdf": map[string]interface{}{
			"title":        dashboard.PDFDocument.Title,
			"description":  dashboard.PDFDocument.Description,
			"originalName": dashboard.PDFDocument.OriginalName,
			"size":         dashboard.PDFDocument.Size,
			"uploadedAt":   dashboard.PDFDocument.UploadedAt,
		},
	})
}

// DownloadUserPDF streams the user's own presentation PDF.
func DownloadUserPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var dashboard models.Dashboard
	err := dashboardCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&dashboard)
	if err != nil || dashboard.PDFDocument == nil {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "pdf_not_found", "No PDF found for this user")
		return
	}

	serveAttachment(w, dashboard.PDFDocument)
}

// UploadCompanySignature stores the signature image on the dashboard.
func UploadCompanySignature(w http.ResponseWriter, r *http.Request) {
	att, msg, ok := readUpload(r, "signature", maxSignatureSize, "image/")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if _, ok := setDashboardAttachment(w, r, "companySignature", att); !ok {
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Signature uploaded successfully",
		"signature": map[string]interface{}{
			"originalName": att.OriginalName,
			"size":         att.Size,
			"uploadedAt":   att.UploadedAt,
		},
	})
}

// GetCompanySignature streams the signature image inline.
func GetCompanySignature(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var dashboard models.Dashboard
	err := dashboardCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&dashboard)
	if err != nil || dashboard.CompanySignature == nil {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "signature_not_found", "No signature found for this user")
		return
	}

	data, err := base64.StdEncoding.DecodeString(dashboard.CompanySignature.Data)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Stored file is corrupted")
		return
	}
	w.Header().Set("Content-Type", dashboard.CompanySignature.Mimetype)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// UploadAdminSignature stores the signature image on the admin account.
func UploadAdminSignature(w http.ResponseWriter, r *http.Request) {
	adminID, ok := r.Context().Value(middleware.CtxUserID).(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	objID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid admin ID")
		return
	}

	att, msg, ok := readUpload(r, "signature", maxSignatureSize, "image/")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	res, err := adminCollection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"signature": att,
			"updatedAt": time.Now().UTC(),
		}})
	if err != nil {
		log.WithError(err).Error("admin signature: store")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Admin not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Signature uploaded successfully",
	})
}

// GetAdminSignature streams the admin's signature image inline.
func GetAdminSignature(w http.ResponseWriter, r *http.Request) {
	adminID, ok := r.Context().Value(middleware.CtxUserID).(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	objID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid admin ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var admin models.Admin
	err = adminCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&admin)
	if err != nil || admin.Signature == nil {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "signature_not_found", "No signature found")
		return
	}

	data, err := base64.StdEncoding.DecodeString(admin.Signature.Data)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Stored file is corrupted")
		return
	}
	w.Header().Set("Content-Type", admin.Signature.Mimetype)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// AdminGetAllPDFs lists every user's presentation PDF metadata.
func AdminGetAllPDFs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := dashboardCollection.Find(ctx, bson.M{"pdfDocument": bson.M{"$exists": true}})
	if err != nil {
		log.WithError(err).Error("admin pdfs: find")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer cursor.Close(ctx)

	pdfs := []map[string]interface{}{}
	for cursor.Next(ctx) {
		var dashboard models.Dashboard
		if err := cursor.Decode(&dashboard); err != nil || dashboard.PDFDocument == nil {
			continue
		}

		var user models.User
		_ = userCollection.FindOne(ctx, bson.M{"_id": dashboard.UserID}).Decode(&user)

		pdfs = append(pdfs, map[string]interface{}{
			"userId":       dashboard.UserID.Hex(),
			"userName":     user.Name,
			"userEmail":    user.Email,
			"title":        dashboard.PDFDocument.Title,
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

// AdminDownloadPDF streams any user's presentation PDF.
func AdminDownloadPDF(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var dashboard models.Dashboard
	err = dashboardCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&dashboard)
	if err != nil || dashboard.PDFDocument == nil {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "pdf_not_found", "No PDF found for this user")
		return
	}

	serveAttachment(w, dashboard.PDFDocument)
}

// AdminReplacePresentation swaps a company's presentation PDF and re-syncs
// the public record when the company is currently displayed.
func AdminReplacePresentation(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	att, msg, ok := readUpload(r, "pdfFile", maxPDFSize, "application/pdf")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var dashboard models.Dashboard
	err = dashboardCollection.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			"pdfDocument": att,
			"updatedAt":   time.Now().UTC(),
		}},
		opts).Decode(&dashboard)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithErrorCode(w, http.StatusNotFound, "dashboard_not_found", "Dashboard not found")
			return
		}
		log.WithError(err).Error("replace presentation")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	appendDashboardAudit(ctx, userID, models.NewAuditEntry(
		models.ActorAdmin, adminActor(r), "replace_presentation",
		bson.M{"originalName": att.OriginalName, "size": att.Size}))

	if dashboard.IsDisplayedOnWebsite {
		if err := SyncPublishedCompany(ctx, &dashboard); err != nil {
			log.WithError(err).Warn("replace presentation: re-sync")
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Presentation replaced",
	})
}
