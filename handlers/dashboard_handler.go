// handlers/dashboard_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnuragSingh014/castle-backend/events"
	"github.com/AnuragSingh014/castle-backend/models"
	"github.com/AnuragSingh014/castle-backend/sections"
	"github.com/AnuragSingh014/castle-backend/utils"
)

// requireUser resolves the {userId} path var and verifies the account exists.
func requireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return primitive.NilObjectID, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := userCollection.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		log.WithError(err).Error("require user: count")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return primitive.NilObjectID, false
	}
	if count == 0 {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "user_not_found", "User not found")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// ensureDashboard returns the user's dashboard, creating it with default
// approvals on first touch. Upsert keeps concurrent first reads safe; the
// unique index on userId guarantees at most one document survives.
func ensureDashboard(ctx context.Context, userID primitive.ObjectID) (*models.Dashboard, error) {
	now := time.Now().UTC()
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":               userID,
			"sections":             bson.M{},
			"approvals":            sections.DefaultApprovals(),
			"isDisplayedOnWebsite": false,
			"publicAmount":         0.0,
			"completionPercentage": 0,
			"isComplete":           false,
			"lastUpdated":          now,
			"audit":                []models.AuditEntry{},
			"createdAt":            now,
			"updatedAt":            now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var dashboard models.Dashboard
	err := dashboardCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&dashboard)
	if err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// GetDashboard returns the user's dashboard, lazily creating an empty one.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dashboard, err := ensureDashboard(ctx, userID)
	if err != nil {
		log.WithError(err).Error("get dashboard")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    dashboard,
	})
}

// DeleteDashboard removes the user's dashboard document entirely.
func DeleteDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := dashboardCollection.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil {
		log.WithError(err).Error("delete dashboard")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "dashboard_not_found", "Dashboard not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Dashboard deleted",
	})
}

// GetCompletionStatus returns the completion percentage plus a per-section
// breakdown of what is filled.
func GetCompletionStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dashboard, err := ensureDashboard(ctx, userID)
	if err != nil {
		log.WithError(err).Error("completion status")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, completionStatusResponse(dashboard))
}

func completionStatusResponse(dashboard *models.Dashboard) map[string]interface{} {
	breakdown := make([]models.SectionMeta, 0, sections.Count())
	for _, s := range sections.All() {
		breakdown = append(breakdown, models.SectionMeta{
			Component:   string(s),
			IsComplete:  sections.Filled(dashboard.Section(string(s))),
			LastUpdated: dashboard.LastUpdated,
		})
	}

	return map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"completionPercentage": dashboard.CompletionPercentage,
			"isComplete":           dashboard.IsComplete,
			"lastUpdated":          dashboard.LastUpdated,
			"sections":             breakdown,
		},
	}
}

// SaveSection returns the POST handler for one specific section. Each route
// is registered with its section constant so the target never depends on
// parsing the URL.
func SaveSection(section sections.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saveSection(w, r, section)
	}
}

// SaveSectionGeneric handles POST /section/{section} for clients that address
// sections by name. The name must parse against the enumerated set.
func SaveSectionGeneric(w http.ResponseWriter, r *http.Request) {
	section, ok := sections.Parse(mux.Vars(r)["section"])
	if !ok {
		utils.RespondWithErrorCode(w, http.StatusBadRequest, "unknown_section", "Unknown section name")
		return
	}
	saveSection(w, r, section)
}

func saveSection(w http.ResponseWriter, r *http.Request, section sections.Section) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var payload interface{}
	if err := utils.ParseJSON(r, &payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	payload, err := sections.Apply(section, payload)
	if err != nil {
		var ve *sections.ValidationError
		if errors.As(err, &ve) {
			utils.RespondWithErrorCode(w, http.StatusBadRequest, ve.Code, ve.Message)
			return
		}
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Lazy-create so a brand new user's first write does not 404, and so the
	// pre-image below always exists.
	preImage, err := ensureDashboard(ctx, userID)
	if err != nil {
		log.WithError(err).Error("save section: ensure dashboard")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	// Completion is recomputed from the pre-image with this section's new
	// payload substituted in.
	next := make(map[string]interface{}, len(preImage.Sections)+1)
	for k, v := range preImage.Sections {
		next[k] = v
	}
	next[string(section)] = payload
	percentage := sections.CompletionPercentage(next)

	now := time.Now().UTC()
	filter := bson.M{"userId": userID}
	if !sections.IsFree(section) {
		// The gate is enforced by the commit filter itself: a concurrent
		// lock between the read above and this update makes the filter miss,
		// so a locked section can never commit.
		filter["approvals."+string(section)] = bson.M{"$in": sections.WritableStates()}
	}
	update := bson.M{
		"$set": bson.M{
			"sections." + string(section): payload,
			"completionPercentage":        percentage,
			"isComplete":                  percentage == 100,
			"lastUpdated":                 now,
			"updatedAt":                   now,
		},
	}

	err = dashboardCollection.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithErrorCode(w, http.StatusForbidden, "section_locked", "This section is locked by the administrator")
			return
		}
		log.WithError(err).Error("save section: commit")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	appendDashboardAudit(ctx, userID, models.NewAuditEntry(
		models.ActorUser, userID.Hex(), "update_"+string(section),
		bson.M{"size": payloadSize(payload)}))

	publish(events.Event{
		Room: events.UserRoom(userID.Hex()),
		Type: events.TypeDashboardUpdate,
		Data: bson.M{"component": string(section), "completionPercentage": percentage},
	})
	publish(events.Event{
		Room: events.AdminRoom,
		Type: events.TypeAdminDashboardUpdate,
		Data: bson.M{"userId": userID.Hex(), "component": string(section), "completionPercentage": percentage},
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"message":              "Section saved",
		"completionPercentage": percentage,
		"isComplete":           percentage == 100,
	})
}

// payloadSize is the audited magnitude of a section write: key count for
// objects, length for lists, 1 for any other non-nil value.
func payloadSize(v interface{}) int {
	if m := models.SectionPayloadAsMap(v); m != nil {
		return len(m)
	}
	switch l := v.(type) {
	case []interface{}:
		return len(l)
	case bson.A:
		return len(l)
	}
	if v == nil {
		return 0
	}
	return 1
}

// appendDashboardAudit pushes one audit entry. Failures are logged and
// swallowed; the audit trail never blocks or reverses the primary write.
func appendDashboardAudit(ctx context.Context, userID primitive.ObjectID, entry models.AuditEntry) {
	_, err := dashboardCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$push": bson.M{"audit": entry}})
	if err != nil {
		log.WithError(err).WithField("action", entry.Action).Warn("audit append failed")
	}
}

// GetLoanRequest returns the stored loan request payload for the user.
func GetLoanRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dashboard, err := ensureDashboard(ctx, userID)
	if err != nil {
		log.WithError(err).Error("get loan request")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"loanRequest": dashboard.Section(string(sections.LoanRequest)),
		"approval":    dashboard.ApprovalState(string(sections.LoanRequest)),
	})
}
