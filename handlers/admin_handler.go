// handlers/admin_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnuragSingh014/castle-backend/events"
	"github.com/AnuragSingh014/castle-backend/middleware"
	"github.com/AnuragSingh014/castle-backend/models"
	"github.com/AnuragSingh014/castle-backend/sections"
	"github.com/AnuragSingh014/castle-backend/utils"
)

func adminActor(r *http.Request) string {
	if name, ok := r.Context().Value(middleware.CtxUserName).(string); ok && name != "" {
		return name
	}
	return "admin"
}

// AdminListUsers returns every registered company account.
func AdminListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := userCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.WithError(err).Error("admin list users")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		log.WithError(err).Error("admin list users: decode")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// AdminGetUserDetails returns one user account plus their dashboard.
func AdminGetUserDetails(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithErrorCode(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		log.WithError(err).Error("admin user details")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	var dashboard *models.Dashboard
	var d models.Dashboard
	if err := dashboardCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&d); err == nil {
		dashboard = &d
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"dashboard": dashboard,
	})
}

// SetSectionApproval moves one gated section of a user's dashboard between
// open, locked and approved. Free sections reject state changes.
func SetSectionApproval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Component string `json:"component"`
		State     string `json:"state"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	section, ok := sections.Parse(req.Component)
	if !ok {
		utils.RespondWithErrorCode(w, http.StatusBadRequest, "unknown_section", "Unknown section name")
		return
	}
	applySectionApproval(w, r, section, req.State)
}

// ApproveCEODashboard is the dedicated route for the ceoDashboard gate.
func ApproveCEODashboard(w http.ResponseWriter, r *http.Request) {
	applySectionApproval(w, r, sections.CEODashboard, stateFromBody(w, r))
}

// ApproveCFODashboard is the dedicated route for the cfoDashboard gate.
func ApproveCFODashboard(w http.ResponseWriter, r *http.Request) {
	applySectionApproval(w, r, sections.CFODashboard, stateFromBody(w, r))
}

// ApproveLoanRequest is the dedicated route for the loanRequest gate.
func ApproveLoanRequest(w http.ResponseWriter, r *http.Request) {
	applySectionApproval(w, r, sections.LoanRequest, stateFromBody(w, r))
}

// stateFromBody reads {state} and leaves validation to applySectionApproval.
func stateFromBody(w http.ResponseWriter, r *http.Request) string {
	var req struct {
		State string `json:"state"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		return ""
	}
	return req.State
}

func applySectionApproval(w http.ResponseWriter, r *http.Request, section sections.Section, state string) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if !sections.ValidState(state) {
		utils.RespondWithErrorCode(w, http.StatusBadRequest, "invalid_state", "State must be open, locked or approved")
		return
	}
	if sections.IsFree(section) {
		utils.RespondWithErrorCode(w, http.StatusBadRequest, "cannot_lock_free_sections", "Free sections are always writable")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var dashboard models.Dashboard
	err = dashboardCollection.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			"approvals." + string(section): state,
			"updatedAt":                    now,
		}},
		opts).Decode(&dashboard)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithErrorCode(w, http.StatusNotFound, "dashboard_not_found", "Dashboard not found")
			return
		}
		log.WithError(err).Error("set approval")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	appendDashboardAudit(ctx, userID, models.NewAuditEntry(
		models.ActorAdmin, adminActor(r), "set_approval",
		bson.M{"component": string(section), "state": state}))

	publish(events.Event{
		Room: events.UserRoom(userID.Hex()),
		Type: events.TypeApprovalUpdate,
		Data: bson.M{"component": string(section), "state": state},
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"approvals": dashboard.Approvals,
		"message":   string(section) + " set to " + state,
	})
}

// SetInvestorSectionApproval gates an investor's CEO or CFO dashboard half.
// The investor dashboard is created lazily if the admin acts before the
// investor's first write.
func SetInvestorSectionApproval(section sections.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		investorID, err := primitive.ObjectIDFromHex(mux.Vars(r)["investorId"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid investor ID")
			return
		}

		state := stateFromBody(w, r)
		if !sections.ValidState(state) {
			utils.RespondWithErrorCode(w, http.StatusBadRequest, "invalid_state", "State must be open, locked or approved")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		dashboard, err := ensureInvestorDashboard(ctx, investorID)
		if err != nil {
			log.WithError(err).Error("investor approval: ensure dashboard")
			utils.RespondWithError(w, http.StatusInternalServerError, "database error")
			return
		}

		now := time.Now().UTC()
		_, err = investorDashboardCollection.UpdateOne(ctx,
			bson.M{"investorId": investorID},
			bson.M{
				"$set": bson.M{
					"approvals." + string(section): state,
					"updatedAt":                    now,
				},
				"$push": bson.M{"audit": models.NewAuditEntry(
					models.ActorAdmin, adminActor(r),
					"set_investor_"+string(section)+"_approval",
					bson.M{"state": state})},
			})
		if err != nil {
			log.WithError(err).Error("investor approval: update")
			utils.RespondWithError(w, http.StatusInternalServerError, "database error")
			return
		}

		if dashboard.Approvals == nil {
			dashboard.Approvals = map[string]string{}
		}
		dashboard.Approvals[string(section)] = state

		publish(events.Event{
			Room: events.InvestorRoom(investorID.Hex()),
			Type: events.TypeApprovalUpdate,
			Data: bson.M{"component": string(section), "state": state},
		})

		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"approvals": dashboard.Approvals,
			"message":   "Investor " + string(section) + " " + state,
		})
	}
}

// SetWebsiteDisplay toggles public visibility and synchronizes the public
// read model in the same request.
func SetWebsiteDisplay(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		DisplayOnWebsite bool `json:"displayOnWebsite"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var dashboard models.Dashboard
	err = dashboardCollection.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			"isDisplayedOnWebsite": req.DisplayOnWebsite,
			"updatedAt":            time.Now().UTC(),
		}},
		opts).Decode(&dashboard)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithErrorCode(w, http.StatusNotFound, "dashboard_not_found", "Dashboard not found")
			return
		}
		log.WithError(err).Error("website display: update")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	appendDashboardAudit(ctx, userID, models.NewAuditEntry(
		models.ActorAdmin, adminActor(r), "set_website_display",
		bson.M{"displayOnWebsite": req.DisplayOnWebsite}))

	if req.DisplayOnWebsite {
		err = SyncPublishedCompany(ctx, &dashboard)
	} else {
		err = UnpublishCompany(ctx, userID)
	}
	if err != nil {
		log.WithError(err).Error("website display: sync")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to synchronize public listing")
		return
	}

	message := "Website display disabled"
	if req.DisplayOnWebsite {
		message = "Website display enabled"
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"message":              message,
		"isDisplayedOnWebsite": dashboard.IsDisplayedOnWebsite,
	})
}

// SetPublicAmount sets the amount shown on the public listing.
func SetPublicAmount(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := dashboardCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			"publicAmount": req.Amount,
			"updatedAt":    time.Now().UTC(),
		}})
	if err != nil {
		log.WithError(err).Error("set public amount")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "dashboard_not_found", "Dashboard not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Amount updated successfully",
		"publicAmount": req.Amount,
	})
}

// AdminGetPublishedCompanies lists the dashboards currently flagged for the
// public website.
func AdminGetPublishedCompanies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := dashboardCollection.Find(ctx, bson.M{"isDisplayedOnWebsite": true}, opts)
	if err != nil {
		log.WithError(err).Error("admin published companies")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer cursor.Close(ctx)

	companies := []models.Dashboard{}
	if err := cursor.All(ctx, &companies); err != nil {
		log.WithError(err).Error("admin published companies: decode")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"companies": companies,
	})
}
