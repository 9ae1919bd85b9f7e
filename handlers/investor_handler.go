// handlers/investor_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
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

func requireInvestor(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	investorID, err := primitive.ObjectIDFromHex(mux.Vars(r)["investorId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid investor ID")
		return primitive.NilObjectID, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := investorCollection.CountDocuments(ctx, bson.M{"_id": investorID})
	if err != nil {
		log.WithError(err).Error("require investor: count")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return primitive.NilObjectID, false
	}
	if count == 0 {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "investor_not_found", "Investor not found")
		return primitive.NilObjectID, false
	}
	return investorID, true
}

// ensureInvestorDashboard mirrors ensureDashboard for the investor aggregate.
func ensureInvestorDashboard(ctx context.Context, investorID primitive.ObjectID) (*models.InvestorDashboard, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"investorId":           investorID,
			"investorProfile":      models.InvestorProfile{},
			"ceoDashboard":         bson.M{},
			"cfoDashboard":         bson.M{},
			"investmentPortfolio":  []models.Investment{},
			"completionPercentage": models.CompletionBreakdown{},
			"isComplete":           models.CompletionFlags{},
			"lastUpdated":          now,
			"audit":                []models.AuditEntry{},
			"createdAt":            now,
			"updatedAt":            now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var dashboard models.InvestorDashboard
	err := investorDashboardCollection.FindOneAndUpdate(ctx, bson.M{"investorId": investorID}, update, opts).Decode(&dashboard)
	if err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// GetInvestorDashboard returns the investor's dashboard, creating it lazily.
func GetInvestorDashboard(w http.ResponseWriter, r *http.Request) {
	investorID, ok := requireInvestor(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dashboard, err := ensureInvestorDashboard(ctx, investorID)
	if err != nil {
		log.WithError(err).Error("get investor dashboard")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    dashboard,
	})
}

// DeleteInvestorDashboard removes the investor's dashboard document.
func DeleteInvestorDashboard(w http.ResponseWriter, r *http.Request) {
	investorID, ok := requireInvestor(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := investorDashboardCollection.DeleteOne(ctx, bson.M{"investorId": investorID})
	if err != nil {
		log.WithError(err).Error("delete investor dashboard")
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

// SaveInvestorProfile stores the contact block shown on reports.
func SaveInvestorProfile(w http.ResponseWriter, r *http.Request) {
	investorID, ok := requireInvestor(w, r)
	if !ok {
		return
	}

	var profile models.InvestorProfile
	if err := utils.ParseJSON(r, &profile); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := ensureInvestorDashboard(ctx, investorID); err != nil {
		log.WithError(err).Error("save investor profile: ensure")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	now := time.Now().UTC()
	_, err := investorDashboardCollection.UpdateOne(ctx,
		bson.M{"investorId": investorID},
		bson.M{
			"$set": bson.M{
				"investorProfile": profile,
				"lastUpdated":     now,
				"updatedAt":       now,
			},
			"$push": bson.M{"audit": models.NewAuditEntry(
				models.ActorInvestor, investorID.Hex(), "update_investor_profile", nil)},
		})
	if err != nil {
		log.WithError(err).Error("save investor profile")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Investor profile saved successfully",
		"data":    map[string]interface{}{"investorProfile": profile},
	})
}

// SaveCEODashboard merges incoming CEO metrics into the stored half.
func SaveCEODashboard(w http.ResponseWriter, r *http.Request) {
	saveInvestorHalf(w, r, sections.CEODashboard)
}

// SaveCFODashboard merges incoming CFO metrics into the stored half.
func SaveCFODashboard(w http.ResponseWriter, r *http.Request) {
	saveInvestorHalf(w, r, sections.CFODashboard)
}

// saveInvestorHalf performs the metric-level merge: incoming metrics replace
// their stored counterpart, untouched metrics survive. Completion for both
// halves and the overall figure are recomputed from the merged result and
// committed in the same update.
func saveInvestorHalf(w http.ResponseWriter, r *http.Request, section sections.Section) {
	investorID, ok := requireInvestor(w, r)
	if !ok {
		return
	}

	var incoming models.DashboardHalf
	if err := utils.ParseJSON(r, &incoming); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	preImage, err := ensureInvestorDashboard(ctx, investorID)
	if err != nil {
		log.WithError(err).Error("save investor half: ensure")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	ceo, cfo := preImage.CEODashboard, preImage.CFODashboard
	var merged models.DashboardHalf
	if section == sections.CEODashboard {
		merged = mergeHalf(ceo, incoming)
		ceo = merged
	} else {
		merged = mergeHalf(cfo, incoming)
		cfo = merged
	}

	breakdown := models.CompletionBreakdown{
		CEO: sections.HalfCompletion(ceo, sections.RequiredCEOFields),
		CFO: sections.HalfCompletion(cfo, sections.RequiredCFOFields),
	}
	breakdown.Overall = sections.OverallCompletion(breakdown.CEO, breakdown.CFO)
	flags := models.CompletionFlags{
		CEO:     breakdown.CEO == 100,
		CFO:     breakdown.CFO == 100,
		Overall: breakdown.CEO == 100 && breakdown.CFO == 100,
	}

	fieldsUpdated := make([]string, 0, len(incoming))
	for metric := range incoming {
		fieldsUpdated = append(fieldsUpdated, metric)
	}

	now := time.Now().UTC()
	action := "update_ceo_dashboard"
	if section == sections.CFODashboard {
		action = "update_cfo_dashboard"
	}
	_, err = investorDashboardCollection.UpdateOne(ctx,
		bson.M{"investorId": investorID},
		bson.M{
			"$set": bson.M{
				string(section):        merged,
				"completionPercentage": breakdown,
				"isComplete":           flags,
				"lastUpdated":          now,
				"updatedAt":            now,
			},
			"$push": bson.M{"audit": models.NewAuditEntry(
				models.ActorInvestor, investorID.Hex(), action,
				bson.M{"fieldsUpdated": fieldsUpdated})},
		})
	if err != nil {
		log.WithError(err).Error("save investor half: commit")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	publish(events.Event{
		Room: events.InvestorRoom(investorID.Hex()),
		Type: events.TypeDashboardUpdate,
		Data: bson.M{"component": string(section), "completionPercentage": breakdown},
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Dashboard data saved successfully",
		"data": map[string]interface{}{
			string(section):        merged,
			"completionPercentage": breakdown,
		},
	})
}

func mergeHalf(existing, incoming models.DashboardHalf) models.DashboardHalf {
	merged := make(models.DashboardHalf, len(existing)+len(incoming))
	for metric, series := range existing {
		merged[metric] = series
	}
	for metric, series := range incoming {
		merged[metric] = series
	}
	return merged
}

// investmentInput accepts the wire shape of one portfolio child.
// additionalDetails arrives as a free-form object and is stored as a JSON
// string.
type investmentInput struct {
	CompanyName       string      `json:"companyName"`
	AmountInvested    float64     `json:"amountInvested"`
	CurrentValuation  float64     `json:"currentValuation"`
	StakePercentage   float64     `json:"stakePercentage"`
	YearOfInvestment  int         `json:"yearOfInvestment"`
	CurrentStatus     string      `json:"currentStatus"`
	ExitAmount        float64     `json:"exitAmount"`
	AdditionalDetails interface{} `json:"additionalDetails"`
}

func (in *investmentInput) detailsJSON() string {
	if in.AdditionalDetails == nil {
		return "{}"
	}
	data, err := json.Marshal(in.AdditionalDetails)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GetInvestmentPortfolio lists the portfolio with deserialized details and a
// computed summary.
func GetInvestmentPortfolio(w http.ResponseWriter, r *http.Request) {
	investorID, ok := requireInvestor(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dashboard, err := ensureInvestorDashboard(ctx, investorID)
	if err != nil {
		log.WithError(err).Error("get portfolio")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	investments := make([]map[string]interface{}, 0, len(dashboard.InvestmentPortfolio))
	for _, inv := range dashboard.InvestmentPortfolio {
		var details interface{} = map[string]interface{}{}
		if inv.AdditionalDetails != "" {
			if err := json.Unmarshal([]byte(inv.AdditionalDetails), &details); err != nil {
				details = map[string]interface{}{}
			}
		}
		investments = append(investments, map[string]interface{}{
			"id":                inv.ID.Hex(),
			"companyName":       inv.CompanyName,
			"amountInvested":    inv.AmountInvested,
			"currentValuation":  inv.CurrentValuation,
			"stakePercentage":   inv.StakePercentage,
			"yearOfInvestment":  inv.YearOfInvestment,
			"currentStatus":     inv.CurrentStatus,
			"exitAmount":        inv.ExitAmount,
			"additionalDetails": details,
			"updatedAt":         inv.UpdatedAt,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"investments": investments,
			"summary":     investmentSummary(dashboard.InvestmentPortfolio),
		},
	})
}

// AddInvestment appends one portfolio child with a freshly generated ID.
func AddInvestment(w http.ResponseWriter, r *http.Request) {
	investorID, ok := requireInvestor(w, r)
	if !ok {
		return
	}

	var in investmentInput
	if err := utils.ParseJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if in.CompanyName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "companyName required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := ensureInvestorDashboard(ctx, investorID); err != nil {
		log.WithError(err).Error("add investment: ensure")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	now := time.Now().UTC()
	investment := models.Investment{
		ID:                primitive.NewObjectID(),
		CompanyName:       in.CompanyName,
		AmountInvested:    in.AmountInvested,
		CurrentValuation:  in.CurrentValuation,
		StakePercentage:   in.StakePercentage,
		YearOfInvestment:  in.YearOfInvestment,
		CurrentStatus:     in.CurrentStatus,
		ExitAmount:        in.ExitAmount,
		AdditionalDetails: in.detailsJSON(),
		UpdatedAt:         now,
	}

	_, err := investorDashboardCollection.UpdateOne(ctx,
		bson.M{"investorId": investorID},
		bson.M{
			"$push": bson.M{
				"investmentPortfolio": investment,
				"audit": models.NewAuditEntry(
					models.ActorInvestor, investorID.Hex(), "add_investment",
					bson.M{"companyName": investment.CompanyName}),
			},
			"$set": bson.M{"lastUpdated": now, "updatedAt": now},
		})
	if err != nil {
		log.WithError(err).Error("add investment")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Investment added successfully",
		"data":    map[string]interface{}{"investmentId": investment.ID.Hex()},
	})
}

// UpdateInvestment mutates one child in place via the positional operator.
func UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	investorID, ok := requireInvestor(w, r)
	if !ok {
		return
	}
	investmentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["investmentId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid investment ID")
		return
	}

	var in investmentInput
	if err := utils.ParseJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{
		"investmentPortfolio.$.companyName":       in.CompanyName,
		"investmentPortfolio.$.amountInvested":    in.AmountInvested,
		"investmentPortfolio.$.currentValuation":  in.CurrentValuation,
		"investmentPortfolio.$.stakePercentage":   in.StakePercentage,
		"investmentPortfolio.$.yearOfInvestment":  in.YearOfInvestment,
		"investmentPortfolio.$.currentStatus":     in.CurrentStatus,
		"investmentPortfolio.$.exitAmount":        in.ExitAmount,
		"investmentPortfolio.$.additionalDetails": in.detailsJSON(),
		"investmentPortfolio.$.updatedAt":         now,
		"lastUpdated":                             now,
		"updatedAt":                               now,
	}

	res, err := investorDashboardCollection.UpdateOne(ctx,
		bson.M{"investorId": investorID, "investmentPortfolio._id": investmentID},
		bson.M{
			"$set": set,
			"$push": bson.M{"audit": models.NewAuditEntry(
				models.ActorInvestor, investorID.Hex(), "update_investment",
				bson.M{"investmentId": investmentID.Hex(), "companyName": in.CompanyName})},
		})
	if err != nil {
		log.WithError(err).Error("update investment")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "investment_not_found", "Investment not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Investment updated successfully",
	})
}

// DeleteInvestment pulls one child from the portfolio.
func DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	investorID, ok := requireInvestor(w, r)
	if !ok {
		return
	}
	investmentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["investmentId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid investment ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	res, err := investorDashboardCollection.UpdateOne(ctx,
		bson.M{"investorId": investorID, "investmentPortfolio._id": investmentID},
		bson.M{
			"$pull": bson.M{"investmentPortfolio": bson.M{"_id": investmentID}},
			"$push": bson.M{"audit": models.NewAuditEntry(
				models.ActorInvestor, investorID.Hex(), "delete_investment",
				bson.M{"investmentId": investmentID.Hex()})},
			"$set": bson.M{"lastUpdated": now, "updatedAt": now},
		})
	if err != nil {
		log.WithError(err).Error("delete investment")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithErrorCode(w, http.StatusNotFound, "investment_not_found", "Investment not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Investment deleted successfully",
	})
}

// investmentSummary aggregates the portfolio for the listing response.
// Active positions value at currentValuation*stake when both are present,
// falling back to cost; exited positions contribute realized returns.
func investmentSummary(investments []models.Investment) map[string]interface{} {
	byYear := map[int]map[string]interface{}{}
	byStatus := map[string]int{}

	var totalInvested, totalCurrent, totalReturns, stakeSum float64
	var active, exited int

	for _, inv := range investments {
		totalInvested += inv.AmountInvested
		stakeSum += inv.StakePercentage

		switch inv.CurrentStatus {
		case "Active":
			current := inv.AmountInvested
			if inv.CurrentValuation != 0 && inv.StakePercentage != 0 {
				current = inv.CurrentValuation * (inv.StakePercentage / 100)
			}
			totalCurrent += current
			active++
		case "Exited":
			totalReturns += inv.ExitAmount - inv.AmountInvested
			exited++
		}

		if inv.YearOfInvestment != 0 {
			group, ok := byYear[inv.YearOfInvestment]
			if !ok {
				group = map[string]interface{}{"count": 0, "amount": 0.0}
				byYear[inv.YearOfInvestment] = group
			}
			group["count"] = group["count"].(int) + 1
			group["amount"] = group["amount"].(float64) + inv.AmountInvested
		}
		if inv.CurrentStatus != "" {
			byStatus[inv.CurrentStatus]++
		}
	}

	averageStake := "0.00"
	if len(investments) > 0 {
		averageStake = fmt.Sprintf("%.2f", stakeSum/float64(len(investments)))
	}
	totalROI := "0.00"
	if totalInvested != 0 {
		totalROI = fmt.Sprintf("%.2f", (totalCurrent+totalReturns-totalInvested)/totalInvested*100)
	}

	return map[string]interface{}{
		"totalInvestments":    len(investments),
		"totalAmountInvested": totalInvested,
		"totalCurrentValue":   totalCurrent,
		"activeInvestments":   active,
		"exitedInvestments":   exited,
		"totalReturns":        totalReturns,
		"averageStake":        averageStake,
		"totalROI":            totalROI,
		"investmentsByYear":   byYear,
		"investmentsByStatus": byStatus,
	}
}

// AdminListInvestors returns every investor account.
func AdminListInvestors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := investorCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.WithError(err).Error("admin list investors")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer cursor.Close(ctx)

	investors := []models.Investor{}
	if err := cursor.All(ctx, &investors); err != nil {
		log.WithError(err).Error("admin list investors: decode")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"investors": investors})
}

// AdminGetInvestorDetails returns one investor account plus their dashboard.
func AdminGetInvestorDetails(w http.ResponseWriter, r *http.Request) {
	investorID, err := primitive.ObjectIDFromHex(mux.Vars(r)["investorId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid investor ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var investor models.Investor
	err = investorCollection.FindOne(ctx, bson.M{"_id": investorID}).Decode(&investor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithErrorCode(w, http.StatusNotFound, "investor_not_found", "Investor not found")
			return
		}
		log.WithError(err).Error("admin investor details")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	var dashboard *models.InvestorDashboard
	var d models.InvestorDashboard
	if err := investorDashboardCollection.FindOne(ctx, bson.M{"investorId": investorID}).Decode(&d); err == nil {
		dashboard = &d
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"investor":  investor,
		"dashboard": dashboard,
	})
}

// AdminGetInvestorInvestments returns one investor's portfolio with summary.
func AdminGetInvestorInvestments(w http.ResponseWriter, r *http.Request) {
	investorID, err := primitive.ObjectIDFromHex(mux.Vars(r)["investorId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid investor ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var dashboard models.InvestorDashboard
	err = investorDashboardCollection.FindOne(ctx, bson.M{"investorId": investorID}).Decode(&dashboard)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithErrorCode(w, http.StatusNotFound, "dashboard_not_found", "Investor data not found")
			return
		}
		log.WithError(err).Error("admin investor investments")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"investments": dashboard.InvestmentPortfolio,
			"summary":     investmentSummary(dashboard.InvestmentPortfolio),
		},
	})
}
