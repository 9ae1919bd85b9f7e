// handlers/auth_handler.go
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnuragSingh014/castle-backend/models"
	"github.com/AnuragSingh014/castle-backend/utils"
)

// Signup registers a company user. Email uniqueness is enforced by the unique
// index, not a pre-read, so concurrent signups cannot race past the check.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Data     bson.M `json:"data"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid email required")
		return
	}
	if len(req.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.WithError(err).Error("signup: hash password")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		SignupData:   req.Data,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := userCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithErrorCode(w, http.StatusConflict, "email_already_registered", "An account with this email already exists")
			return
		}
		log.WithError(err).Error("signup: insert user")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Name, utils.RoleUser)
	if err != nil {
		log.WithError(err).Error("signup: generate JWT")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID.Hex(),
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Login authenticates a company user and issues a JWT.
func Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.ParseJSON(r, &creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if creds.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid email required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": creds.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Constant-time-ish: hash comparison runs even when the user is
			// missing so response timing does not reveal account existence.
			_ = utils.CheckPasswordHash("dummy_password", "$2a$14$dummyhashdummyhashdummyhashdummyhashdummyhashdummyha")
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.WithError(err).Error("login: find user")
		utils.RespondWithError(w, http.StatusInternalServerError, "Authentication service unavailable")
		return
	}

	if !utils.CheckPasswordHash(creds.Password, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Name, utils.RoleUser)
	if err != nil {
		log.WithError(err).Error("login: generate JWT")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	_, err = userCollection.UpdateOne(ctx, bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}})
	if err != nil {
		log.WithError(err).Warn("login: update timestamp")
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID.Hex(),
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// GetUser returns a user's public account record.
func GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
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
		log.WithError(err).Error("get user")
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// InvestorSignup registers an investor account.
func InvestorSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string                        `json:"name"`
		Email    string                        `json:"email"`
		Phone    string                        `json:"phone"`
		Password string                        `json:"password"`
		Profile  models.InvestorAccountProfile `json:"profile"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid email required")
		return
	}
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name required")
		return
	}
	if len(req.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.WithError(err).Error("investor signup: hash password")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	now := time.Now().UTC()
	investor := models.Investor{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		UserType:     "investor",
		IsActive:     true,
		Profile:      req.Profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := investorCollection.InsertOne(ctx, investor)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithErrorCode(w, http.StatusConflict, "email_already_registered", "An account with this email already exists")
			return
		}
		log.WithError(err).Error("investor signup: insert")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	investor.ID = res.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(investor.ID.Hex(), investor.Name, utils.RoleInvestor)
	if err != nil {
		log.WithError(err).Error("investor signup: generate JWT")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"token":    token,
		"investor": investorSummary(&investor),
	})
}

// InvestorLogin authenticates an investor and issues a JWT.
func InvestorLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.ParseJSON(r, &creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var investor models.Investor
	err := investorCollection.FindOne(ctx, bson.M{"email": creds.Email, "isActive": true}).Decode(&investor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.WithError(err).Error("investor login: find")
		utils.RespondWithError(w, http.StatusInternalServerError, "Authentication service unavailable")
		return
	}

	if !utils.CheckPasswordHash(creds.Password, investor.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(investor.ID.Hex(), investor.Name, utils.RoleInvestor)
	if err != nil {
		log.WithError(err).Error("investor login: generate JWT")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"investor": investorSummary(&investor),
	})
}

func investorSummary(inv *models.Investor) map[string]interface{} {
	return map[string]interface{}{
		"id":      inv.ID.Hex(),
		"name":    inv.Name,
		"email":   inv.Email,
		"phone":   inv.Phone,
		"profile": inv.Profile,
	}
}

// AdminLogin authenticates an admin account by username.
func AdminLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := utils.ParseJSON(r, &creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "username and password required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var admin models.Admin
	err := adminCollection.FindOne(ctx, bson.M{"username": creds.Username, "isActive": true}).Decode(&admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.WithError(err).Error("admin login: find")
		utils.RespondWithError(w, http.StatusInternalServerError, "Authentication service unavailable")
		return
	}

	if !utils.CheckPasswordHash(creds.Password, admin.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Username, utils.RoleAdmin)
	if err != nil {
		log.WithError(err).Error("admin login: generate JWT")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	now := time.Now().UTC()
	_, err = adminCollection.UpdateOne(ctx, bson.M{"_id": admin.ID},
		bson.M{"$set": bson.M{"lastLogin": now, "updatedAt": now}})
	if err != nil {
		log.WithError(err).Warn("admin login: update lastLogin")
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"admin": map[string]interface{}{
			"id":       admin.ID.Hex(),
			"username": admin.Username,
		},
	})
}

// AdminProfile returns the authenticated admin's record.
func AdminProfile(w http.ResponseWriter, r *http.Request) {
	adminID, ok := r.Context().Value("userID").(string)
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
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Admin not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, admin)
}

// AdminLogout is stateless on the server; the client discards the token.
func AdminLogout(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}
