package routes

import (
	"github.com/gorilla/mux"

	"github.com/AnuragSingh014/castle-backend/handlers"
	"github.com/AnuragSingh014/castle-backend/middleware"
	"github.com/AnuragSingh014/castle-backend/sections"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc("/health", handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION ROUTES (Public)
	// ====================
	r.HandleFunc("/api/auth/signup", handlers.Signup).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/user/{id}", handlers.GetUser).Methods(MethodsGetOnly...)

	r.HandleFunc("/api/investor/auth/signup", handlers.InvestorSignup).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/investor/auth/login", handlers.InvestorLogin).Methods(MethodsPostOnly...)

	r.HandleFunc("/api/admin/login", handlers.AdminLogin).Methods(MethodsPostOnly...)

	// ====================
	// PUBLIC WEBSITE ROUTES
	// ====================
	r.HandleFunc("/api/public/companies", handlers.GetPublishedCompanies).Methods(MethodsGetOnly...)
	r.HandleFunc("/api/public/companies/{companyId}", handlers.GetPublishedCompanyByID).Methods(MethodsGetOnly...)
	r.HandleFunc("/api/public/industries", handlers.GetIndustries).Methods(MethodsGetOnly...)
	r.HandleFunc("/api/public/pdfs", handlers.GetPublicPDFs).Methods(MethodsGetOnly...)
	r.HandleFunc("/api/public/pdfs/{userId}/download", handlers.DownloadPublicPDF).Methods(MethodsGetOnly...)

	// ====================
	// REAL-TIME CHANNEL (token authenticated in the handler)
	// ====================
	r.HandleFunc("/ws", handlers.ServeWS)

	// ====================
	// COMPANY DASHBOARD ROUTES (JWT)
	// ====================
	dashboardRouter := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardRouter.Use(middleware.AuthMiddleware)

	dashboardRouter.HandleFunc("/{userId}", handlers.GetDashboard).Methods(MethodsGetOnly...)
	dashboardRouter.HandleFunc("/{userId}", handlers.DeleteDashboard).Methods(MethodsDeleteOnly...)
	dashboardRouter.HandleFunc("/{userId}/completion-status", handlers.GetCompletionStatus).Methods(MethodsGetOnly...)

	// One explicit route per section; the handler receives its section
	// constant instead of sniffing the path.
	dashboardRouter.HandleFunc("/{userId}/information", handlers.SaveSection(sections.Information)).Methods(MethodsPostOnly...)
	dashboardRouter.HandleFunc("/{userId}/overview", handlers.SaveSection(sections.Overview)).Methods(MethodsPostOnly...)
	dashboardRouter.HandleFunc("/{userId}/informationSheet", handlers.SaveSection(sections.InformationSheet)).Methods(MethodsPostOnly...)
	dashboardRouter.HandleFunc("/{userId}/beneficial-owner", handlers.SaveSection(sections.BeneficialOwnerCertification)).Methods(MethodsPostOnly...)
	dashboardRouter.HandleFunc("/{userId}/company-references", handlers.SaveSection(sections.CompanyReferences)).Methods(MethodsPostOnly...)
	dashboardRouter.HandleFunc("/{userId}/ddform", handlers.SaveSection(sections.DDForm)).Methods(MethodsPostOnly...)
	dashboardRouter.HandleFunc("/{userId}/loan-details", handlers.SaveSection(sections.LoanDetails)).Methods(MethodsPostOnly...)

	dashboardRouter.HandleFunc("/{userId}/loan-request", handlers.GetLoanRequest).Methods(MethodsGetOnly...)
	dashboardRouter.HandleFunc("/{userId}/loan-request", handlers.SaveSection(sections.LoanRequest)).Methods(MethodsPostOnly...)

	// Generic endpoint for clients addressing sections by name.
	dashboardRouter.HandleFunc("/{userId}/section/{section}", handlers.SaveSectionGeneric).Methods(MethodsPostOnly...)

	// Attachments
	dashboardRouter.HandleFunc("/{userId}/upload-pdf", handlers.UploadPDF).Methods(MethodsPostOnly...)
	dashboardRouter.HandleFunc("/{userId}/pdf", handlers.GetUserPDF).Methods(MethodsGetOnly...)
	dashboardRouter.HandleFunc("/{userId}/pdf/download", handlers.DownloadUserPDF).Methods(MethodsGetOnly...)
	dashboardRouter.HandleFunc("/{userId}/upload-signature", handlers.UploadCompanySignature).Methods(MethodsPostOnly...)
	dashboardRouter.HandleFunc("/{userId}/signature", handlers.GetCompanySignature).Methods(MethodsGetOnly...)

	// ====================
	// ADMIN ROUTES (JWT, role=admin)
	// ====================
	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	adminRouter.HandleFunc("/profile", handlers.AdminProfile).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/logout", handlers.AdminLogout).Methods(MethodsPostOnly...)

	adminRouter.HandleFunc("/users", handlers.AdminListUsers).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/users/{userId}", handlers.AdminGetUserDetails).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/users/{userId}/approve", handlers.SetSectionApproval).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/users/{userId}/approve-ceo-dashboard", handlers.ApproveCEODashboard).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/users/{userId}/approve-cfo-dashboard", handlers.ApproveCFODashboard).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/users/{userId}/approve-loan-request", handlers.ApproveLoanRequest).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/users/{userId}/website-display", handlers.SetWebsiteDisplay).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/users/{userId}/public-amount", handlers.SetPublicAmount).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/users/{userId}/presentation", handlers.AdminReplacePresentation).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/users/{userId}/pdf/download", handlers.AdminDownloadPDF).Methods(MethodsGetOnly...)

	adminRouter.HandleFunc("/published-companies", handlers.AdminGetPublishedCompanies).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/pdfs", handlers.AdminGetAllPDFs).Methods(MethodsGetOnly...)

	adminRouter.HandleFunc("/investors", handlers.AdminListInvestors).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/investors/{investorId}", handlers.AdminGetInvestorDetails).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/investors/{investorId}/investments", handlers.AdminGetInvestorInvestments).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/investors/{investorId}/approve-ceo-dashboard", handlers.SetInvestorSectionApproval(sections.CEODashboard)).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/investors/{investorId}/approve-cfo-dashboard", handlers.SetInvestorSectionApproval(sections.CFODashboard)).Methods(MethodsPostOnly...)

	adminRouter.HandleFunc("/upload-signature", handlers.UploadAdminSignature).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/signature", handlers.GetAdminSignature).Methods(MethodsGetOnly...)

	// ====================
	// INVESTOR ROUTES (JWT, role=investor)
	// ====================
	investorRouter := r.PathPrefix("/api/investor/dashboard").Subrouter()
	investorRouter.Use(middleware.InvestorAuthMiddleware)

	investorRouter.HandleFunc("/{investorId}", handlers.GetInvestorDashboard).Methods(MethodsGetOnly...)
	investorRouter.HandleFunc("/{investorId}", handlers.DeleteInvestorDashboard).Methods(MethodsDeleteOnly...)
	investorRouter.HandleFunc("/{investorId}/investor-profile", handlers.SaveInvestorProfile).Methods(MethodsPostOnly...)
	investorRouter.HandleFunc("/{investorId}/ceo-dashboard", handlers.SaveCEODashboard).Methods(MethodsPostOnly...)
	investorRouter.HandleFunc("/{investorId}/cfo-dashboard", handlers.SaveCFODashboard).Methods(MethodsPostOnly...)

	investorRouter.HandleFunc("/{investorId}/investments", handlers.GetInvestmentPortfolio).Methods(MethodsGetOnly...)
	investorRouter.HandleFunc("/{investorId}/investments", handlers.AddInvestment).Methods(MethodsPostOnly...)
	investorRouter.HandleFunc("/{investorId}/investments/{investmentId}", handlers.UpdateInvestment).Methods(MethodsPutOnly...)
	investorRouter.HandleFunc("/{investorId}/investments/{investmentId}", handlers.DeleteInvestment).Methods(MethodsDeleteOnly...)
}
