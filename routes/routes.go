package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/beaconhr/onboard-api/config"
	"github.com/beaconhr/onboard-api/handlers"
	"github.com/beaconhr/onboard-api/services"
)

// SetupAuthRoutes registers the public identity operations. They sit behind
// the deferred-failure auth gate like everything else on the command surface;
// neither handler consults the authorization context.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB, cfg *config.Config) {
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}

	rg.POST("/auth/register", authHandler.Register)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupInvitationRoutes registers the HR token operations.
func SetupInvitationRoutes(rg *gin.RouterGroup, db *sql.DB, cfg *config.Config, email *services.EmailService) {
	invitationHandler := &handlers.InvitationHandler{DB: db, Cfg: cfg, Email: email}

	rg.POST("/invitations", invitationHandler.IssueToken)
	rg.GET("/invitations", invitationHandler.ListTokens)
}

// SetupOnboardingRoutes registers profile submission, reads and the section
// updates.
func SetupOnboardingRoutes(rg *gin.RouterGroup, db *sql.DB) {
	onboardingHandler := &handlers.OnboardingHandler{DB: db}

	rg.POST("/onboarding", onboardingHandler.Submit)
	rg.GET("/employees/:user_id", onboardingHandler.GetEmployee)
	rg.GET("/profile", onboardingHandler.GetMyProfile)
	rg.PUT("/profile/name", onboardingHandler.UpdateNameSection)
	rg.PUT("/profile/address", onboardingHandler.UpdateAddressSection)
	rg.PUT("/profile/contact", onboardingHandler.UpdateContactSection)
	rg.PUT("/profile/employment", onboardingHandler.UpdateEmploymentSection)
	rg.PUT("/profile/emergency-contacts", onboardingHandler.UpdateEmergencyContacts)
}

// SetupVisaRoutes registers the visa case state machine.
func SetupVisaRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	visaHandler := &handlers.VisaHandler{DB: db, WS: ws}

	rg.GET("/visa", visaHandler.GetOrCreate)
	rg.POST("/visa/documents", visaHandler.UploadDocument)
	rg.PUT("/visa/review", visaHandler.Review)
	rg.GET("/visa/all", visaHandler.ListAll)
}

// SetupAdminRoutes registers the HR directory and application decisions.
func SetupAdminRoutes(rg *gin.RouterGroup, db *sql.DB) {
	adminHandler := &handlers.AdminHandler{DB: db}

	rg.GET("/hr/profiles", adminHandler.GetAllProfiles)
	rg.PUT("/hr/applications/:user_id", adminHandler.DecideApplication)
}
