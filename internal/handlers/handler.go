package handlers

import (
	"medclinic/internal/logger"
	"medclinic/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger

	// templateDir/staticDir allow tests to skip page assets; empty values
	// disable the HTML routes.
	templateDir string
	staticDir   string
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// WithPages enables the server-rendered pages from the given asset dirs.
func (h *Handler) WithPages(templateDir, staticDir string) *Handler {
	h.templateDir = templateDir
	h.staticDir = staticDir
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Server-rendered appointment pages + static assets
	h.registerPageRoutes(router)

	// Minimal WebSocket connection (HTTP upgrade) — same port
	router.GET("/ws/appointments", h.wsAppointments)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/password-reset", h.requestPasswordReset)
		auth.POST("/password-reset/confirm", h.confirmPasswordReset)
		auth.POST("/verify-email", h.verifyEmail)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.identityMiddleware)
	{
		h.registerAccountRoutes(api)
		h.registerAppointmentRoutes(api)
		h.registerDoctorRoutes(api)
		h.registerPrescriptionRoutes(api)
	}
}

func (h *Handler) registerAccountRoutes(api *gin.RouterGroup) {
	account := api.Group("/account")
	{
		account.GET("/profile", h.getProfile)
		account.PUT("/profile", h.updateProfile)
		account.POST("/password", h.changePassword)
		account.POST("/sign-out", h.signOut)
		account.GET("/activities", h.listActivities)
	}
}

func (h *Handler) registerAppointmentRoutes(api *gin.RouterGroup) {
	appts := api.Group("/appointments")
	{
		appts.POST("/", h.bookAppointment)
		// Query params: date (YYYY-MM-DD), status, from, to
		appts.GET("/", h.listAppointments)
		appts.GET("/:id", h.getAppointment)
		appts.POST("/:id/confirm", h.requireDoctor, h.confirmAppointment)
		appts.POST("/:id/cancel", h.cancelAppointment)
	}
}

func (h *Handler) registerDoctorRoutes(api *gin.RouterGroup) {
	doctors := api.Group("/doctors")
	{
		// Query params: q, specialization, city, min_exp, min_rating, page, page_size
		doctors.GET("/", h.listDoctors)
		doctors.GET("/:id", h.getDoctor)
		// Query param: date (YYYY-MM-DD), defaults to today
		doctors.GET("/:id/slots", h.getDoctorSlots)
	}
}

func (h *Handler) registerPrescriptionRoutes(api *gin.RouterGroup) {
	pres := api.Group("/prescriptions")
	{
		pres.POST("/", h.requireDoctor, h.createPrescription)
		pres.GET("/", h.listPrescriptions)
	}
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	if h.templateDir == "" {
		return
	}
	r.LoadHTMLGlob(h.templateDir + "/*.html")
	if h.staticDir != "" {
		r.Static("/static", h.staticDir)
	}
	r.GET("/appointments/", h.appointmentsPage)
	r.GET("/appointments/:id/", h.appointmentDetailPage)
}
