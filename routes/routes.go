package routes

import (
	"time"

	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries what the route-level middleware needs besides handlers.
type Options struct {
	Auth              middleware.Authenticator
	APIKey            middleware.APIKeyAuthOptions
	Redis             middleware.RedisProvider
	AdminSecret       string
	HCaptcha          middleware.HCaptchaOptions
	BookingLimit      middleware.RouteLimitOptions
	DuplicateTTL      time.Duration
	RequestsPerMinute int
	CacheTTL          time.Duration
	AvailabilityTTL   time.Duration
}

// RegisterHealthRoute registers the unauthenticated health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
}

// RegisterBookingRoutes sets up the public booking form and booking reads.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, opts Options) {
	h := hb.Bookings

	bookingGroup := api.Group("/bookings")
	{
		createChain := []gin.HandlerFunc{middleware.HCaptchaMiddleware(opts.HCaptcha)}
		if opts.BookingLimit.Limit > 0 {
			createChain = append(createChain, middleware.RouteRateLimitMiddleware(opts.Redis, opts.BookingLimit))
		}
		createChain = append(createChain,
			middleware.DuplicateGuardMiddleware(opts.Redis, opts.DuplicateTTL),
			h.CreateBooking,
		)
		bookingGroup.POST("", createChain...)
		bookingGroup.GET("", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.BookingsListKey}, h.ListBookings))
		bookingGroup.GET("/availability", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.AvailabilityTTL, Key: handlers.AvailabilityKey}, h.GetAvailability))
		bookingGroup.GET("/:id", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.BookingKey}, h.GetBooking))
		bookingGroup.PATCH("/:id", h.UpdateBooking)
		bookingGroup.DELETE("/:id", h.DeleteBooking)
	}
}

// RegisterClientRoutes registers client management endpoints.
func RegisterClientRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, opts Options) {
	h := hb.Clients
	clientGroup := api.Group("/clients")
	{
		clientGroup.POST("", h.CreateClient)
		clientGroup.GET("", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.ClientsListKey}, h.ListClients))
		clientGroup.GET("/:id", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.ClientKey}, h.GetClient))
		clientGroup.PATCH("/:id", h.UpdateClient)
		clientGroup.DELETE("/:id", h.DeleteClient)
	}
}

// RegisterCatalogRoutes registers treatments and their categories.
func RegisterCatalogRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, opts Options) {
	t := hb.Treatments
	treatmentGroup := api.Group("/treatments")
	{
		treatmentGroup.GET("", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.TreatmentsKey}, t.ListTreatments))
		treatmentGroup.GET("/byCategory/:categoryId", middleware.CacheIDsViaAll(hb.Cache, middleware.IDsViaAllOptions{
			Key:           handlers.TreatmentIDsKey,
			AllKey:        handlers.TreatmentsKey,
			TTL:           opts.CacheTTL,
			AllItemsField: "data",
			ItemsField:    "items",
			Respond:       handlers.RespondByCategory,
		}, t.TreatmentsByCategory))
		treatmentGroup.POST("", t.CreateTreatment)
	}

	cat := hb.Categories
	categoryGroup := api.Group("/treatment-categories")
	{
		categoryGroup.GET("", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.CategoriesKey}, cat.ListCategories))
		categoryGroup.GET("/:id", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.CategoryKey}, cat.GetCategory))
		categoryGroup.POST("", cat.CreateCategory)
	}
}

// RegisterBusinessRoutes registers opening hours and staff.
func RegisterBusinessRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, opts Options) {
	b := hb.Business
	businessGroup := api.Group("/business")
	{
		businessGroup.GET("/opening-hours", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.OpeningHoursKey}, b.GetOpeningHours))
		businessGroup.PUT("/opening-hours/:day", b.SetOpeningHours)
	}

	s := hb.Staff
	staffGroup := api.Group("/staff")
	{
		staffGroup.GET("", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.StaffKey}, s.ListStaff))
		staffGroup.POST("", s.CreateStaff)
	}
}

// RegisterFormSubmissionRoutes registers the website contact form.
func RegisterFormSubmissionRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, opts Options) {
	f := hb.FormSubmissions
	formGroup := api.Group("/form-submissions")
	{
		formGroup.POST("", middleware.HCaptchaMiddleware(opts.HCaptcha), f.SubmitForm)
		formGroup.GET("", middleware.CacheResponse(hb.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: handlers.FormSubmissionsKey}, f.ListFormSubmissions))
	}
}

// RegisterAdminRoutes sets up operator endpoints behind the admin JWT.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware(opts.AdminSecret))
		adminGroup.POST("/apikeys", hb.APIKeys.CreateAPIKey)
		adminGroup.POST("/apikeys/verify", hb.APIKeys.VerifyAPIKey)
		adminGroup.DELETE("/apikeys/:keyId", hb.APIKeys.RevokeAPIKey)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "x-api-key", "h-captcha-response", "x-hcaptcha-token"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())
	r.Use(handlers.RequestLogger())
	if opts.RequestsPerMinute > 0 {
		r.Use(middleware.RateLimitMiddleware(opts.RequestsPerMinute))
	}

	RegisterHealthRoute(r, hb)
	RegisterAdminRoutes(r, hb, opts)

	apiKeyOpts := opts.APIKey
	apiKeyOpts.ExcludePrefixes = append(apiKeyOpts.ExcludePrefixes, "/health", "/api/admin")
	api := r.Group("/api", middleware.APIKeyAuthMiddleware(opts.Auth, apiKeyOpts))

	RegisterBookingRoutes(api, hb, opts)
	RegisterClientRoutes(api, hb, opts)
	RegisterCatalogRoutes(api, hb, opts)
	RegisterBusinessRoutes(api, hb, opts)
	RegisterFormSubmissionRoutes(api, hb, opts)
}
