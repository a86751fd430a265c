package router

import (
	"net/http"
	"time"

	"github.com/raulvilera/projetoarp/internal/config"
	"github.com/raulvilera/projetoarp/internal/handlers"
	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/services"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Muitas requisições. Tente novamente mais tarde."})
}

func newLimiter(rate time.Duration, limit uint) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rate,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})
}

func Setup(log *zap.Logger, questionnaire *models.Questionnaire, email *services.EmailService) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	// The collection UI and the dashboard are SPAs on other origins.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.Conf.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", handlers.SignatureHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("drps_session", store))

	router.Use(UserLoaderMiddleware(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
	})

	// Handlers
	responseHandler := handlers.NewResponseHandler(log, questionnaire)
	dashboardHandler := handlers.NewDashboardHandler(log, questionnaire)
	companyHandler := handlers.NewCompanyHandler(log, questionnaire)
	authHandler := handlers.NewAuthHandler(log, email)
	subscriptionHandler := handlers.NewSubscriptionHandler(log)

	// Public submission endpoint gets a generous limit; login a strict one.
	submitLimiter := newLimiter(time.Minute, 30)
	loginLimiter := newLimiter(time.Minute, 5)

	api := router.Group("/api")
	{
		api.POST("/responses", submitLimiter, responseHandler.Submit)
		api.GET("/questionnaire", responseHandler.Questionnaire)
		api.GET("/dashboard/stats", dashboardHandler.Stats)

		api.POST("/auth/register", loginLimiter, authHandler.Register)
		api.POST("/auth/login", loginLimiter, authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/subscription/status", subscriptionHandler.Status)

		api.POST("/webhooks/payment", subscriptionHandler.Webhook)

		// Management surface: account plus active subscription required.
		gated := api.Group("/")
		gated.Use(AuthRequired(log), SubscriptionRequired(log))
		{
			gated.GET("/dashboard/report", dashboardHandler.Report)
			gated.GET("/dashboard/chart", dashboardHandler.Chart)

			gated.POST("/companies", companyHandler.Create)
			gated.GET("/companies", companyHandler.List)
			gated.GET("/companies/:id", companyHandler.Get)
			gated.DELETE("/companies/:id", companyHandler.Delete)
			gated.GET("/companies/:id/report", companyHandler.Report)
		}
	}

	return router
}
