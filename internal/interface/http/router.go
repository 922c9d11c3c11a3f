package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-system/internal/domain/auth"
	"github.com/yanqian/faq-system/internal/infra/config"
)

// Handlers groups every transport handler the router mounts.
type Handlers struct {
	FAQ    *FAQHandler
	Auth   *AuthHandler
	Upload *UploadHandler
	Web    *WebHandler
}

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handlers Handlers, authSvc auth.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")
	sessions := newSessionManager(cfg.Auth)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
		identify(authSvc, sessions),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", corsMiddleware(cfg.HTTP.AllowedOrigins))
	{
		faqs := api.Group("/faqs", requireAuthForWrites())
		h := handlers.FAQ
		for _, slash := range []string{"", "/"} {
			faqs.GET(slash, h.List)
			faqs.POST(slash, h.Create)
			faqs.POST("/bulk_create"+slash, h.BulkCreate)
			faqs.GET("/:id"+slash, h.Retrieve)
			faqs.PUT("/:id"+slash, h.Update)
			faqs.PATCH("/:id"+slash, h.Update)
			faqs.DELETE("/:id"+slash, h.Delete)
		}
		faqs.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		authAPI := api.Group("/auth")
		authAPI.POST("/register", handlers.Auth.Register)
		authAPI.POST("/login", handlers.Auth.Login)
		authAPI.POST("/refresh", handlers.Auth.Refresh)
		authAPI.GET("/me", requireAuth(), handlers.Auth.Me)
	}

	router.POST("/ckeditor5/image_upload/", requireAuth(), handlers.Upload.ImageUpload)
	router.GET("/media/*key", handlers.Upload.Media)

	web := handlers.Web
	router.GET("/", web.List)
	router.GET("/faqs/", web.LegacyList)

	manage := router.Group("", requireLogin(), noStore())
	{
		manage.GET(createPath, web.CreateForm)
		manage.POST(createPath, web.CreateSubmit)
		manage.GET("/:id/edit/", web.EditForm)
		manage.POST("/:id/edit/", web.EditSubmit)
		manage.GET("/:id/delete/", web.DeleteConfirm)
		manage.POST("/:id/delete/", web.DeleteSubmit)
	}

	accounts := router.Group("/auth")
	{
		guests := accounts.Group("", guestOnly())
		guests.GET("/login/", web.LoginForm)
		guests.POST("/login/", web.LoginSubmit)
		guests.GET("/signup/", web.SignupForm)
		guests.POST("/signup/", web.SignupSubmit)

		accounts.GET("/logout/", web.Logout)
		accounts.POST("/logout/", web.Logout)

		members := accounts.Group("", requireLogin(), noStore())
		members.GET("/profile/", web.Profile)
		members.GET("/delete-account/", web.DeleteAccountForm)
		members.POST("/delete-account/", web.DeleteAccountSubmit)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
