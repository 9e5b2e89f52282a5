package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the gin engine with every route and middleware.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(h.Log), RequestLogger(h.Log), Metrics(h.Metrics), CORS(h.corsOrigin()))

	metricsHandler := h.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metricsHandler))

	limited := func(scope string) gin.HandlerFunc {
		return RateLimit(h.Storage, scope, h.RateLimit, h.RateLimitSpan, h.Log)
	}

	r.GET("/ws/chat", limited("ws"), h.ServeChatWebSocket)

	api := r.Group("/api")
	{
		api.POST("/claims", h.CreateClaim)
		api.GET("/claims/track", h.TrackClaim)

		api.GET("/blog", h.ListBlogPosts)
		api.GET("/blog/:slug", h.GetBlogPost)
		api.GET("/pages", h.ListPages)
		api.GET("/pages/:slug", h.GetPage)
		api.GET("/partners", h.ListPartners)
		api.GET("/press", h.ListPressReleases)
		api.GET("/press/:slug", h.GetPressRelease)
		api.GET("/team", h.ListTeamMembers)

		api.GET("/airports", h.SearchAirports)
		api.GET("/flights/search", limited("flights"), h.SearchFlights)
		api.GET("/compensation/estimate", h.EstimateCompensation)
		api.POST("/chat", limited("chat"), h.Chat)
		api.POST("/contact", limited("contact"), h.Contact)
		api.POST("/uploads/presign", h.PresignUpload)
		api.POST("/admin/login", limited("login"), h.Login)
	}

	admin := api.Group("", AdminAuth(h.JWTSecret))
	{
		admin.GET("/claims", h.ListClaims)
		admin.GET("/claims/:id", h.GetClaim)
		admin.PATCH("/claims/:id", h.UpdateClaim)
		admin.GET("/claims/:id/comments", h.ListClaimComments)
		admin.POST("/claims/:id/comments", h.AddClaimComment)

		admin.GET("/admin/blog", h.AdminListBlogPosts)
		admin.POST("/blog", h.CreateBlogPost)
		admin.PATCH("/blog/:id", h.UpdateBlogPost)
		admin.DELETE("/blog/:id", h.DeleteBlogPost)

		admin.GET("/admin/pages", h.AdminListPages)
		admin.POST("/pages", h.CreatePage)
		admin.PATCH("/pages/:id", h.UpdatePage)
		admin.DELETE("/pages/:id", h.DeletePage)

		admin.GET("/admin/partners", h.AdminListPartners)
		admin.POST("/partners", h.CreatePartner)
		admin.PATCH("/partners/:id", h.UpdatePartner)
		admin.DELETE("/partners/:id", h.DeletePartner)

		admin.GET("/admin/press", h.AdminListPressReleases)
		admin.POST("/press", h.CreatePressRelease)
		admin.PATCH("/press/:id", h.UpdatePressRelease)
		admin.DELETE("/press/:id", h.DeletePressRelease)

		admin.GET("/admin/team", h.AdminListTeamMembers)
		admin.POST("/team", h.CreateTeamMember)
		admin.PATCH("/team/:id", h.UpdateTeamMember)
		admin.DELETE("/team/:id", h.DeleteTeamMember)

		admin.GET("/chat-sessions", h.ListChatSessions)
		admin.GET("/chat-sessions/:id", h.GetChatSession)
	}

	return r
}

func (h *Handler) corsOrigin() string {
	if h.CORSOrigin == "" {
		return "*"
	}
	return h.CORSOrigin
}
