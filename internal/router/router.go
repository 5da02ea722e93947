package router

import (
	"net/http"
	"strings"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/graalonline/support-service/api"
	"github.com/graalonline/support-service/internal/handler"
	"github.com/graalonline/support-service/internal/middleware"
	"github.com/graalonline/support-service/internal/model"
)

type Deps struct {
	Auth    *handler.AuthHandler
	Tickets *handler.TicketHandler
	Users   *handler.UserHandler
	Stats   *handler.StatsHandler
	AuthMW  *middleware.Auth
	// AuthRPS caps per-IP requests to the code-issuing route.
	AuthRPS float64
}

func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/") })
	r.GET("/swagger/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = "/swagger/index.html"
			c.Request.RequestURI = "/swagger/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	lmt := tollbooth.NewLimiter(d.AuthRPS, nil)
	lmt.SetIPLookups([]string{"X-Forwarded-For", "X-Real-IP", "RemoteAddr"})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth", rateLimit(lmt), d.Auth.Authenticate)

		authed := apiGroup.Group("", d.AuthMW.RequireAuth)
		{
			authed.POST("/tickets", d.Tickets.Create)
			authed.GET("/tickets", d.Tickets.ListOrGet)
			authed.PUT("/tickets", d.Tickets.Update)

			admin := authed.Group("", middleware.RequireRole(model.RoleSuperadmin))
			{
				admin.GET("/users", d.Users.Get)
				admin.PUT("/users", d.Users.UpdateRole)
				admin.GET("/admin/statistics", d.Stats.Overview)
			}
		}
	}

	return r
}

func rateLimit(lmt *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpErr := tollbooth.LimitByRequest(lmt, c.Writer, c.Request); httpErr != nil {
			c.AbortWithStatusJSON(httpErr.StatusCode, gin.H{"message": httpErr.Message})
			return
		}
		c.Next()
	}
}
