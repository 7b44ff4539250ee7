package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bookstore-backoffice/internal/domain/authz"
	"bookstore-backoffice/internal/handler/api"
	"bookstore-backoffice/internal/handler/middleware"
	"bookstore-backoffice/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth   *api.AuthHandler
	Sale   *api.SaleHandler
	Book   *api.BookHandler
	Report *api.ReportHandler
	User   *api.UserHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery is outermost so panics anywhere below are rendered.
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.Tracing())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, am *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	can := am.RequireCapability

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
			})

			authRequired := auth.Group("")
			authRequired.Use(am.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		sales := apiGroup.Group("/sales")
		sales.Use(am.RequireAuth())
		{
			addRoutes(sales, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Sale.Create, Mw: []gin.HandlerFunc{can(authz.CreateSale)}},
				{Method: http.MethodGet, Path: "", Handler: h.Sale.List, Mw: []gin.HandlerFunc{can(authz.ViewAllSales)}},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Sale.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: h.Sale.Update, Mw: []gin.HandlerFunc{can(authz.CreateSale)}},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Sale.Delete, Mw: []gin.HandlerFunc{can(authz.CreateSale)}},
			})
		}

		books := apiGroup.Group("/books")
		books.Use(am.RequireAuth())
		{
			addRoutes(books, []route{
				{Method: http.MethodGet, Path: "/low-stock", Handler: h.Book.LowStock, Mw: []gin.HandlerFunc{can(authz.ManageInventory)}},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Book.Get},
				{Method: http.MethodPut, Path: "/:id/stock", Handler: h.Book.AdjustStock, Mw: []gin.HandlerFunc{can(authz.ManageInventory)}},
			})
		}

		reports := apiGroup.Group("/reports")
		reports.Use(am.RequireAuth(), can(authz.ViewReports))
		{
			addRoutes(reports, []route{
				{Method: http.MethodGet, Path: "/summary", Handler: h.Report.Summary},
				{Method: http.MethodGet, Path: "/daily", Handler: h.Report.Daily},
				{Method: http.MethodGet, Path: "/top-books", Handler: h.Report.TopBooks},
				{Method: http.MethodGet, Path: "/today", Handler: h.Report.Today},
			})
		}

		users := apiGroup.Group("/users")
		users.Use(am.RequireAuth())
		{
			addRoutes(users, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: h.User.Get},
			})
		}
	}
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
