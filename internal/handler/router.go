package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cruise-booking/internal/handler/api"
	"cruise-booking/internal/handler/middleware"
	"cruise-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	orderHandler *api.OrderHandler,
	paymentHandler *api.PaymentHandler,
	inventoryHandler *api.InventoryHandler,
	registry *prometheus.Registry,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, orderHandler, paymentHandler, inventoryHandler, registry)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	orderHandler *api.OrderHandler,
	paymentHandler *api.PaymentHandler,
	inventoryHandler *api.InventoryHandler,
	registry *prometheus.Registry,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		orders := apiGroup.Group("/orders")
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: orderHandler.CreateOrder},
				{Method: http.MethodGet, Path: "", Handler: orderHandler.ListOrders},
				{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.GetOrder},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: orderHandler.CancelOrder},
				{Method: http.MethodPost, Path: "/:id/passengers", Handler: orderHandler.SubmitPassengers},
				{Method: http.MethodPost, Path: "/:id/refund", Handler: orderHandler.RequestRefund},
				{Method: http.MethodPost, Path: "/:id/refund/process", Handler: orderHandler.ProcessRefund},
				{Method: http.MethodPost, Path: "/:id/refund/complete", Handler: orderHandler.CompleteRefund},
				{Method: http.MethodPost, Path: "/:id/payments", Handler: paymentHandler.InitiatePayment},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/callback", Handler: paymentHandler.Callback},
				{Method: http.MethodGet, Path: "/:paymentNo", Handler: paymentHandler.GetPayment},
				{Method: http.MethodPost, Path: "/:paymentNo/poll", Handler: paymentHandler.Poll},
			})
		}

		voyages := apiGroup.Group("/voyages")
		{
			addRoutes(voyages, []route{
				{Method: http.MethodGet, Path: "/:voyageId/inventory", Handler: inventoryHandler.GetVoyageInventory},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
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
