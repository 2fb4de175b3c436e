package httpapi

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/metrics"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/order"
)

// Handler объединяет HTTP-обработчики поверх сервиса заказов и платёжного шлюза.
type Handler struct {
	orders  *order.Service
	gateway domain.CheckoutGateway
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewHandler создаёт набор HTTP-обработчиков.
func NewHandler(orders *order.Service, gateway domain.CheckoutGateway, m *metrics.OrderMetrics, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return &Handler{
		orders:  orders,
		gateway: gateway,
		logger:  logger,
		metrics: m,
	}
}

// NewRouter собирает gin-роутер со всеми маршрутами и middleware.
func NewRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(handler.logger), requestMetrics(handler.metrics))

	api := router.Group("/api")
	orders := api.Group("/orders")
	orders.GET("", handler.ListOrders)
	orders.GET("/count", handler.CountOrders)
	orders.GET("/:id", handler.GetOrder)
	orders.POST("/create", handler.CreateOrder)
	orders.PUT("/:id", handler.UpdateOrder)
	orders.DELETE("/:id", handler.DeleteOrder)
	orders.POST("/create-checkout-session", handler.CreateCheckoutSession)

	return router
}
