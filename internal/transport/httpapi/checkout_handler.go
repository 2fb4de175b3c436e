package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateCheckoutSession обрабатывает POST /api/orders/create-checkout-session.
// Создание сессии не связано с созданием заказа: никакие данные сессии
// в заказ не попадают, фронтенд редиректит пользователя по идентификатору.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var req checkoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if h.metrics != nil {
			h.metrics.RecordCheckoutSession("invalid_request")
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if h.gateway == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "checkout gateway is not configured"})
		return
	}

	sessionID, err := h.gateway.CreateSession(req.toItems())
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordCheckoutSession("error")
		}
		h.respondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCheckoutSession("created")
	}
	c.JSON(http.StatusOK, checkoutSessionResponse{ID: sessionID})
}
