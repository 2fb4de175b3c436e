package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

// CreateOrder обрабатывает POST /api/orders/create.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	created, err := h.orders.Create(req.toParams())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(created))
}

// GetOrder обрабатывает GET /api/orders/:id.
func (h *Handler) GetOrder(c *gin.Context) {
	found, err := h.orders.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(found))
}

// ListOrders обрабатывает GET /api/orders.
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// CountOrders обрабатывает GET /api/orders/count.
func (h *Handler) CountOrders(c *gin.Context) {
	count, err := h.orders.Count()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, countResponse{TotalOrders: count})
}

// UpdateOrder обрабатывает PUT /api/orders/:id.
func (h *Handler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	updated, err := h.orders.Update(c.Param("id"), req.toParams())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(updated))
}

// DeleteOrder обрабатывает DELETE /api/orders/:id.
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

// respondError транслирует доменные ошибки в HTTP-статусы.
// SaleCreationError отдаётся отдельно: заказ уже durable-обновлён,
// клиент должен видеть, что упала именно запись о продаже.
func (h *Handler) respondError(c *gin.Context, err error) {
	var saleErr *domain.SaleCreationError
	switch {
	case errors.As(err, &saleErr):
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "order updated but sale creation failed",
			OrderID: saleErr.OrderID,
		})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNumberSpaceExhausted), errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		h.logger.WithError(err).Error("unhandled request error")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
