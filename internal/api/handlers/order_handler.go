package handlers

import (
	"net/http"
	"strconv"

	"fireworks-wms-api-server/internal/repository"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Orders *repository.OrderRepository
}

// GetOrders lists orders, optionally filtered by fulfillment status.
// Cancelled orders are hidden unless ?cancelled=true.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	includeCancelled := c.Query("cancelled") == "true"

	orders, err := h.Orders.List(c.Request.Context(), c.Query("status"), includeCancelled, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Orders.FindByIDWithItems(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
