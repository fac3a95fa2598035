package handlers

import (
	"net/http"

	"fireworks-wms-api-server/internal/repository"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Products *repository.ProductRepository
	Orders   *repository.OrderRepository
}

// GetDashboard returns the warehouse overview widgets: counters and the most
// recent orders.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	productCount, err := h.Products.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
		return
	}

	lowStock, err := h.Products.CountLowStock(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count low-stock products"})
		return
	}

	unassigned, err := h.Products.CountUnassigned(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unassigned products"})
		return
	}

	openOrders, err := h.Orders.CountOpen(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count open orders"})
		return
	}

	recent, err := h.Orders.Recent(ctx, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recent orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":           productCount,
		"lowStockProducts":   lowStock,
		"unassignedProducts": unassigned,
		"openOrders":         openOrders,
		"recentOrders":       recent,
	})
}
