package handlers

import (
	"errors"
	"net/http"

	"fireworks-wms-api-server/internal/shopify"
	"fireworks-wms-api-server/internal/socket"
	"fireworks-wms-api-server/internal/sync"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	Sync *sync.Service
	Hub  *socket.Hub
}

// SyncProducts runs a full catalog sync and returns the summary counters so
// the caller can decide whether a retry is worth it.
func (h *SyncHandler) SyncProducts(c *gin.Context) {
	summary, err := h.Sync.SyncProducts(c.Request.Context())
	if err != nil {
		if errors.Is(err, shopify.ErrMissingCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Shopify credentials are not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Product sync failed", "details": err.Error()})
		return
	}

	h.Hub.Broadcast(socket.Event{Type: "sync.finished", Payload: gin.H{
		"kind":    "products",
		"summary": summary,
	}})

	c.JSON(http.StatusOK, gin.H{"status": "success", "summary": summary})
}

// SyncOrders imports the trailing order window and returns the summary.
func (h *SyncHandler) SyncOrders(c *gin.Context) {
	summary, err := h.Sync.SyncOrders(c.Request.Context())
	if err != nil {
		if errors.Is(err, shopify.ErrMissingCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Shopify credentials are not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Order sync failed", "details": err.Error()})
		return
	}

	h.Hub.Broadcast(socket.Event{Type: "sync.finished", Payload: gin.H{
		"kind":    "orders",
		"summary": summary,
	}})

	c.JSON(http.StatusOK, gin.H{"status": "success", "summary": summary})
}
