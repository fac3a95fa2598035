package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fireworks-wms-api-server/internal/picklist"
	"fireworks-wms-api-server/internal/s3"
	"fireworks-wms-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PickListHandler struct {
	PickLists *picklist.Service
	Hub       *socket.Hub
	// Uploader is nil when no S3 bucket is configured; reports are then
	// simply not archived.
	Uploader *s3.Uploader
	Log      *zap.Logger
}

type PickListRequest struct {
	OrderIDs []int64 `json:"orderIDs" binding:"required"`
}

// CreatePickList builds the consolidated, route-ordered pick list for the
// selected orders. Nothing is persisted; picking state lives in the client
// until completion.
func (h *PickListHandler) CreatePickList(c *gin.Context) {
	var req PickListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.PickLists.BuildForOrders(c.Request.Context(), req.OrderIDs)
	if err != nil {
		if errors.Is(err, picklist.ErrNoOrdersSelected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No orders selected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build pick list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CompletePickList marks every selected order fulfilled, archives the final
// pick list as a CSV report when S3 is configured, and notifies connected
// clients. The status change applies regardless of unpicked rows; the UI is
// expected to have confirmed that.
func (h *PickListHandler) CompletePickList(c *gin.Context) {
	var req PickListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.PickLists.BuildForOrders(c.Request.Context(), req.OrderIDs)
	if err != nil {
		if errors.Is(err, picklist.ErrNoOrdersSelected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No orders selected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build pick list"})
		return
	}

	if err := h.PickLists.Complete(c.Request.Context(), req.OrderIDs); err != nil {
		// Orders updated before the failure stay updated; the caller
		// decides about a retry.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete pick list", "details": err.Error()})
		return
	}

	reportURL := ""
	if h.Uploader != nil {
		var buf bytes.Buffer
		if err := picklist.WriteCSV(&buf, items); err != nil {
			h.Log.Warn("failed to render pick list report", zap.Error(err))
		} else {
			key := fmt.Sprintf("picklists/%s-%s.csv", time.Now().Format("20060102"), uuid.New().String()[:8])
			url, err := h.Uploader.UploadReport(c.Request.Context(), &buf, key)
			if err != nil {
				h.Log.Warn("failed to archive pick list report", zap.Error(err))
			} else {
				reportURL = url
			}
		}
	}

	h.Hub.Broadcast(socket.Event{Type: "picklist.completed", Payload: gin.H{
		"orderIDs": req.OrderIDs,
	}})

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"fulfilled": len(req.OrderIDs),
		"reportURL": reportURL,
	})
}
