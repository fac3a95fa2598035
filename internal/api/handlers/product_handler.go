package handlers

import (
	"net/http"
	"strconv"

	"fireworks-wms-api-server/internal/repository"
	"fireworks-wms-api-server/internal/socket"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	Products  *repository.ProductRepository
	Locations *repository.LocationRepository
	Hub       *socket.Hub
}

// GetProducts lists products, optionally filtered by a search query over
// name, SKU and barcode.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	products, err := h.Products.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.Products.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetProductByBarcode resolves a scanned barcode to its product.
func (h *ProductHandler) GetProductByBarcode(c *gin.Context) {
	product, err := h.Products.FindByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No product with this barcode"})
		return
	}

	c.JSON(http.StatusOK, product)
}

type UpdateProductRequest struct {
	MinStock        *int    `json:"minStock"`
	StorageLocation *string `json:"storageLocation"`
}

// UpdateProduct changes the warehouse-side fields of a product: min stock
// and the assigned storage location. Catalog fields belong to the shop
// system and are only ever written by a sync.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Products.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if req.MinStock != nil {
		if *req.MinStock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "minStock must not be negative"})
			return
		}
		product.MinStock = *req.MinStock
	}
	if req.StorageLocation != nil {
		if *req.StorageLocation == "" {
			product.StorageLocation = nil
		} else {
			location, err := h.Locations.FindByCode(c.Request.Context(), *req.StorageLocation)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check storage location"})
				return
			}
			if location == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown storage location"})
				return
			}
			product.StorageLocation = &location.Code
		}
	}

	if err := h.Products.Update(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

type AdjustStockRequest struct {
	// Exactly one of Delta or Set is used; Set wins when both are present.
	Delta *int `json:"delta"`
	Set   *int `json:"set"`
}

// AdjustStock applies a scan-driven stock change and notifies connected
// clients.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Delta == nil && req.Set == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either delta or set is required"})
		return
	}

	if req.Set != nil {
		err = h.Products.SetStock(c.Request.Context(), id, *req.Set)
	} else {
		err = h.Products.AdjustStock(c.Request.Context(), id, *req.Delta)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
		return
	}

	product, err := h.Products.FindByID(c.Request.Context(), id)
	if err != nil || product == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload product"})
		return
	}

	h.Hub.Broadcast(socket.Event{Type: "stock.changed", Payload: gin.H{
		"productID":    product.ID,
		"sku":          product.SKU,
		"currentStock": product.CurrentStock,
	}})

	c.JSON(http.StatusOK, product)
}
