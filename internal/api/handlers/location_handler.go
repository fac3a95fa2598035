package handlers

import (
	"net/http"

	"fireworks-wms-api-server/internal/models"
	"fireworks-wms-api-server/internal/repository"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	Locations *repository.LocationRepository
	Products  *repository.ProductRepository
}

type CreateLocationRequest struct {
	Zone     string `json:"zone" binding:"required"`
	Row      string `json:"row" binding:"required"`
	Shelf    string `json:"shelf" binding:"required"`
	Level    string `json:"level" binding:"required"`
	Capacity int    `json:"capacity" binding:"min=0"`
}

// CreateLocation registers a new shelf position. The code is derived from
// zone, row, shelf and level and must be unique.
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := models.LocationCode(req.Zone, req.Row, req.Shelf, req.Level)

	existing, err := h.Locations.FindByCode(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for location"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Location with this code already exists"})
		return
	}

	location := models.StorageLocation{
		Code:     code,
		Zone:     req.Zone,
		Row:      req.Row,
		Shelf:    req.Shelf,
		Level:    req.Level,
		Capacity: req.Capacity,
	}
	if err := h.Locations.Create(c.Request.Context(), &location); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create location"})
		return
	}

	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) GetAllLocations(c *gin.Context) {
	locations, err := h.Locations.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query locations"})
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) GetLocationByCode(c *gin.Context) {
	location, err := h.Locations.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve location"})
		return
	}
	if location == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	c.JSON(http.StatusOK, location)
}

// GetLocationProducts lists the products stored at one shelf position.
func (h *LocationHandler) GetLocationProducts(c *gin.Context) {
	code := c.Param("code")

	location, err := h.Locations.FindByCode(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve location"})
		return
	}
	if location == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	products, err := h.Products.ByLocation(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": location, "products": products})
}

type UpdateLocationRequest struct {
	Capacity     *int `json:"capacity"`
	CurrentUsage *int `json:"currentUsage"`
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := h.Locations.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve location"})
		return
	}
	if location == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	if req.Capacity != nil {
		location.Capacity = *req.Capacity
	}
	if req.CurrentUsage != nil {
		location.CurrentUsage = *req.CurrentUsage
	}

	if err := h.Locations.Update(c.Request.Context(), location); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	if err := h.Locations.Delete(c.Request.Context(), c.Param("code")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}
