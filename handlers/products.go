package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/models"
	"food-marketplace-api/store"
)

type CreateProductRequest struct {
	BusinessID  string `json:"businessId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"gte=0"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	Available   *bool  `json:"available"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" binding:"omitempty,gte=0"`
	ImageURL    *string `json:"imageUrl"`
	Category    *string `json:"category"`
	Available   *bool   `json:"available"`
}

// CreateProduct adds a product to a business's catalog
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	product, err := h.Store.CreateProduct(models.Product{
		BusinessID:  req.BusinessID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Available:   available,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProduct fetches a single product
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.Store.GetProduct(id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetBusinessProducts lists a business's products
func (h *Handler) GetBusinessProducts(c *gin.Context) {
	products, err := h.Store.ProductsByBusiness(c.Param("uid"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// UpdateProduct applies a partial product update
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.Store.UpdateProduct(id, store.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Available:   req.Available,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteProduct(id); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
