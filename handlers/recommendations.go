package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ToggleFavoriteRequest struct {
	UserID   string `json:"userId" binding:"required"`
	RecipeID uint   `json:"recipeId" binding:"required"`
}

// GetRecommendations serves the catalog, personalized by ?userId= when given
func (h *Handler) GetRecommendations(c *gin.Context) {
	recs, err := h.Store.Recommendations(c.Query("userId"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GetFavorites lists a user's favorited recommendation ids
func (h *Handler) GetFavorites(c *gin.Context) {
	ids, err := h.Store.Favorites(c.Param("userId"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": ids})
}

// ToggleFavorite flips a favorite and returns the resulting state
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	on, err := h.Store.ToggleFavorite(req.UserID, req.RecipeID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipeId": req.RecipeID, "favorite": on})
}
