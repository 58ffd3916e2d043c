package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/models"
	"food-marketplace-api/store"
)

type CreateUserRequest struct {
	UID           string          `json:"uid" binding:"required"`
	Role          models.UserRole `json:"role" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	BusinessName  string          `json:"businessName"`
	BusinessType  string          `json:"businessType"`
	VehicleType   string          `json:"vehicleType"`
	LicenseNumber string          `json:"licenseNumber"`
	Preferences   []string        `json:"preferences"`
}

type UpdateUserRequest struct {
	Name          *string   `json:"name"`
	Email         *string   `json:"email"`
	Phone         *string   `json:"phone"`
	BusinessName  *string   `json:"businessName"`
	BusinessType  *string   `json:"businessType"`
	VehicleType   *string   `json:"vehicleType"`
	LicenseNumber *string   `json:"licenseNumber"`
	Preferences   *[]string `json:"preferences"`
}

// CreateUser registers a new account
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role, must be: customer, business or delivery"})
		return
	}

	user, err := h.Store.CreateUser(models.User{
		UID:           req.UID,
		Role:          req.Role,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		BusinessName:  req.BusinessName,
		BusinessType:  req.BusinessType,
		VehicleType:   req.VehicleType,
		LicenseNumber: req.LicenseNumber,
		Preferences:   req.Preferences,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser fetches a user by numeric id
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.Store.GetUser(id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByUID fetches a user by external auth id
func (h *Handler) GetUserByUID(c *gin.Context) {
	user, err := h.Store.GetUserByUID(c.Param("uid"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial profile update
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.Store.UpdateUser(id, store.UserUpdate{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		BusinessName:  req.BusinessName,
		BusinessType:  req.BusinessType,
		VehicleType:   req.VehicleType,
		LicenseNumber: req.LicenseNumber,
		Preferences:   req.Preferences,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// pathID parses a numeric path parameter, answering 400 itself on junk input.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id: " + raw})
		return 0, false
	}
	return uint(id), true
}
