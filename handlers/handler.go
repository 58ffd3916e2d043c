package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/config"
	"food-marketplace-api/statemachine"
	"food-marketplace-api/store"
)

// Handler carries the injected repositories and configuration. Every route
// goes through it, so swapping the memory store for the durable one is a
// one-line change in main.
type Handler struct {
	Store store.Store
	Cfg   config.Config

	qpay qpayRegistry
}

func NewHandler(s store.Store, cfg config.Config) *Handler {
	return &Handler{
		Store: s,
		Cfg:   cfg,
		qpay:  newQPayRegistry(),
	}
}

// storeError translates store failures to HTTP responses.
func storeError(c *gin.Context, err error) {
	var transition *statemachine.TransitionError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateUID):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDriverAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrTotalMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "invalid state transition",
			"current_status":    transition.From,
			"requested":         transition.To,
			"reason":            transition.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(transition.From),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
