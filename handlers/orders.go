package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"
	"food-marketplace-api/store"
)

type OrderItemRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Price     int64  `json:"price" binding:"gte=0"`
}

type CreateOrderRequest struct {
	CustomerID      string               `json:"customerId" binding:"required"`
	BusinessID      string               `json:"businessId" binding:"required"`
	TotalAmount     int64                `json:"totalAmount" binding:"gte=0"`
	DeliveryFee     int64                `json:"deliveryFee" binding:"gte=0"`
	DeliveryAddress string               `json:"deliveryAddress" binding:"required"`
	DeliveryNotes   string               `json:"deliveryNotes"`
	RequestedTime   string               `json:"requestedTime"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod"`
	Items           []OrderItemRequest   `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status    models.OrderStatus `json:"status" binding:"required"`
	DriverID  string             `json:"driverId"`
	ChangedBy string             `json:"changedBy"`
	Note      string             `json:"note"`
}

// CreateOrder creates an order with its items in one unit
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, err := h.Store.CreateOrder(models.Order{
		CustomerID:      req.CustomerID,
		BusinessID:      req.BusinessID,
		TotalAmount:     req.TotalAmount,
		DeliveryFee:     req.DeliveryFee,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryNotes:   req.DeliveryNotes,
		RequestedTime:   req.RequestedTime,
		PaymentMethod:   req.PaymentMethod,
	}, items)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder fetches one order with its items and history
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.Store.GetOrderWithItems(id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetCustomerOrders lists a customer's orders
func (h *Handler) GetCustomerOrders(c *gin.Context) {
	orders, err := h.Store.OrdersByCustomer(c.Param("uid"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetBusinessOrders lists a business's orders, with an optional ?status=
// filter and a per-status summary for the dashboard.
func (h *Handler) GetBusinessOrders(c *gin.Context) {
	orders, err := h.Store.OrdersByBusiness(c.Param("uid"))
	if err != nil {
		storeError(c, err)
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := []models.OrderWithItems{}
		for _, o := range orders {
			if o.Status == models.OrderStatus(status) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         len(orders),
		"order_summary": summary,
		"orders":        orders,
	})
}

// GetDriverOrders lists orders assigned to a driver
func (h *Handler) GetDriverOrders(c *gin.Context) {
	orders, err := h.Store.OrdersByDriver(c.Param("uid"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetAvailableOrders lists pickup-ready orders with no driver assigned
func (h *Handler) GetAvailableOrders(c *gin.Context) {
	orders, err := h.Store.AvailableOrders()
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus transitions an order and optionally claims it for a driver
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !statemachine.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + string(req.Status)})
		return
	}

	order, err := h.Store.UpdateOrderStatus(id, store.StatusUpdate{
		Status:    req.Status,
		DriverID:  req.DriverID,
		ChangedBy: req.ChangedBy,
		Note:      req.Note,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetStateMachineInfo documents the order lifecycle
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"statuses":    statemachine.AllStatuses(),
		"transitions": statemachine.GetAllTransitions(),
	})
}
