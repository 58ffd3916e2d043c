package routes

import (
	"food-marketplace-api/handlers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	api := r.Group("/api")

	// ── Users ──────────────────────────────────────────────────────
	{
		api.POST("/users", h.CreateUser)
		api.GET("/users/:id", h.GetUser)
		api.GET("/users/uid/:uid", h.GetUserByUID)
		api.PATCH("/users/:id", h.UpdateUser)
	}

	// ── Products ───────────────────────────────────────────────────
	{
		api.POST("/products", h.CreateProduct)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/business/:uid", h.GetBusinessProducts)
		api.PATCH("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)
	}

	// ── Orders ─────────────────────────────────────────────────────
	{
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders/available", h.GetAvailableOrders)
		api.GET("/orders/customer/:uid", h.GetCustomerOrders)
		api.GET("/orders/business/:uid", h.GetBusinessOrders)
		api.GET("/orders/driver/:uid", h.GetDriverOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	}

	// ── Payments ───────────────────────────────────────────────────
	{
		api.POST("/create-payment-intent", h.CreatePaymentIntent)
		api.POST("/create-qpay-payment", h.CreateQPayPayment)
		api.GET("/qpay-qr/:invoiceId", h.QPayQRCode)
		api.GET("/check-payment/:id", h.CheckPayment)
		api.POST("/stripe-checkout", h.StripeCheckout)
		api.GET("/stripe-static-checkout", h.StripeStaticCheckout)
	}

	// ── Recommendations ────────────────────────────────────────────
	{
		api.GET("/recommendations", h.GetRecommendations)
		api.GET("/favorites/:userId", h.GetFavorites)
		api.POST("/favorites/toggle", h.ToggleFavorite)
	}

	// State machine info (great for docs/Postman)
	api.GET("/state-machine", h.GetStateMachineInfo)
}
