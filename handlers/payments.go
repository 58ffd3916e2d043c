package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/paymentintent"
)

// qpayInvoice maps a simulated QPay invoice onto the backing Stripe intent.
type qpayInvoice struct {
	PaymentIntentID string
	QRText          string
	Amount          int64
}

type qpayRegistry struct {
	mu sync.Mutex
	m  map[string]qpayInvoice
}

func newQPayRegistry() qpayRegistry {
	return qpayRegistry{m: make(map[string]qpayInvoice)}
}

func (r *qpayRegistry) put(id string, inv qpayInvoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[id] = inv
}

func (r *qpayRegistry) get(id string) (qpayInvoice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.m[id]
	return inv, ok
}

// stripeReady answers the 500 itself when no API key is configured. A missing
// key never blocks server start, only the payment routes.
func (h *Handler) stripeReady(c *gin.Context) bool {
	if h.Cfg.StripeSecretKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe is not configured: STRIPE_SECRET_KEY is missing"})
		return false
	}
	stripe.Key = h.Cfg.StripeSecretKey
	return true
}

type PaymentIntentRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"` // minor units
	OrderID     uint   `json:"orderId"`
	Description string `json:"description"`
}

// CreatePaymentIntent creates a Stripe PaymentIntent in MNT
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.stripeReady(c) {
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String("mnt"),
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.OrderID != 0 {
		params.AddMetadata("order_id", fmt.Sprint(req.OrderID))
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clientSecret":    pi.ClientSecret,
		"paymentIntentId": pi.ID,
	})
}

// CreateQPayPayment simulates a QPay invoice backed by a Stripe PaymentIntent.
// The response carries a QR image URL served by this API plus wallet deep
// links, matching what the QPay dialog on the client expects.
func (h *Handler) CreateQPayPayment(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.stripeReady(c) {
		return
	}

	pi, err := paymentintent.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String("mnt"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invoiceID := uuid.NewString()
	qrText := fmt.Sprintf("qpay://invoice/%s?amount=%d", invoiceID, req.Amount)
	h.qpay.put(invoiceID, qpayInvoice{PaymentIntentID: pi.ID, QRText: qrText, Amount: req.Amount})

	c.JSON(http.StatusOK, gin.H{
		"invoiceId":       invoiceID,
		"paymentIntentId": pi.ID,
		"qrText":          qrText,
		"qrImage":         h.Cfg.PublicBaseURL + "/api/qpay-qr/" + invoiceID,
		"deeplinks": []gin.H{
			{"name": "qPay wallet", "link": qrText},
			{"name": "SocialPay", "link": "socialpay-payment://q?qPay_QRcode=" + invoiceID},
			{"name": "Khan Bank", "link": "khanbank://q?qPay_QRcode=" + invoiceID},
		},
	})
}

// QPayQRCode renders the invoice QR as a PNG
func (h *Handler) QPayQRCode(c *gin.Context) {
	inv, ok := h.qpay.get(c.Param("invoiceId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	png, err := qrcode.Encode(inv.QRText, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// CheckPayment looks up a payment's status by Stripe intent id or QPay
// invoice id
func (h *Handler) CheckPayment(c *gin.Context) {
	if !h.stripeReady(c) {
		return
	}
	id := c.Param("id")
	if inv, ok := h.qpay.get(id); ok {
		id = inv.PaymentIntentID
	}

	pi, err := paymentintent.Get(id, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     pi.ID,
		"status": pi.Status,
		"amount": pi.Amount,
	})
}

type CheckoutRequest struct {
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Name       string `json:"name"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

// StripeCheckout creates a hosted Checkout Session
func (h *Handler) StripeCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.stripeReady(c) {
		return
	}

	if req.Name == "" {
		req.Name = "Order payment"
	}
	if req.SuccessURL == "" {
		req.SuccessURL = h.Cfg.PublicBaseURL + "/checkout/success"
	}
	if req.CancelURL == "" {
		req.CancelURL = h.Cfg.PublicBaseURL + "/checkout/cancel"
	}

	sess, err := checkoutsession.New(&stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("mnt"),
				UnitAmount: stripe.Int64(req.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Name),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": sess.URL, "sessionId": sess.ID})
}

// StripeStaticCheckout redirects to the fixed checkout page
func (h *Handler) StripeStaticCheckout(c *gin.Context) {
	c.Redirect(http.StatusFound, h.Cfg.StaticCheckoutURL)
}
