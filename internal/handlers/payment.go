package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"betbingo-backend/internal/models"
	"betbingo-backend/internal/services"
	"betbingo-backend/internal/session"
)

type PaymentHandler struct {
	registry *session.Registry
	payments *services.PaymentService
}

func NewPaymentHandler(registry *session.Registry, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{registry: registry, payments: payments}
}

type createOrderRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	if _, ok := coordinatorFor(c, h.registry); !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	orderID, err := h.payments.CreateOrder(c.Request.Context(), req.Amount, "USD")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create order", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": orderID,
		"amount":   req.Amount,
		"display":  models.FormatMoney(req.Amount),
	})
}

// CaptureOrder finalizes a deposit: the wallet is credited only after the
// provider reports the capture COMPLETED.
func (h *PaymentHandler) CaptureOrder(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	capture, err := h.payments.CaptureOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to capture order", "details": err.Error()})
		return
	}

	if capture.Status != services.OrderStatusCompleted {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  "Payment not completed",
			"status": capture.Status,
		})
		return
	}

	if err := coord.Deposit(capture.Amount, "paypal"); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	snap := coord.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"capture": capture,
		"balance": snap.Balance,
		"display": models.FormatMoney(snap.Balance),
	})
}
