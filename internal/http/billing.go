package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/libraryhub/internal/services"
)

// BillingController handles fees and payments.
type BillingController struct {
	billing Billing
}

func NewBillingController(billing Billing) *BillingController {
	return &BillingController{billing: billing}
}

// ListFees handles GET /api/fees
func (bc *BillingController) ListFees(c *gin.Context) {
	fees, err := bc.billing.ListFees(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch fees")
		return
	}
	c.JSON(http.StatusOK, fees)
}

// CreateFee handles POST /api/fees
func (bc *BillingController) CreateFee(c *gin.Context) {
	var input services.CreateFeeInput
	if !bindJSON(c, &input) {
		return
	}

	fee, err := bc.billing.CreateFee(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create fee")
		return
	}
	respondEntity(c, fee)
}

// ListPayments handles GET /api/payments
func (bc *BillingController) ListPayments(c *gin.Context) {
	payments, err := bc.billing.ListPayments(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// CreatePayment handles POST /api/payments
// A payment that references a fee settles that fee.
func (bc *BillingController) CreatePayment(c *gin.Context) {
	var input services.CreatePaymentInput
	if !bindJSON(c, &input) {
		return
	}

	payment, err := bc.billing.CreatePayment(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create payment")
		return
	}
	respondEntity(c, payment)
}

// MarkPaymentPending handles PATCH /api/payments/:id/mark-pending
func (bc *BillingController) MarkPaymentPending(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := bc.billing.MarkPaymentPending(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to update payment")
		return
	}
	respondSuccess(c, "Payment marked as pending")
}
