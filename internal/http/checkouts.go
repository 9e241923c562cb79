package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/libraryhub/internal/services"
)

// CheckoutsController handles lending and returns.
type CheckoutsController struct {
	lending Lending
}

func NewCheckoutsController(lending Lending) *CheckoutsController {
	return &CheckoutsController{lending: lending}
}

// List handles GET /api/checkouts
func (cc *CheckoutsController) List(c *gin.Context) {
	checkouts, err := cc.lending.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch checkouts")
		return
	}
	c.JSON(http.StatusOK, checkouts)
}

// Create handles POST /api/checkouts
func (cc *CheckoutsController) Create(c *gin.Context) {
	var input services.CreateCheckoutInput
	if !bindJSON(c, &input) {
		return
	}

	checkout, err := cc.lending.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create checkout")
		return
	}
	respondEntity(c, checkout)
}

// Return handles PATCH /api/checkouts/:id/return
// A late return also creates a pending late fee.
func (cc *CheckoutsController) Return(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	checkout, err := cc.lending.Return(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to return book")
		return
	}
	c.JSON(http.StatusOK, checkout)
}
