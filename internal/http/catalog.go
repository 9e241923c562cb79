package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/libraryhub/internal/services"
)

// CatalogController handles books and subscription plans.
type CatalogController struct {
	catalog Catalog
}

func NewCatalogController(catalog Catalog) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListBooks handles GET /api/books
func (cc *CatalogController) ListBooks(c *gin.Context) {
	books, err := cc.catalog.ListBooks(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// ListAvailableBooks handles GET /api/books/available
func (cc *CatalogController) ListAvailableBooks(c *gin.Context) {
	books, err := cc.catalog.ListAvailability(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch available books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// CreateBook handles POST /api/books
func (cc *CatalogController) CreateBook(c *gin.Context) {
	var input services.CreateBookInput
	if !bindJSON(c, &input) {
		return
	}

	book, err := cc.catalog.CreateBook(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create book")
		return
	}
	respondEntity(c, book)
}

// ListPlans handles GET /api/subscription-plans
func (cc *CatalogController) ListPlans(c *gin.Context) {
	plans, err := cc.catalog.ListPlans(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch subscription plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// CreatePlan handles POST /api/subscription-plans
func (cc *CatalogController) CreatePlan(c *gin.Context) {
	var input services.CreatePlanInput
	if !bindJSON(c, &input) {
		return
	}

	plan, err := cc.catalog.CreatePlan(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create subscription plan")
		return
	}
	respondEntity(c, plan)
}
