package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/libraryhub/internal/services"
)

// --- Response Types ---

// ErrorResponse is the error body for every API failure.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	HasMore    bool  `json:"hasMore"`
	TotalPages int   `json:"totalPages"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Message: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 with a generic message.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, message string) {
	log.Printf("Internal error (%s %s): %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: message})
}

// respondServiceError maps a service error onto a status code. Client errors
// carry the service message; anything else is logged and answered with
// failureMessage.
func respondServiceError(c *gin.Context, err error, failureMessage string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondBadRequest(c, capitalize(validationErr.Error()))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: capitalize(err.Error())})
	case errors.Is(err, services.ErrUnavailable),
		errors.Is(err, services.ErrAlreadyReturned),
		errors.Is(err, services.ErrConflict):
		respondBadRequest(c, capitalize(err.Error()))
	default:
		respondInternalError(c, err, failureMessage)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// respondEntity sends a 200 OK response with the created or updated entity.
// Create routes answer 200 like the rest of the API.
func respondEntity(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// --- Request Parsing ---

// bindJSON decodes the request body into dst. On failure it responds with
// a 400 and returns false. Field validation happens in the services.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// pathID returns a non-empty :id path parameter or responds with a 400.
func pathID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondBadRequest(c, "id is required")
		return "", false
	}
	return id, true
}

// parsePagination reads page and limit query values, clamping limit to 1..100.
func parsePagination(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
