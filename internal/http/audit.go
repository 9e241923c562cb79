package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/libraryhub/internal/database/audit"
	"github.com/mrlokans/libraryhub/internal/entities"
)

type AuditController struct {
	audit AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{audit: reader}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?type=reminder&status=failed&entityId=...&page=1&limit=25
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit := parsePagination(c, 25)
	offset := (page - 1) * limit

	filter := audit.EventFilter{
		EventType: entities.AuditEventType(strings.TrimSpace(c.Query("type"))),
		EntityID:  strings.TrimSpace(c.Query("entityId")),
		Status:    entities.AuditStatus(strings.TrimSpace(c.Query("status"))),
	}

	events, total, err := ac.audit.GetEvents(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "Failed to load audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		Limit:      limit,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}
