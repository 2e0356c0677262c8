package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxAuditEntry = "audit_entry"

// AuditEntry is what a handler wants recorded about its operation.
type AuditEntry struct {
	Action       domain.AuditAction
	ResourceType string
	ResourceID   string
	Details      map[string]interface{}
}

// SetAudit tags the request for the audit middleware. Only tagged requests
// that finish with a 2xx status are recorded.
func SetAudit(c *gin.Context, entry AuditEntry) {
	c.Set(ctxAuditEntry, entry)
}

// AuditLog creates an audit middleware that records successful operator
// writes tagged by their handlers.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		raw, ok := c.Get(ctxAuditEntry)
		if !ok {
			return
		}
		entry, ok := raw.(AuditEntry)
		if !ok || entry.Action == "" {
			return
		}

		fields := map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		}
		for k, v := range entry.Details {
			fields[k] = v
		}
		details, _ := json.Marshal(fields)

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			OperatorID:   OperatorID(c),
			Action:       entry.Action,
			ResourceType: entry.ResourceType,
			ResourceID:   entry.ResourceID,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}
