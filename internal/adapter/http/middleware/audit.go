package middleware

import (
	"encoding/json"
	"time"

	"agent-spend-governor/internal/core/domain"
	"agent-spend-governor/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful write
// operations. It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var agentID *uuid.UUID
		if aid, exists := c.Get(CtxAgentID); exists {
			if id, ok := aid.(uuid.UUID); ok {
				agentID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			AgentID:      agentID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/auth/register" && method == "POST":
		return domain.AuditActionRegister, "agent"
	case path == "/api/v1/auth/login" && method == "POST":
		return domain.AuditActionLogin, "session"
	case path == "/api/v1/purchases" && method == "POST":
		return domain.AuditActionPurchase, "receipt"
	case path == "/api/v1/agent/fund" && method == "POST":
		return domain.AuditActionFund, "agent"
	case path == "/api/v1/agent/pause" && method == "POST":
		return domain.AuditActionTogglePause, "agent"
	case path == "/api/v1/merchants" && method == "POST":
		return domain.AuditActionAddMerchant, "merchant"
	case method == "DELETE" && len(path) > len("/api/v1/merchants/") && path[:len("/api/v1/merchants/")] == "/api/v1/merchants/":
		return domain.AuditActionRemoveMerchant, "merchant"
	}
	return "", ""
}
