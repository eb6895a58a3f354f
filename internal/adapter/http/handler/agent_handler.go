package handler

import (
	"agent-spend-governor/internal/adapter/http/dto"
	"agent-spend-governor/internal/adapter/http/middleware"
	"agent-spend-governor/internal/core/ports"
	"agent-spend-governor/pkg/apperror"
	"agent-spend-governor/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AgentHandler handles owner endpoints for the governed agent.
type AgentHandler struct {
	govSvc ports.GovernanceService
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(govSvc ports.GovernanceService) *AgentHandler {
	return &AgentHandler{govSvc: govSvc}
}

// Fund handles POST /api/v1/agent/fund.
func (h *AgentHandler) Fund(c *gin.Context) {
	agentID, ok := c.Get(middleware.CtxAgentID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	balance, err := h.govSvc.FundAgent(c.Request.Context(), ports.FundRequest{
		AgentID: agentID.(uuid.UUID),
		Amount:  req.Amount,
		IsOwner: c.GetBool(middleware.CtxIsOwner),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"remaining_budget": balance})
}

// Pause handles POST /api/v1/agent/pause.
func (h *AgentHandler) Pause(c *gin.Context) {
	agentID, ok := c.Get(middleware.CtxAgentID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	paused, err := h.govSvc.TogglePause(c.Request.Context(), agentID.(uuid.UUID), c.GetBool(middleware.CtxIsOwner))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PauseResponse{Paused: paused})
}

// Info handles GET /api/v1/agent.
func (h *AgentHandler) Info(c *gin.Context) {
	agentID, ok := c.Get(middleware.CtxAgentID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	info, err := h.govSvc.GetAgentInfo(c.Request.Context(), agentID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AgentInfoResponse{
		RemainingBudget: info.RemainingBudget,
		CooldownUntil:   info.CooldownUntil.Format("2006-01-02T15:04:05Z07:00"),
		Paused:          info.Paused,
	})
}
