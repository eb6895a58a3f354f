package handler

import (
	"agent-spend-governor/internal/adapter/http/dto"
	"agent-spend-governor/internal/adapter/http/middleware"
	"agent-spend-governor/internal/core/domain"
	"agent-spend-governor/internal/core/ports"
	"agent-spend-governor/pkg/apperror"
	"agent-spend-governor/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MerchantHandler handles allow-list management endpoints.
type MerchantHandler struct {
	govSvc ports.GovernanceService
}

// NewMerchantHandler creates a new MerchantHandler.
func NewMerchantHandler(govSvc ports.GovernanceService) *MerchantHandler {
	return &MerchantHandler{govSvc: govSvc}
}

// Add handles POST /api/v1/merchants.
func (h *MerchantHandler) Add(c *gin.Context) {
	agentID, ok := c.Get(middleware.CtxAgentID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AddMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	merchant, err := h.govSvc.AddMerchant(c.Request.Context(), ports.AddMerchantRequest{
		AgentID:       agentID.(uuid.UUID),
		Name:          req.Name,
		WalletAddress: req.WalletAddress,
		PerTxLimit:    req.PerTxLimit,
		IsOwner:       c.GetBool(middleware.CtxIsOwner),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toMerchantResponse(merchant))
}

// List handles GET /api/v1/merchants.
func (h *MerchantHandler) List(c *gin.Context) {
	agentID, ok := c.Get(middleware.CtxAgentID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	merchants, err := h.govSvc.ListMerchants(c.Request.Context(), agentID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.MerchantResponse, 0, len(merchants))
	for i := range merchants {
		items = append(items, toMerchantResponse(&merchants[i]))
	}
	response.OK(c, items)
}

// Remove handles DELETE /api/v1/merchants/:id.
func (h *MerchantHandler) Remove(c *gin.Context) {
	agentID, ok := c.Get(middleware.CtxAgentID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	merchantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid merchant id"))
		return
	}

	if err := h.govSvc.RemoveMerchant(c.Request.Context(), agentID.(uuid.UUID), merchantID, c.GetBool(middleware.CtxIsOwner)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"removed": merchantID.String()})
}

// toMerchantResponse converts domain.Merchant to DTO.
func toMerchantResponse(m *domain.Merchant) dto.MerchantResponse {
	return dto.MerchantResponse{
		ID:            m.ID.String(),
		Name:          m.Name,
		WalletAddress: m.WalletAddress,
		PerTxLimit:    m.PerTxLimit,
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
