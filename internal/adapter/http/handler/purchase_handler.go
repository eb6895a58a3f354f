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

// PurchaseHandler handles the signed agent purchase endpoint.
type PurchaseHandler struct {
	govSvc ports.GovernanceService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(govSvc ports.GovernanceService) *PurchaseHandler {
	return &PurchaseHandler{govSvc: govSvc}
}

// Authorize handles POST /api/v1/purchases.
// Replays of a reference_id return the original receipt.
func (h *PurchaseHandler) Authorize(c *gin.Context) {
	agentID, ok := c.Get(middleware.CtxAgentID)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid merchant_id"))
		return
	}

	receipt, err := h.govSvc.AuthorizePurchase(c.Request.Context(), ports.AuthorizeRequest{
		AgentID:     agentID.(uuid.UUID),
		MerchantID:  merchantID,
		ReferenceID: req.ReferenceID,
		Amount:      req.Amount,
		Purpose:     req.Purpose,
		ClientIP:    c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toReceiptResponse(receipt))
}

// toReceiptResponse converts domain.PurchaseReceipt to DTO.
func toReceiptResponse(r *domain.PurchaseReceipt) dto.ReceiptResponse {
	return dto.ReceiptResponse{
		ID:          r.ID.String(),
		ReferenceID: r.ReferenceID,
		MerchantID:  r.MerchantID.String(),
		Amount:      r.Amount,
		Purpose:     r.Purpose,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
