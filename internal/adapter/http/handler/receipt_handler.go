package handler

import (
	"io"
	"math"
	"strconv"

	"agent-spend-governor/internal/adapter/http/dto"
	"agent-spend-governor/internal/adapter/http/middleware"
	"agent-spend-governor/internal/core/ports"
	"agent-spend-governor/pkg/apperror"
	"agent-spend-governor/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceiptHandler handles receipt journal endpoints.
type ReceiptHandler struct {
	govSvc ports.GovernanceService
	stream ports.ReceiptStream
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(govSvc ports.GovernanceService, stream ports.ReceiptStream) *ReceiptHandler {
	return &ReceiptHandler{govSvc: govSvc, stream: stream}
}

// List handles GET /api/v1/receipts.
func (h *ReceiptHandler) List(c *gin.Context) {
	agentID, ok := c.Get(middleware.CtxAgentID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.ReceiptListParams{
		AgentID:  agentID.(uuid.UUID),
		Page:     page,
		PageSize: pageSize,
	}

	if m := c.Query("merchant_id"); m != "" {
		if id, err := uuid.Parse(m); err == nil {
			params.MerchantID = &id
		}
	}
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &v
		}
	}

	receipts, total, err := h.govSvc.ListReceipts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		items = append(items, toReceiptResponse(&receipts[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	response.OK(c, dto.ReceiptListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// Stream handles GET /api/v1/receipts/stream.
// Pushes receipts committed after the subscription as server-sent
// events; the journal endpoint serves history.
func (h *ReceiptHandler) Stream(c *gin.Context) {
	if _, ok := c.Get(middleware.CtxAgentID); !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	subID, ch := h.stream.Subscribe()
	defer h.stream.Unsubscribe(subID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case receipt, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent("receipt", toReceiptResponse(&receipt))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
