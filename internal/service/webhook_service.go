package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"agent-spend-governor/internal/core/domain"
	"agent-spend-governor/internal/core/ports"

	"github.com/rs/zerolog"
)

// webhookRetryIntervals defines the delivery retry schedule.
var webhookRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// EventPurchaseReceipt is the webhook event type for committed receipts.
const EventPurchaseReceipt = "PURCHASE_RECEIPT"

// WebhookPayload is the JSON structure sent to the owner's webhook_url.
type WebhookPayload struct {
	EventType string             `json:"event_type"`
	Data      WebhookPayloadData `json:"data"`
	Signature string             `json:"signature"`
}

// WebhookPayloadData holds the receipt details in the webhook.
type WebhookPayloadData struct {
	ReceiptID   string `json:"receipt_id"`
	ReferenceID string `json:"reference_id"`
	MerchantID  string `json:"merchant_id"`
	Amount      int64  `json:"amount"`
	Purpose     string `json:"purpose"`
	Timestamp   int64  `json:"timestamp"`
}

// webhookService implements ports.WebhookService.
type webhookService struct {
	agentRepo  ports.AgentRepository
	encSvc     ports.EncryptionService
	sigSvc     ports.SignatureService
	httpClient HTTPClient
	log        zerolog.Logger
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	agentRepo ports.AgentRepository,
	encSvc ports.EncryptionService,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) ports.WebhookService {
	return &webhookService{
		agentRepo:  agentRepo,
		encSvc:     encSvc,
		sigSvc:     sigSvc,
		httpClient: httpClient,
		log:        log,
	}
}

// Notify delivers the receipt to the owner's webhook asynchronously with
// retries. The payload is signed with the agent secret so the owner can
// verify origin.
func (s *webhookService) Notify(ctx context.Context, receipt *domain.PurchaseReceipt) error {
	agent, err := s.agentRepo.GetByID(ctx, receipt.AgentID)
	if err != nil {
		s.log.Error().Err(err).Str("agent_id", receipt.AgentID.String()).Msg("webhook: failed to fetch agent")
		return err
	}
	if agent == nil || agent.WebhookURL == nil || *agent.WebhookURL == "" {
		s.log.Debug().Str("agent_id", receipt.AgentID.String()).Msg("webhook: no webhook URL configured, skipping")
		return nil
	}

	data := WebhookPayloadData{
		ReceiptID:   receipt.ID.String(),
		ReferenceID: receipt.ReferenceID,
		MerchantID:  receipt.MerchantID.String(),
		Amount:      receipt.Amount,
		Purpose:     receipt.Purpose,
		Timestamp:   receipt.CreatedAt.Unix(),
	}

	secretKey, err := s.encSvc.Decrypt(agent.SecretKeyEnc)
	if err != nil {
		s.log.Error().Err(err).Msg("webhook: failed to decrypt agent secret key")
		return err
	}

	dataBytes, _ := json.Marshal(data)
	signature := s.sigSvc.Sign(secretKey, string(dataBytes))

	payload := WebhookPayload{
		EventType: EventPurchaseReceipt,
		Data:      data,
		Signature: signature,
	}

	go s.deliverWithRetries(*agent.WebhookURL, payload, receipt.ID.String())

	return nil
}

// deliverWithRetries attempts to deliver the webhook per the retry schedule.
func (s *webhookService) deliverWithRetries(url string, payload WebhookPayload, receiptID string) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("receipt_id", receiptID).Msg("webhook: failed to marshal payload")
		return
	}

	for attempt := 0; attempt <= len(webhookRetryIntervals); attempt++ {
		if attempt > 0 {
			time.Sleep(webhookRetryIntervals[attempt-1])
		}

		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payloadBytes))
		if err != nil {
			s.log.Error().Err(err).Str("receipt_id", receiptID).Int("attempt", attempt+1).Msg("webhook: failed to create request")
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			s.log.Warn().Err(err).Str("receipt_id", receiptID).Int("attempt", attempt+1).Msg("webhook: delivery failed")
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			s.log.Info().Str("receipt_id", receiptID).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("webhook: delivered successfully")
			return
		}

		s.log.Warn().Str("receipt_id", receiptID).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("webhook: non-2xx response, retrying")
	}

	s.log.Error().Str("receipt_id", receiptID).Msg("webhook: all retry attempts exhausted")
}
