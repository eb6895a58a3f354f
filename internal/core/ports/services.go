package ports

import (
	"context"
	"time"

	"agent-spend-governor/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for owner sessions.
type TokenService interface {
	Generate(agentID uuid.UUID, accessKey string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AgentID   uuid.UUID
	AccessKey string
}

// ReplayCache is the Redis-layer replay check for purchase reference IDs
// (fast path in front of the journal).
type ReplayCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached receipt JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NonceStore manages nonce uniqueness for replay attack prevention
// on the signed agent API.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, agentID string, nonce string, ttl time.Duration) (bool, error)
}

// --- Service Ports (Business Logic) ---

// GovernanceService is the single decision point for agent spending.
// Authorize and admin mutations share one serialization domain; reads
// are side-effect free.
type GovernanceService interface {
	AuthorizePurchase(ctx context.Context, req AuthorizeRequest) (*domain.PurchaseReceipt, error)
	FundAgent(ctx context.Context, req FundRequest) (int64, error)
	TogglePause(ctx context.Context, agentID uuid.UUID, isOwner bool) (bool, error)
	AddMerchant(ctx context.Context, req AddMerchantRequest) (*domain.Merchant, error)
	RemoveMerchant(ctx context.Context, agentID, merchantID uuid.UUID, isOwner bool) error
	GetAgentInfo(ctx context.Context, agentID uuid.UUID) (*AgentInfo, error)
	ListMerchants(ctx context.Context, agentID uuid.UUID) ([]domain.Merchant, error)
	ListReceipts(ctx context.Context, params ReceiptListParams) ([]domain.PurchaseReceipt, int64, error)
}

// AuthorizeRequest holds validated input for purchase authorization.
type AuthorizeRequest struct {
	AgentID     uuid.UUID
	MerchantID  uuid.UUID
	ReferenceID string
	Amount      int64
	Purpose     string
	ClientIP    string
}

// FundRequest holds validated input for crediting the agent budget.
type FundRequest struct {
	AgentID uuid.UUID
	Amount  int64
	IsOwner bool
}

// AddMerchantRequest holds validated input for allow-listing a merchant.
type AddMerchantRequest struct {
	AgentID       uuid.UUID
	Name          string
	WalletAddress string
	PerTxLimit    int64
	IsOwner       bool
}

// AgentInfo is the read-only governance snapshot of the agent.
type AgentInfo struct {
	RemainingBudget int64
	CooldownUntil   time.Time
	Paused          bool
}

// AuthService defines owner authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for owner+agent registration.
type RegisterRequest struct {
	OwnerUsername string
	Password      string
	AgentName     string
	WebhookURL    *string
}

// RegisterResponse holds the registration result shown once.
type RegisterResponse struct {
	AgentID   uuid.UUID
	AccessKey string
	SecretKey string // Plaintext, shown only at registration
}

// ReceiptPublisher pushes a committed receipt to current subscribers.
type ReceiptPublisher interface {
	Publish(receipt domain.PurchaseReceipt)
}

// ReceiptStream is the subscriber side of the notification channel.
// Subscribers see only receipts committed after they subscribe; history
// is served by GovernanceService.ListReceipts.
type ReceiptStream interface {
	Subscribe() (uuid.UUID, <-chan domain.PurchaseReceipt)
	Unsubscribe(id uuid.UUID)
}

// WebhookService defines async receipt delivery to the owner's webhook.
type WebhookService interface {
	Notify(ctx context.Context, receipt *domain.PurchaseReceipt) error
}

// AuditService records audited actions (fire-and-forget).
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
