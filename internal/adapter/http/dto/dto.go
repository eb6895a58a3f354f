package dto

// RegisterRequest is the request body for owner registration.
type RegisterRequest struct {
	Username   string  `json:"username" binding:"required,min=3,max=50"`
	Password   string  `json:"password" binding:"required,min=8,max=128"`
	AgentName  string  `json:"agent_name" binding:"required,min=1,max=100"`
	WebhookURL *string `json:"webhook_url,omitempty" binding:"omitempty,safe_url"`
}

// LoginRequest is the request body for owner login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
// The secret key is returned exactly once, at registration.
type RegisterResponse struct {
	AgentID   string `json:"agent_id"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// PurchaseRequest is the request body for a purchase authorization.
type PurchaseRequest struct {
	ReferenceID string `json:"reference_id" binding:"required,max=100,safe_id"`
	MerchantID  string `json:"merchant_id" binding:"required,uuid"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Purpose     string `json:"purpose" binding:"max=200"`
}

// FundRequest is the request body for crediting the agent budget.
type FundRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// AddMerchantRequest is the request body for allow-listing a merchant.
type AddMerchantRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=100"`
	WalletAddress string `json:"wallet_address" binding:"required,min=1,max=120,safe_id"`
	PerTxLimit    int64  `json:"per_tx_limit" binding:"required,gt=0"`
}

// ReceiptResponse is the response body for a purchase receipt.
type ReceiptResponse struct {
	ID          string `json:"id"`
	ReferenceID string `json:"reference_id"`
	MerchantID  string `json:"merchant_id"`
	Amount      int64  `json:"amount"`
	Purpose     string `json:"purpose,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// AgentInfoResponse is the response body for the agent state query.
type AgentInfoResponse struct {
	RemainingBudget int64  `json:"remaining_budget"`
	CooldownUntil   string `json:"cooldown_until"`
	Paused          bool   `json:"paused"`
}

// PauseResponse is the response body for the pause toggle.
type PauseResponse struct {
	Paused bool `json:"paused"`
}

// MerchantResponse is the response body for an allow-listed merchant.
type MerchantResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	WalletAddress string `json:"wallet_address"`
	PerTxLimit    int64  `json:"per_tx_limit"`
	CreatedAt     string `json:"created_at"`
}

// ReceiptListResponse wraps a paginated receipt list.
type ReceiptListResponse struct {
	Items      []ReceiptResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
