package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"agent-spend-governor/internal/core/domain"
	"agent-spend-governor/internal/core/ports"
	"agent-spend-governor/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GovernanceServiceImpl implements ports.GovernanceService.
//
// One mutex serializes purchase authorization with every admin mutation
// (fund, pause, merchant add/remove), so the check-then-mutate sequence
// is a single critical section and no operation observes intermediate
// state. Inside the critical section the agent row is additionally
// locked FOR UPDATE so the debit, cooldown advance and journal append
// commit or roll back together. Reads bypass the lock.
type GovernanceServiceImpl struct {
	mu sync.Mutex

	agentRepo    ports.AgentRepository
	merchantRepo ports.MerchantRepository
	receiptRepo  ports.ReceiptRepository
	replayCache  ports.ReplayCache
	transactor   ports.DBTransactor
	publisher    ports.ReceiptPublisher
	log          zerolog.Logger

	cooldownInterval time.Duration
	replayTTL        time.Duration
	nowFn            func() time.Time
}

// NewGovernanceService creates a new GovernanceServiceImpl.
func NewGovernanceService(
	agentRepo ports.AgentRepository,
	merchantRepo ports.MerchantRepository,
	receiptRepo ports.ReceiptRepository,
	replayCache ports.ReplayCache,
	transactor ports.DBTransactor,
	publisher ports.ReceiptPublisher,
	cooldownInterval time.Duration,
	replayTTL time.Duration,
	log zerolog.Logger,
) *GovernanceServiceImpl {
	return &GovernanceServiceImpl{
		agentRepo:        agentRepo,
		merchantRepo:     merchantRepo,
		receiptRepo:      receiptRepo,
		replayCache:      replayCache,
		transactor:       transactor,
		publisher:        publisher,
		cooldownInterval: cooldownInterval,
		replayTTL:        replayTTL,
		log:              log,
		nowFn:            func() time.Time { return time.Now().UTC() },
	}
}

// AuthorizePurchase decides whether the agent may execute a purchase.
// Denial checks run in fixed order (pause, allow-list, per-tx limit,
// cooldown, budget) and the first failing check wins with no partial
// effects. On success the budget debit, cooldown advance and receipt
// append are committed as one transaction.
func (s *GovernanceServiceImpl) AuthorizePurchase(ctx context.Context, req ports.AuthorizeRequest) (*domain.PurchaseReceipt, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	replayKey := domain.BuildReplayKey(req.AgentID, req.ReferenceID)

	// Layer 1: Redis replay check
	cached, err := s.replayCache.Get(ctx, replayKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", replayKey).Msg("redis replay check failed, falling through to journal")
	}
	if cached != nil {
		return s.unmarshalCachedReceipt(cached)
	}

	// Layer 2: journal replay check
	prior, err := s.receiptRepo.GetByReference(ctx, req.AgentID, req.ReferenceID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("journal replay check: %w", err))
	}
	if prior != nil {
		return prior, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrPersistenceFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	agent, err := s.agentRepo.GetByIDForUpdate(ctx, dbTx, req.AgentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock agent: %w", err))
	}
	if agent == nil {
		return nil, apperror.ErrNotFound("agent")
	}

	now := s.nowFn()

	// Check 1: pause switch
	if agent.Paused {
		return nil, apperror.ErrSystemPaused()
	}

	// Check 2: merchant allow-list (disabled merchants are not found)
	merchant, err := s.merchantRepo.GetByID(ctx, req.MerchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup merchant: %w", err))
	}
	if merchant == nil || !merchant.Enabled || merchant.AgentID != req.AgentID {
		return nil, apperror.ErrMerchantNotAllowed()
	}

	// Check 3: per-transaction limit
	if !merchant.Allows(req.Amount) {
		return nil, apperror.ErrMerchantLimitExceeded()
	}

	// Check 4: cooldown
	if agent.InCooldown(now) {
		return nil, apperror.ErrCooldownActive()
	}

	// Check 5: budget
	if !agent.CanAfford(req.Amount) {
		return nil, apperror.ErrInsufficientBudget()
	}

	newBudget := agent.RemainingBudget - req.Amount
	cooldownUntil := now.Add(s.cooldownInterval)

	receipt := &domain.PurchaseReceipt{
		ID:          uuid.New(),
		AgentID:     req.AgentID,
		MerchantID:  merchant.ID,
		ReferenceID: req.ReferenceID,
		Amount:      req.Amount,
		Purpose:     req.Purpose,
		CreatedAt:   now,
	}

	if err := s.agentRepo.UpdateGovernanceState(ctx, dbTx, agent.ID, newBudget, cooldownUntil, agent.Paused); err != nil {
		return nil, apperror.ErrPersistenceFailure(fmt.Errorf("debit agent: %w", err))
	}

	if err := s.receiptRepo.Create(ctx, dbTx, receipt); err != nil {
		return nil, apperror.ErrPersistenceFailure(fmt.Errorf("append receipt: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrPersistenceFailure(fmt.Errorf("commit tx: %w", err))
	}

	// Post-commit: cache for replay (best-effort), then notify subscribers.
	if respJSON, err := json.Marshal(receipt); err == nil {
		if err := s.replayCache.Set(ctx, replayKey, respJSON, s.replayTTL); err != nil {
			s.log.Warn().Err(err).Str("key", replayKey).Msg("failed to cache receipt in redis")
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(*receipt)
	}

	s.log.Info().
		Str("receipt_id", receipt.ID.String()).
		Str("merchant_id", merchant.ID.String()).
		Int64("amount", req.Amount).
		Int64("remaining_budget", newBudget).
		Msg("purchase authorized")

	return receipt, nil
}

// FundAgent credits the agent budget. Owner only.
func (s *GovernanceServiceImpl) FundAgent(ctx context.Context, req ports.FundRequest) (int64, error) {
	if !req.IsOwner {
		return 0, apperror.ErrUnauthorized()
	}
	if req.Amount <= 0 {
		return 0, apperror.ErrInvalidAmount()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.ErrPersistenceFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	agent, err := s.agentRepo.GetByIDForUpdate(ctx, dbTx, req.AgentID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock agent: %w", err))
	}
	if agent == nil {
		return 0, apperror.ErrNotFound("agent")
	}

	newBudget := agent.RemainingBudget + req.Amount

	if err := s.agentRepo.UpdateGovernanceState(ctx, dbTx, agent.ID, newBudget, agent.CooldownUntil, agent.Paused); err != nil {
		return 0, apperror.ErrPersistenceFailure(fmt.Errorf("credit agent: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.ErrPersistenceFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("agent_id", agent.ID.String()).
		Int64("amount", req.Amount).
		Int64("remaining_budget", newBudget).
		Msg("agent funded")

	return newBudget, nil
}

// TogglePause flips the global pause switch and returns the new state. Owner only.
func (s *GovernanceServiceImpl) TogglePause(ctx context.Context, agentID uuid.UUID, isOwner bool) (bool, error) {
	if !isOwner {
		return false, apperror.ErrUnauthorized()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return false, apperror.ErrPersistenceFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	agent, err := s.agentRepo.GetByIDForUpdate(ctx, dbTx, agentID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("lock agent: %w", err))
	}
	if agent == nil {
		return false, apperror.ErrNotFound("agent")
	}

	newState := !agent.Paused

	if err := s.agentRepo.UpdateGovernanceState(ctx, dbTx, agent.ID, agent.RemainingBudget, agent.CooldownUntil, newState); err != nil {
		return false, apperror.ErrPersistenceFailure(fmt.Errorf("toggle pause: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return false, apperror.ErrPersistenceFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("agent_id", agent.ID.String()).
		Bool("paused", newState).
		Msg("pause switch toggled")

	return newState, nil
}

// AddMerchant allow-lists a merchant for the agent. Owner only.
// Wallet addresses must be unique among live merchants; re-adding a
// previously removed merchant gets a fresh identity.
func (s *GovernanceServiceImpl) AddMerchant(ctx context.Context, req ports.AddMerchantRequest) (*domain.Merchant, error) {
	if !req.IsOwner {
		return nil, apperror.ErrUnauthorized()
	}
	if req.PerTxLimit <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.merchantRepo.GetEnabledByWallet(ctx, req.AgentID, req.WalletAddress)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check wallet address: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateMerchant()
	}

	now := s.nowFn()
	merchant := &domain.Merchant{
		ID:            uuid.New(),
		AgentID:       req.AgentID,
		Name:          req.Name,
		WalletAddress: req.WalletAddress,
		PerTxLimit:    req.PerTxLimit,
		Enabled:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.merchantRepo.Create(ctx, merchant); err != nil {
		return nil, apperror.ErrPersistenceFailure(fmt.Errorf("insert merchant: %w", err))
	}

	s.log.Info().
		Str("merchant_id", merchant.ID.String()).
		Str("name", merchant.Name).
		Int64("per_tx_limit", merchant.PerTxLimit).
		Msg("merchant allow-listed")

	return merchant, nil
}

// RemoveMerchant soft-deletes a merchant from the allow-list. Owner only.
// Past receipts referencing the merchant remain readable.
func (s *GovernanceServiceImpl) RemoveMerchant(ctx context.Context, agentID, merchantID uuid.UUID, isOwner bool) error {
	if !isOwner {
		return apperror.ErrUnauthorized()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lookup merchant: %w", err))
	}
	if merchant == nil || !merchant.Enabled || merchant.AgentID != agentID {
		return apperror.ErrMerchantNotFound()
	}

	if err := s.merchantRepo.SetEnabled(ctx, merchant.ID, false); err != nil {
		return apperror.ErrPersistenceFailure(fmt.Errorf("disable merchant: %w", err))
	}

	s.log.Info().
		Str("merchant_id", merchant.ID.String()).
		Str("name", merchant.Name).
		Msg("merchant removed from allow-list")

	return nil
}

// GetAgentInfo returns the governance snapshot. Pure read, no side effects.
func (s *GovernanceServiceImpl) GetAgentInfo(ctx context.Context, agentID uuid.UUID) (*ports.AgentInfo, error) {
	agent, err := s.agentRepo.GetByID(ctx, agentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get agent: %w", err))
	}
	if agent == nil {
		return nil, apperror.ErrNotFound("agent")
	}

	return &ports.AgentInfo{
		RemainingBudget: agent.RemainingBudget,
		CooldownUntil:   agent.CooldownUntil,
		Paused:          agent.Paused,
	}, nil
}

// ListMerchants returns the agent's allow-list, enabled entries only.
func (s *GovernanceServiceImpl) ListMerchants(ctx context.Context, agentID uuid.UUID) ([]domain.Merchant, error) {
	merchants, err := s.merchantRepo.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list merchants: %w", err))
	}
	return merchants, nil
}

// ListReceipts returns a newest-first snapshot of the journal. Pure read.
func (s *GovernanceServiceImpl) ListReceipts(ctx context.Context, params ports.ReceiptListParams) ([]domain.PurchaseReceipt, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list receipts: %w", err))
	}
	return receipts, total, nil
}

// unmarshalCachedReceipt deserializes a cached receipt.
func (s *GovernanceServiceImpl) unmarshalCachedReceipt(data []byte) (*domain.PurchaseReceipt, error) {
	receipt := &domain.PurchaseReceipt{}
	if err := json.Unmarshal(data, receipt); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached receipt: %w", err))
	}
	return receipt, nil
}
