package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"agent-spend-governor/internal/core/domain"
	"agent-spend-governor/internal/core/ports"
	"agent-spend-governor/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	agentRepo ports.AgentRepository
	hashSvc   ports.HashService
	encSvc    ports.EncryptionService
	tokenSvc  ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	agentRepo ports.AgentRepository,
	hashSvc ports.HashService,
	encSvc ports.EncryptionService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		agentRepo: agentRepo,
		hashSvc:   hashSvc,
		encSvc:    encSvc,
		tokenSvc:  tokenSvc,
	}
}

// Register creates the owner account with its governed agent.
// The agent starts unfunded, unpaused and with an empty allow-list.
// Returns the access_key and secret_key (plaintext shown only once).
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.RegisterResponse, error) {
	existing, err := s.agentRepo.GetByUsername(ctx, req.OwnerUsername)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	accessKey, err := generateRandomHex(32) // 64 hex chars
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate access key: %w", err))
	}

	secretKey, err := generateRandomHex(32) // 64 hex chars
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate secret key: %w", err))
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	secretKeyEnc, err := s.encSvc.Encrypt(secretKey)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt secret key: %w", err))
	}

	now := time.Now().UTC()
	agent := &domain.Agent{
		ID:              uuid.New(),
		Name:            req.AgentName,
		OwnerUsername:   req.OwnerUsername,
		PasswordHash:    passwordHash,
		AccessKey:       accessKey,
		SecretKeyEnc:    secretKeyEnc,
		RemainingBudget: 0,
		CooldownUntil:   now,
		Paused:          false,
		WebhookURL:      req.WebhookURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create agent: %w", err))
	}

	return &ports.RegisterResponse{
		AgentID:   agent.ID,
		AccessKey: accessKey,
		SecretKey: secretKey,
	}, nil
}

// Login validates owner credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	agent, err := s.agentRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find agent: %w", err))
	}
	if agent == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, agent.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(agent.ID, agent.AccessKey)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
