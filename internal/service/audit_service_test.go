package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"agent-spend-governor/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// recordingAuditRepo captures entries without a database.
type recordingAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	done    chan struct{}
}

func (r *recordingAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	r.done <- struct{}{}
	return nil
}

func TestAuditService_Log_PersistsAsync(t *testing.T) {
	repo := &recordingAuditRepo{done: make(chan struct{}, 1)}
	svc := NewAuditService(repo, zerolog.Nop())

	agentID := uuid.New()
	svc.Log(context.Background(), &domain.AuditLog{
		ID:           uuid.New(),
		AgentID:      &agentID,
		Action:       domain.AuditActionPurchase,
		ResourceType: "receipt",
		IPAddress:    "10.0.0.1",
		CreatedAt:    time.Now().UTC(),
	})

	select {
	case <-repo.done:
	case <-time.After(time.Second):
		t.Fatal("audit entry was not persisted")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Len(t, repo.entries, 1)
	assert.Equal(t, domain.AuditActionPurchase, repo.entries[0].Action)
}

func TestAuditService_Log_NilRepo(t *testing.T) {
	svc := NewAuditService(nil, zerolog.Nop())

	// Must not panic without a repository.
	svc.Log(context.Background(), &domain.AuditLog{
		Action:       domain.AuditActionLogin,
		ResourceType: "session",
	})
	time.Sleep(50 * time.Millisecond)
}
