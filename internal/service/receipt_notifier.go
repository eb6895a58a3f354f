package service

import (
	"sync"

	"agent-spend-governor/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber
// that falls this far behind starts losing receipts rather than
// blocking the authorization path.
const subscriberBuffer = 16

// ReceiptNotifier fans committed receipts out to live subscribers.
// It implements both ports.ReceiptPublisher (producer side, called by
// the governance service after commit) and ports.ReceiptStream
// (consumer side, used by the SSE handler and the webhook dispatcher).
//
// Delivery is at-most-once and only to subscribers present at publish
// time. History is the journal's job, not the notifier's.
type ReceiptNotifier struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]chan domain.PurchaseReceipt
	closed bool
	log    zerolog.Logger
}

// NewReceiptNotifier creates a new ReceiptNotifier.
func NewReceiptNotifier(log zerolog.Logger) *ReceiptNotifier {
	return &ReceiptNotifier{
		subs: make(map[uuid.UUID]chan domain.PurchaseReceipt),
		log:  log,
	}
}

// Publish sends the receipt to every current subscriber without
// blocking. Slow subscribers drop the receipt.
func (n *ReceiptNotifier) Publish(receipt domain.PurchaseReceipt) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return
	}

	for id, ch := range n.subs {
		select {
		case ch <- receipt:
		default:
			n.log.Warn().
				Str("subscriber_id", id.String()).
				Str("receipt_id", receipt.ID.String()).
				Msg("subscriber buffer full, dropping receipt")
		}
	}
}

// Subscribe registers a new subscriber and returns its ID and channel.
// The channel is closed on Unsubscribe or Close.
func (n *ReceiptNotifier) Subscribe() (uuid.UUID, <-chan domain.PurchaseReceipt) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.New()
	ch := make(chan domain.PurchaseReceipt, subscriberBuffer)
	if n.closed {
		close(ch)
		return id, ch
	}
	n.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
// Unknown IDs are a no-op.
func (n *ReceiptNotifier) Unsubscribe(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch, ok := n.subs[id]
	if !ok {
		return
	}
	delete(n.subs, id)
	close(ch)
}

// Close shuts the notifier down, closing all subscriber channels.
// Publish after Close is a no-op.
func (n *ReceiptNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
