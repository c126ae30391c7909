package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const confirmTokenTTL = 2 * time.Minute

type confirmEntry struct {
	action     string
	resourceID string
	expires    time.Time
}

// ConfirmBroker issues single-use confirmation tokens for destructive
// operations. The first attempt without a token is refused with a token the
// caller echoes back to proceed; consuming is atomic, so a token confirms
// exactly one operation.
type ConfirmBroker struct {
	mu     sync.Mutex
	tokens map[string]confirmEntry
	ttl    time.Duration
	now    func() time.Time
}

// NewConfirmBroker builds a broker with the default token lifetime.
func NewConfirmBroker() *ConfirmBroker {
	return &ConfirmBroker{
		tokens: make(map[string]confirmEntry),
		ttl:    confirmTokenTTL,
		now:    time.Now,
	}
}

// Issue creates a token bound to one action on one resource.
func (b *ConfirmBroker) Issue(action, resourceID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sweepLocked()
	token := uuid.NewString()
	b.tokens[token] = confirmEntry{
		action:     action,
		resourceID: resourceID,
		expires:    b.now().Add(b.ttl),
	}
	return token
}

// Consume redeems a token. It succeeds at most once, and only for the
// action/resource pair it was issued for.
func (b *ConfirmBroker) Consume(token, action, resourceID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.tokens[token]
	if !ok {
		return false
	}
	delete(b.tokens, token)
	if b.now().After(entry.expires) {
		return false
	}
	return entry.action == action && entry.resourceID == resourceID
}

func (b *ConfirmBroker) sweepLocked() {
	now := b.now()
	for token, entry := range b.tokens {
		if now.After(entry.expires) {
			delete(b.tokens, token)
		}
	}
}
