// Package modal decides whether promotional popups may be shown to a
// visitor. Each modal id carries an eligibility policy evaluated against the
// visitor's persisted visit state; at most one modal may be active per
// visitor at a time.
package modal

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"tachpae-storefront/internal/domain"
	"tachpae-storefront/internal/store"
)

// Policy is the per-modal eligibility configuration.
type Policy struct {
	// MinVisitCount gates the modal until the visitor has started at least
	// this many sessions. Zero means no gate.
	MinVisitCount int

	// ShowCooldown is the minimum interval since the modal was last shown
	// before it becomes eligible again.
	ShowCooldown time.Duration

	// ReshowAfter is the minimum interval since the visitor dismissed the
	// modal before eligibility is re-evaluated as true.
	ReshowAfter time.Duration

	// RequireCartItems makes the modal eligible only when the visitor's cart
	// is non-empty; RequireEmptyCart is the inverse. Setting both makes the
	// modal never eligible.
	RequireCartItems bool
	RequireEmptyCart bool
}

// DefaultPolicies mirror the storefront's stock promotions.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		"welcome-offer": {
			ShowCooldown: 24 * time.Hour,
			ReshowAfter:  7 * 24 * time.Hour,
		},
		"cart-reminder": {
			MinVisitCount:    2,
			RequireCartItems: true,
			ShowCooldown:     12 * time.Hour,
			ReshowAfter:      3 * 24 * time.Hour,
		},
		"first-order-discount": {
			RequireEmptyCart: true,
			ShowCooldown:     24 * time.Hour,
			ReshowAfter:      14 * 24 * time.Hour,
		},
	}
}

// Engine evaluates modal eligibility and records the resulting state
// transitions. Persisted state lives in the session store; which modal is
// currently on screen is ephemeral and tracked in memory only.
type Engine struct {
	store    store.Store
	policies map[string]Policy
	now      func() time.Time
	logger   *log.Logger

	mu     sync.Mutex
	active map[string]string // visitorID -> modal currently on screen
}

// New builds an Engine over the given store and policy table.
func New(st store.Store, policies map[string]Policy, logger *log.Logger) *Engine {
	if policies == nil {
		policies = DefaultPolicies()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		store:    st,
		policies: policies,
		now:      time.Now,
		logger:   logger,
		active:   make(map[string]string),
	}
}

// RegisterVisit increments the visitor's session counter. Callers invoke it
// once per new browser session, not per request.
func (e *Engine) RegisterVisit(ctx context.Context, visitorID string) (domain.VisitState, error) {
	state, err := e.store.LoadVisitState(ctx, visitorID)
	if err != nil {
		return domain.VisitState{}, err
	}
	state.VisitCount++
	if err := e.store.SaveVisitState(ctx, visitorID, state); err != nil {
		return domain.VisitState{}, err
	}
	return state, nil
}

// ShouldShow reports whether modalID may be shown to the visitor now: no
// other modal on screen, a policy exists for the id, and the policy's visit,
// cart and cooldown conditions all hold.
func (e *Engine) ShouldShow(ctx context.Context, visitorID, modalID string) (bool, error) {
	policy, ok := e.policies[modalID]
	if !ok {
		return false, nil
	}

	e.mu.Lock()
	_, busy := e.active[visitorID]
	e.mu.Unlock()
	if busy {
		return false, nil
	}

	state, err := e.store.LoadVisitState(ctx, visitorID)
	if err != nil {
		return false, err
	}
	if !eligibleState(policy, state) {
		return false, nil
	}
	return eligibleHistory(policy, state.ModalHistory(modalID), e.now()), nil
}

// eligibleState applies the visit-count and cart-state conditions.
func eligibleState(policy Policy, state domain.VisitState) bool {
	if policy.MinVisitCount > 0 && state.VisitCount < policy.MinVisitCount {
		return false
	}
	if policy.RequireCartItems && !state.CartHasItems {
		return false
	}
	if policy.RequireEmptyCart && state.CartHasItems {
		return false
	}
	return true
}

// eligibleHistory applies the cooldown conditions from the modal's history.
func eligibleHistory(policy Policy, history domain.ModalHistory, now time.Time) bool {
	if history.ShownAt != nil && now.Sub(*history.ShownAt) < policy.ShowCooldown {
		return false
	}
	if history.DismissedAt != nil && now.Sub(*history.DismissedAt) < policy.ReshowAfter {
		return false
	}
	return true
}

// RecordShown marks the modal as on screen and stamps its shown time.
func (e *Engine) RecordShown(ctx context.Context, visitorID, modalID string) error {
	state, err := e.store.LoadVisitState(ctx, visitorID)
	if err != nil {
		return err
	}
	now := e.now()
	history := state.ModalHistory(modalID)
	history.ShownAt = &now
	state.SetModalHistory(modalID, history)
	if err := e.store.SaveVisitState(ctx, visitorID, state); err != nil {
		return err
	}

	e.mu.Lock()
	e.active[visitorID] = modalID
	e.mu.Unlock()
	return nil
}

// RecordDismissed stamps the dismissal time, feeding the reshow cooldown, and
// frees the screen for other modals.
func (e *Engine) RecordDismissed(ctx context.Context, visitorID, modalID string) error {
	state, err := e.store.LoadVisitState(ctx, visitorID)
	if err != nil {
		return err
	}
	now := e.now()
	history := state.ModalHistory(modalID)
	history.DismissedAt = &now
	state.SetModalHistory(modalID, history)
	if err := e.store.SaveVisitState(ctx, visitorID, state); err != nil {
		return err
	}

	e.mu.Lock()
	if e.active[visitorID] == modalID {
		delete(e.active, visitorID)
	}
	e.mu.Unlock()
	return nil
}

// RecordCartOpened stamps the most recent cart-opened time.
func (e *Engine) RecordCartOpened(ctx context.Context, visitorID string) error {
	state, err := e.store.LoadVisitState(ctx, visitorID)
	if err != nil {
		return err
	}
	now := e.now()
	state.CartOpenedAt = &now
	return e.store.SaveVisitState(ctx, visitorID, state)
}

// IsReturningUserWithCart gates "come back to your cart" prompts: true when
// the visitor has been here before and holds items now.
func (e *Engine) IsReturningUserWithCart(ctx context.Context, visitorID string, cartCount int) (bool, error) {
	state, err := e.store.LoadVisitState(ctx, visitorID)
	if err != nil {
		return false, err
	}
	return state.VisitCount > 1 && cartCount > 0, nil
}

// CartOpenDuration returns the time elapsed since the visitor last opened
// their cart; ok is false when the cart was never opened.
func (e *Engine) CartOpenDuration(ctx context.Context, visitorID string) (time.Duration, bool, error) {
	state, err := e.store.LoadVisitState(ctx, visitorID)
	if err != nil {
		return 0, false, err
	}
	if state.CartOpenedAt == nil {
		return 0, false, nil
	}
	return e.now().Sub(*state.CartOpenedAt), true, nil
}
