package hold

import (
	"context"
	"sync"
	"time"

	"festivo/models"
	"festivo/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultHoldDuration is the soft-hold lifetime when none is configured.
const DefaultHoldDuration = 15 * time.Minute

// DefaultSweepInterval is how often the background sweep deactivates
// expired holds.
const DefaultSweepInterval = 30 * time.Second

// inactiveRetention is how long a deactivated hold stays queryable by id
// (so extend/release on it reports "expired" rather than "not found").
const inactiveRetention = 10 * time.Minute

// StoreCheck optionally confirms with the durable store that a service is
// still bookable before a hold is granted.
type StoreCheck interface {
	ConfirmBookable(ctx context.Context, providerID, serviceID string) error
}

// ExpiryNotifier receives hold lifecycle signals for countdown observers.
type ExpiryNotifier interface {
	HoldExpired(holdID string)
	HoldReleased(holdID string)
}

// Manager grants, extends, releases, and auto-expires soft holds.
type Manager interface {
	CreateHold(ctx context.Context, req models.CreateHoldRequest) (*models.SoftHold, error)
	ExtendHold(holdID string, additional time.Duration) (time.Time, error)
	ReleaseHold(holdID string)
	IsServiceHeld(serviceID string) bool
	GetHoldForService(serviceID string) *models.SoftHold
	GetHold(holdID string) *models.SoftHold
	ActiveHoldCount(serviceID string) int
	Stop()
}

// DefaultHoldManager keeps the hold table in a single mutex-guarded map so
// check-then-create is atomic: two concurrent CreateHold calls for the same
// service cannot both succeed. Expiry is enforced by a background sweep the
// manager owns, plus a lazy check inside every read so observers never see
// an expired hold as active.
type DefaultHoldManager struct {
	mu        sync.Mutex
	byService map[string]*models.SoftHold // active holds only
	byID      map[string]*models.SoftHold // active and recently deactivated

	clock        utils.Clock
	holdDuration time.Duration
	store        StoreCheck // optional
	notifier     ExpiryNotifier

	stopOnce sync.Once
	done     chan struct{}
}

// NewHoldManager constructs a manager and starts its expiry sweep.
func NewHoldManager(clock utils.Clock, holdDuration, sweepInterval time.Duration) *DefaultHoldManager {
	if clock == nil {
		clock = utils.SystemClock()
	}
	if holdDuration <= 0 {
		holdDuration = DefaultHoldDuration
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	m := &DefaultHoldManager{
		byService:    make(map[string]*models.SoftHold),
		byID:         make(map[string]*models.SoftHold),
		clock:        clock,
		holdDuration: holdDuration,
		done:         make(chan struct{}),
	}
	go m.sweepLoop(sweepInterval)
	return m
}

// SetStoreCheck enables the optional durable-store confirmation inside
// CreateHold.
func (m *DefaultHoldManager) SetStoreCheck(s StoreCheck) { m.store = s }

// AttachNotifier wires countdown observers to hold lifecycle events.
func (m *DefaultHoldManager) AttachNotifier(n ExpiryNotifier) { m.notifier = n }

// CreateHold grants an exclusive soft hold on the requested service, or
// fails with ErrAlreadyHeld while another active, unexpired hold exists.
func (m *DefaultHoldManager) CreateHold(ctx context.Context, req models.CreateHoldRequest) (*models.SoftHold, error) {
	if m.store != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := m.store.ConfirmBookable(checkCtx, req.ProviderID, req.ServiceID); err != nil {
			if checkCtx.Err() != nil {
				return nil, ErrStoreUnavailable
			}
			return nil, err
		}
	}

	reason := req.Reason
	if reason == "" {
		reason = models.HoldReasonBooking
	}

	m.mu.Lock()
	now := m.clock.Now()
	if existing, ok := m.byService[req.ServiceID]; ok {
		if existing.IsActive && existing.ExpiresAt.After(now) {
			m.mu.Unlock()
			return nil, ErrAlreadyHeld
		}
		// Expired but not yet swept: deactivate in place and fall through.
		m.deactivateLocked(existing)
		defer m.notifyExpired(existing.ID)
	}

	h := &models.SoftHold{
		ID:         uuid.New().String(),
		ServiceID:  req.ServiceID,
		ProviderID: req.ProviderID,
		HolderID:   req.HolderID,
		Reason:     reason,
		StartTime:  now,
		ExpiresAt:  now.Add(m.holdDuration),
		IsActive:   true,
	}
	m.byService[req.ServiceID] = h
	m.byID[h.ID] = h
	// Snapshot before releasing the mutex; the sweep may deactivate h the
	// moment the lock drops.
	out := *h
	m.mu.Unlock()

	utils.GetLogger().Debug("soft hold created",
		zap.String("holdID", out.ID),
		zap.String("serviceID", out.ServiceID),
		zap.String("holderID", out.HolderID))

	return &out, nil
}

// ExtendHold pushes the expiry forward by the given duration. The expiry
// decision and the extension share the manager mutex, so the sweep can never
// deactivate a hold that was just extended.
func (m *DefaultHoldManager) ExtendHold(holdID string, additional time.Duration) (time.Time, error) {
	if additional <= 0 {
		return time.Time{}, ErrInvalidDuration
	}

	m.mu.Lock()
	h, ok := m.byID[holdID]
	if !ok {
		m.mu.Unlock()
		return time.Time{}, ErrHoldNotFound
	}
	now := m.clock.Now()
	if !h.IsActive {
		m.mu.Unlock()
		return time.Time{}, ErrHoldInactive
	}
	if !h.ExpiresAt.After(now) {
		m.deactivateLocked(h)
		m.mu.Unlock()
		m.notifyExpired(h.ID)
		return time.Time{}, ErrHoldInactive
	}
	h.ExpiresAt = h.ExpiresAt.Add(additional)
	newExpiry := h.ExpiresAt
	m.mu.Unlock()
	return newExpiry, nil
}

// ReleaseHold deactivates the hold. Releasing an unknown or already-inactive
// hold is a no-op; release is idempotent by design.
func (m *DefaultHoldManager) ReleaseHold(holdID string) {
	m.mu.Lock()
	h, ok := m.byID[holdID]
	if !ok || !h.IsActive {
		m.mu.Unlock()
		return
	}
	m.deactivateLocked(h)
	m.mu.Unlock()

	if m.notifier != nil {
		m.notifier.HoldReleased(holdID)
	}
	utils.GetLogger().Debug("soft hold released", zap.String("holdID", holdID))
}

// IsServiceHeld reports whether an active, unexpired hold exists for the
// service. An expired-but-unswept hold is deactivated on the spot.
func (m *DefaultHoldManager) IsServiceHeld(serviceID string) bool {
	return m.GetHoldForService(serviceID) != nil
}

// GetHoldForService returns the active hold for a service, or nil.
func (m *DefaultHoldManager) GetHoldForService(serviceID string) *models.SoftHold {
	m.mu.Lock()
	h, ok := m.byService[serviceID]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	if !h.ExpiresAt.After(m.clock.Now()) {
		m.deactivateLocked(h)
		m.mu.Unlock()
		m.notifyExpired(h.ID)
		return nil
	}
	out := *h
	m.mu.Unlock()
	return &out
}

// GetHold returns the hold by id, active or recently deactivated, or nil.
// The lazy expiry check applies here too.
func (m *DefaultHoldManager) GetHold(holdID string) *models.SoftHold {
	m.mu.Lock()
	h, ok := m.byID[holdID]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	if h.IsActive && !h.ExpiresAt.After(m.clock.Now()) {
		m.deactivateLocked(h)
		out := *h
		m.mu.Unlock()
		m.notifyExpired(out.ID)
		return &out
	}
	out := *h
	m.mu.Unlock()
	return &out
}

// ActiveHoldCount returns the number of active holds on a service (0 or 1;
// the advisory counter the availability query subtracts from capacity).
func (m *DefaultHoldManager) ActiveHoldCount(serviceID string) int {
	if m.IsServiceHeld(serviceID) {
		return 1
	}
	return 0
}

// ActiveHolds reports the size of the live hold table, for health snapshots.
func (m *DefaultHoldManager) ActiveHolds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byService)
}

// Sweep deactivates every hold whose expiry has passed and prunes old
// inactive entries. Exposed so tests and the sweep loop share one path.
func (m *DefaultHoldManager) Sweep() {
	m.mu.Lock()
	now := m.clock.Now()
	var expired []string
	for id, h := range m.byID {
		if h.IsActive && !h.ExpiresAt.After(now) {
			m.deactivateLocked(h)
			expired = append(expired, id)
			continue
		}
		if !h.IsActive && now.Sub(h.ExpiresAt) > inactiveRetention {
			delete(m.byID, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.notifyExpired(id)
	}
	if len(expired) > 0 {
		utils.GetLogger().Debug("expiry sweep deactivated holds", zap.Int("count", len(expired)))
	}
}

// Stop terminates the background sweep. Safe to call more than once.
func (m *DefaultHoldManager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *DefaultHoldManager) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.done:
			return
		}
	}
}

// deactivateLocked flips the hold inactive and drops the service index entry.
// Callers must hold m.mu.
func (m *DefaultHoldManager) deactivateLocked(h *models.SoftHold) {
	if !h.IsActive {
		return
	}
	h.IsActive = false
	if cur, ok := m.byService[h.ServiceID]; ok && cur.ID == h.ID {
		delete(m.byService, h.ServiceID)
	}
}

func (m *DefaultHoldManager) notifyExpired(holdID string) {
	if m.notifier != nil {
		m.notifier.HoldExpired(holdID)
	}
}
