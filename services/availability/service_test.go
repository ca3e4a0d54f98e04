package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"festivo/models"
	"festivo/services/hold"
)

type fakeSlotReader struct {
	slots map[string][]models.AvailabilitySlot // keyed by providerID:date
	err   error
}

func slotKey(providerID, date string) string { return providerID + ":" + date }

func (r *fakeSlotReader) GetSlotsByDate(ctx context.Context, providerID, date string) ([]models.AvailabilitySlot, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.slots[slotKey(providerID, date)], nil
}

func (r *fakeSlotReader) GetSlotByID(ctx context.Context, providerID, slotID string) (*models.AvailabilitySlot, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, slots := range r.slots {
		for _, s := range slots {
			if s.ProviderID == providerID && s.ID == slotID {
				out := s
				return &out, nil
			}
		}
	}
	return nil, nil
}

type fakeBookingCounter struct {
	mu     sync.Mutex
	counts map[string]int // keyed by slotID
	err    error
	errFor map[string]error // per-slot failures
}

func (c *fakeBookingCounter) GetBookingCount(ctx context.Context, providerID, date, slotID string) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if err := c.errFor[slotID]; err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[slotID], nil
}

type fakeHoldCounter struct {
	mu    sync.Mutex
	holds map[string]int
}

func (c *fakeHoldCounter) ActiveHoldCount(serviceID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holds[serviceID]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testSlot(id string, start, end, max, current int) models.AvailabilitySlot {
	return models.AvailabilitySlot{
		ID:              id,
		ProviderID:      "prov-1",
		Date:            "2026-03-02",
		Start:           start,
		End:             end,
		MaxBookings:     max,
		CurrentBookings: current,
	}
}

func newTestService(slots []models.AvailabilitySlot, counts map[string]int, holds map[string]int) *DefaultAvailabilityService {
	if counts == nil {
		counts = make(map[string]int)
	}
	if holds == nil {
		holds = make(map[string]int)
	}
	return &DefaultAvailabilityService{
		Slots:    &fakeSlotReader{slots: map[string][]models.AvailabilitySlot{slotKey("prov-1", "2026-03-02"): slots}},
		Bookings: &fakeBookingCounter{counts: counts},
		Holds:    &fakeHoldCounter{holds: holds},
	}
}

func TestQuery_RemainingArithmetic(t *testing.T) {
	svc := newTestService(
		[]models.AvailabilitySlot{
			testSlot("s1", 540, 780, 3, 0), // 3 left
			testSlot("s2", 840, 1080, 3, 2), // 1 left before holds
			testSlot("s3", 1080, 1200, 2, 2), // fully booked
		},
		map[string]int{"s2": 2},
		map[string]int{"s2": 1}, // hold consumes s2's last unit
	)

	got, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("summaries = %d, want 1 (only s1 has capacity)", len(got))
	}
	if got[0].ID != "s1" || got[0].Remaining != 3 {
		t.Fatalf("summary = %+v, want s1 with remaining 3", got[0])
	}
}

func TestQuery_NeverExposesNegativeRemaining(t *testing.T) {
	// More holds than capacity; the slot must simply vanish, not go negative.
	svc := newTestService(
		[]models.AvailabilitySlot{testSlot("s1", 540, 780, 1, 1)},
		map[string]int{"s1": 1},
		map[string]int{"s1": 1},
	)
	got, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("summaries = %v, want none", got)
	}
}

func TestQuery_StableOrdering(t *testing.T) {
	svc := newTestService(
		[]models.AvailabilitySlot{
			testSlot("b", 840, 1080, 1, 0),
			testSlot("a", 840, 1080, 1, 0), // same start, id breaks the tie
			testSlot("c", 540, 780, 1, 0),
		},
		nil, nil,
	)
	got, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	wantOrder := []string{"c", "a", "b"}
	if len(got) != len(wantOrder) {
		t.Fatalf("summaries = %d, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("order[%d] = %s, want %s (full: %+v)", i, got[i].ID, id, got)
		}
	}
}

func TestQuery_Filters(t *testing.T) {
	slots := []models.AvailabilitySlot{
		testSlot("s1", 540, 780, 5, 0),
		testSlot("s2", 840, 1080, 2, 1),
	}
	slots[0].ServiceArea = "north"
	slots[1].ServiceArea = "south"
	svc := newTestService(slots, map[string]int{"s2": 1}, nil)

	byArea, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{ServiceArea: "south"})
	if err != nil {
		t.Fatalf("Query by area: %v", err)
	}
	if len(byArea) != 1 || byArea[0].ID != "s2" {
		t.Fatalf("area filter = %+v, want only s2", byArea)
	}

	byMin, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{MinRemaining: 2})
	if err != nil {
		t.Fatalf("Query by minRemaining: %v", err)
	}
	if len(byMin) != 1 || byMin[0].ID != "s1" {
		t.Fatalf("minRemaining filter = %+v, want only s1", byMin)
	}
}

func TestQuery_SlotReadFailure(t *testing.T) {
	svc := &DefaultAvailabilityService{
		Slots:    &fakeSlotReader{err: errors.New("mongo down")},
		Bookings: &fakeBookingCounter{},
		Holds:    &fakeHoldCounter{},
	}
	if _, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{}); err == nil {
		t.Fatal("expected error when the slot store is unreachable")
	}
}

func TestQuery_TotalCountOutageIsAnError(t *testing.T) {
	storeErr := errors.New("mongo down")
	svc := &DefaultAvailabilityService{
		Slots: &fakeSlotReader{slots: map[string][]models.AvailabilitySlot{
			slotKey("prov-1", "2026-03-02"): {
				testSlot("s1", 540, 780, 2, 0),
				testSlot("s2", 840, 1080, 2, 0),
			},
		}},
		Bookings: &fakeBookingCounter{err: storeErr},
		Holds:    &fakeHoldCounter{},
	}

	// Every count read failing must not masquerade as a fully booked day.
	if _, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{}); !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want the store failure surfaced", err)
	}
}

func TestQuery_PartialCountOutageDegrades(t *testing.T) {
	svc := &DefaultAvailabilityService{
		Slots: &fakeSlotReader{slots: map[string][]models.AvailabilitySlot{
			slotKey("prov-1", "2026-03-02"): {
				testSlot("s1", 540, 780, 2, 0),
				testSlot("s2", 840, 1080, 2, 0),
			},
		}},
		Bookings: &fakeBookingCounter{
			counts: map[string]int{},
			errFor: map[string]error{"s2": errors.New("read timeout")},
		},
		Holds: &fakeHoldCounter{},
	}

	got, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("summaries = %+v, want only the readable slot", got)
	}
}

func TestQuery_EmptyDayYieldsEmptyNotNil(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	got, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}
}

func TestConfirmBookable(t *testing.T) {
	svc := newTestService(
		[]models.AvailabilitySlot{
			testSlot("open", 540, 780, 2, 1),
			testSlot("full", 840, 1080, 2, 2),
		},
		map[string]int{"open": 1, "full": 2},
		nil,
	)

	if err := svc.ConfirmBookable(context.Background(), "prov-1", "open"); err != nil {
		t.Fatalf("open slot: %v", err)
	}
	if err := svc.ConfirmBookable(context.Background(), "prov-1", "full"); !errors.Is(err, ErrFullyBooked) {
		t.Fatalf("full slot err = %v, want ErrFullyBooked", err)
	}
	if err := svc.ConfirmBookable(context.Background(), "prov-1", "ghost"); !errors.Is(err, ErrSlotUnknown) {
		t.Fatalf("unknown slot err = %v, want ErrSlotUnknown", err)
	}
}

// Hold lifecycle reflected in availability: acquiring the last unit hides the
// slot, releasing brings it back.
func TestQuery_HoldLifecycleAgainstManager(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	manager := hold.NewHoldManager(clock, 15*time.Minute, time.Hour)
	defer manager.Stop()

	svc := &DefaultAvailabilityService{
		Slots: &fakeSlotReader{slots: map[string][]models.AvailabilitySlot{
			slotKey("prov-1", "2026-03-02"): {testSlot("s1", 540, 780, 1, 0)},
		}},
		Bookings: &fakeBookingCounter{counts: map[string]int{}},
		Holds:    manager,
	}

	before, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{})
	if err != nil {
		t.Fatalf("Query before hold: %v", err)
	}
	if len(before) != 1 || before[0].Remaining != 1 {
		t.Fatalf("before hold = %+v, want s1 with remaining 1", before)
	}

	h, err := manager.CreateHold(context.Background(), models.CreateHoldRequest{
		ServiceID: "s1", ProviderID: "prov-1", HolderID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateHold: %v", err)
	}

	during, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{})
	if err != nil {
		t.Fatalf("Query during hold: %v", err)
	}
	if len(during) != 0 {
		t.Fatalf("during hold = %+v, want slot hidden", during)
	}

	manager.ReleaseHold(h.ID)

	after, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{})
	if err != nil {
		t.Fatalf("Query after release: %v", err)
	}
	if len(after) != 1 || after[0].Remaining != 1 {
		t.Fatalf("after release = %+v, want s1 with remaining 1", after)
	}
}

// Remaining capacity stays non-negative across an arbitrary mix of holds,
// confirmations, and releases.
func TestQuery_RemainingNeverNegativeUnderChurn(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	manager := hold.NewHoldManager(clock, 15*time.Minute, time.Hour)
	defer manager.Stop()

	counts := &fakeBookingCounter{counts: map[string]int{}}
	svc := &DefaultAvailabilityService{
		Slots: &fakeSlotReader{slots: map[string][]models.AvailabilitySlot{
			slotKey("prov-1", "2026-03-02"): {testSlot("s1", 540, 780, 3, 0)},
		}},
		Bookings: counts,
		Holds:    manager,
	}

	var lastHoldID string
	steps := []func(){
		func() {
			h, err := manager.CreateHold(context.Background(), models.CreateHoldRequest{
				ServiceID: "s1", ProviderID: "prov-1", HolderID: "user-1",
			})
			if err == nil {
				lastHoldID = h.ID
			}
		},
		func() {
			counts.mu.Lock()
			if counts.counts["s1"] < 3 {
				counts.counts["s1"]++
			}
			counts.mu.Unlock()
		},
		func() {
			if lastHoldID != "" {
				manager.ReleaseHold(lastHoldID)
			}
		},
	}

	for i := 0; i < 30; i++ {
		steps[i%len(steps)]()
		got, err := svc.Query(context.Background(), "prov-1", "2026-03-02", Filters{})
		if err != nil {
			t.Fatalf("Query at step %d: %v", i, err)
		}
		for _, s := range got {
			if s.Remaining < 1 {
				t.Fatalf("step %d exposed remaining %d", i, s.Remaining)
			}
		}
	}
}
