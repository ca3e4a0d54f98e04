package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"festivo/models"
	"festivo/services/hold"

	"github.com/gin-gonic/gin"
)

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

func newHoldTestServer(t *testing.T) (*gin.Engine, *hold.DefaultHoldManager, *fakeClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	manager := hold.NewHoldManager(clock, 15*time.Minute, time.Hour)
	t.Cleanup(manager.Stop)
	timer := hold.NewReservationTimer(manager, clock, time.Hour)
	t.Cleanup(timer.Stop)
	manager.AttachNotifier(timer)

	h := NewHoldHandler(manager, timer)
	r := gin.New()
	r.POST("/api/holds", h.CreateHold)
	r.PATCH("/api/holds/:id/extend", h.ExtendHold)
	r.DELETE("/api/holds/:id", h.ReleaseHold)
	r.GET("/api/services/:serviceId/hold", h.GetServiceHold)
	return r, manager, clock
}

func postHold(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/holds", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateHoldEndpoint(t *testing.T) {
	r, _, _ := newHoldTestServer(t)

	w := postHold(t, r, models.CreateHoldRequest{
		ServiceID: "slot-1", ProviderID: "prov-1", HolderID: "user-1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["holdId"] == "" || resp["serviceId"] != "slot-1" {
		t.Fatalf("response = %v", resp)
	}
}

func TestCreateHoldEndpoint_Conflict(t *testing.T) {
	r, _, _ := newHoldTestServer(t)

	first := postHold(t, r, models.CreateHoldRequest{
		ServiceID: "slot-1", ProviderID: "prov-1", HolderID: "user-1",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201", first.Code)
	}

	second := postHold(t, r, models.CreateHoldRequest{
		ServiceID: "slot-1", ProviderID: "prov-1", HolderID: "user-2",
	})
	if second.Code != http.StatusConflict {
		t.Fatalf("second status = %d, want 409; body %s", second.Code, second.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["code"] != "alreadyHeld" {
		t.Fatalf("code = %v, want alreadyHeld", resp["code"])
	}
}

func TestCreateHoldEndpoint_MissingFields(t *testing.T) {
	r, _, _ := newHoldTestServer(t)
	w := postHold(t, r, map[string]string{"serviceId": "slot-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestExtendHoldEndpoint(t *testing.T) {
	r, manager, clock := newHoldTestServer(t)

	h, err := manager.CreateHold(context.Background(), models.CreateHoldRequest{
		ServiceID: "slot-1", ProviderID: "prov-1", HolderID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateHold: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/holds/"+h.ID+"/extend",
		bytes.NewReader([]byte(`{"additionalSeconds":300}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	// Expired holds get 410 Gone.
	clock.Advance(25 * time.Minute)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/holds/"+h.ID+"/extend",
		bytes.NewReader([]byte(`{"additionalSeconds":300}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusGone {
		t.Fatalf("status = %d, want 410; body %s", w.Code, w.Body.String())
	}
}

func TestExtendHoldEndpoint_NotFound(t *testing.T) {
	r, _, _ := newHoldTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/holds/ghost/extend",
		bytes.NewReader([]byte(`{"additionalSeconds":300}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestReleaseHoldEndpoint_AlwaysNoContent(t *testing.T) {
	r, manager, _ := newHoldTestServer(t)

	h, err := manager.CreateHold(context.Background(), models.CreateHoldRequest{
		ServiceID: "slot-1", ProviderID: "prov-1", HolderID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateHold: %v", err)
	}

	for _, id := range []string{h.ID, h.ID, "never-existed"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/holds/"+id, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("DELETE %s status = %d, want 204", id, w.Code)
		}
	}
	if manager.IsServiceHeld("slot-1") {
		t.Fatal("service still held after release")
	}
}

func TestGetServiceHoldEndpoint(t *testing.T) {
	r, manager, _ := newHoldTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/services/slot-1/hold", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["held"] != false {
		t.Fatalf("held = %v, want false", resp["held"])
	}

	if _, err := manager.CreateHold(context.Background(), models.CreateHoldRequest{
		ServiceID: "slot-1", ProviderID: "prov-1", HolderID: "user-1",
	}); err != nil {
		t.Fatalf("CreateHold: %v", err)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/services/slot-1/hold", nil)
	r.ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["held"] != true {
		t.Fatalf("held = %v, want true", resp["held"])
	}
}
