package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartcutlabs/salon-booking/internal/audit"
	"github.com/smartcutlabs/salon-booking/internal/config"
	dbpkg "github.com/smartcutlabs/salon-booking/internal/db"
	"github.com/smartcutlabs/salon-booking/internal/models"
	"github.com/smartcutlabs/salon-booking/internal/routes"
	"github.com/smartcutlabs/salon-booking/internal/store"
)

func newTestServer(t *testing.T) (*gin.Engine, *store.GormStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.NewGormStore(db)
	if err := store.Seed(t.Context(), st); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dispatcher := audit.NewDispatcher(audit.New(db), zerolog.Nop())
	t.Cleanup(dispatcher.Close)

	cfg := &config.Config{
		DBDriver:  "sqlite",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}

	r := gin.New()
	routes.Register(r, routes.Deps{
		DB:     db,
		Store:  st,
		Config: cfg,
		Audit:  dispatcher,
	})

	return r, st
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decode(t, w, &body)
	if code, ok := body["error_code"].(string); ok {
		return code
	}
	code, _ := body["error"].(string)
	return code
}

func register(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()

	w := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "secret123",
		"name":     "Test User",
		"role":     role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()

	w := do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return resp.Token
}

// --------------------------------------------------
// Auth
// --------------------------------------------------

func TestAuthFlow(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
		"name":     "Alice",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}

	var reg struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	decode(t, w, &reg)
	if reg.User["role"] != "customer" {
		t.Fatalf("expected default role customer, got %v", reg.User["role"])
	}
	if _, leaked := reg.User["password"]; leaked {
		t.Fatal("password leaked in register response")
	}

	// Duplicate email.
	w = do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "Alice@Example.com",
		"password": "secret123",
		"name":     "Alice Again",
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "email_already_registered" {
		t.Fatalf("duplicate register: status %d body %s", w.Code, w.Body.String())
	}

	// Admin cannot be self-assigned.
	w = do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "evil@example.com",
		"password": "secret123",
		"name":     "Evil",
		"role":     "admin",
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_role" {
		t.Fatalf("admin register: status %d body %s", w.Code, w.Body.String())
	}

	// Wrong password.
	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized || errorCode(t, w) != "invalid_credentials" {
		t.Fatalf("bad login: status %d body %s", w.Code, w.Body.String())
	}

	token := login(t, r, "alice@example.com", "secret123")

	w = do(t, r, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status %d body %s", w.Code, w.Body.String())
	}
	var me map[string]any
	decode(t, w, &me)
	if me["email"] != "alice@example.com" {
		t.Fatalf("me returned wrong user: %v", me)
	}

	w = do(t, r, http.MethodGet, "/api/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: status %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me with garbage token: status %d", w.Code)
	}
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

type seededBarber struct {
	barber  *models.Barber
	service *models.Service
}

func seededFixture(t *testing.T, st *store.GormStore) seededBarber {
	t.Helper()
	ctx := t.Context()

	user, err := st.GetUserByEmail(ctx, "marcus@smartcut.com")
	if err != nil || user == nil {
		t.Fatalf("seeded barber user: %v %v", user, err)
	}
	barber, err := st.GetBarberByUserID(ctx, user.ID)
	if err != nil || barber == nil {
		t.Fatalf("seeded barber profile: %v %v", barber, err)
	}
	services, err := st.ListServicesByBarber(ctx, barber.ID)
	if err != nil || len(services) == 0 {
		t.Fatalf("seeded services: %v", err)
	}

	for i := range services {
		if services[i].Name == "Classic Haircut" {
			return seededBarber{barber: barber, service: &services[i]}
		}
	}
	t.Fatal("seeded Classic Haircut missing")
	return seededBarber{}
}

func TestBookingFlow(t *testing.T) {
	r, st := newTestServer(t)
	fix := seededFixture(t, st)

	token := register(t, r, "booker@example.com", "")
	availURL := fmt.Sprintf(
		"/api/barbers/%s/availability?date=2026-01-05&service_id=%s",
		fix.barber.ID, fix.service.ID,
	)

	// Monday 09:00-18:00 in 45-minute steps.
	w := do(t, r, http.MethodGet, availURL, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("availability: status %d body %s", w.Code, w.Body.String())
	}
	var avail struct {
		Date  string `json:"date"`
		Slots []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"slots"`
	}
	decode(t, w, &avail)
	if len(avail.Slots) != 12 {
		t.Fatalf("expected 12 free slots, got %d", len(avail.Slots))
	}
	if avail.Slots[0].Start != "09:00" || avail.Slots[0].End != "09:45" {
		t.Fatalf("unexpected first slot: %+v", avail.Slots[0])
	}

	// Book Monday 10:00.
	w = do(t, r, http.MethodPost, "/api/appointments", token, gin.H{
		"barber_id":        fix.barber.ID,
		"service_id":       fix.service.ID,
		"appointment_date": "2026-01-05T10:00:00Z",
		"notes":            "first visit",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("book: status %d body %s", w.Code, w.Body.String())
	}
	var booked struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &booked)
	if booked.Status != "pending" {
		t.Fatalf("expected pending, got %s", booked.Status)
	}

	// Same slot again conflicts.
	w = do(t, r, http.MethodPost, "/api/appointments", token, gin.H{
		"barber_id":        fix.barber.ID,
		"service_id":       fix.service.ID,
		"appointment_date": "2026-01-05T10:00:00Z",
	})
	if w.Code != http.StatusConflict || errorCode(t, w) != "time_conflict" {
		t.Fatalf("conflicting book: status %d body %s", w.Code, w.Body.String())
	}

	// Unknown service is a 404, not a silent booking.
	w = do(t, r, http.MethodPost, "/api/appointments", token, gin.H{
		"barber_id":        fix.barber.ID,
		"service_id":       "no-such-service",
		"appointment_date": "2026-01-05T12:00:00Z",
	})
	if w.Code != http.StatusNotFound || errorCode(t, w) != "service_not_found" {
		t.Fatalf("unknown service book: status %d body %s", w.Code, w.Body.String())
	}

	// The 10:00 booking swallows the two slots it overlaps.
	w = do(t, r, http.MethodGet, availURL, "", nil)
	decode(t, w, &avail)
	if len(avail.Slots) != 10 {
		t.Fatalf("expected 10 free slots after booking, got %d", len(avail.Slots))
	}
	for _, slot := range avail.Slots {
		if slot.Start == "09:45" || slot.Start == "10:30" {
			t.Fatalf("overlapped slot still offered: %+v", slot)
		}
	}

	// My appointments includes the nested barber, salon and service.
	w = do(t, r, http.MethodGet, "/api/appointments/my", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("my appointments: status %d body %s", w.Code, w.Body.String())
	}
	var mine struct {
		Data []struct {
			ID     string `json:"id"`
			Barber struct {
				ID    string `json:"id"`
				Salon struct {
					Name string `json:"name"`
				} `json:"salon"`
			} `json:"barber"`
			Service struct {
				Name string `json:"name"`
			} `json:"service"`
		} `json:"data"`
		Total int `json:"total"`
	}
	decode(t, w, &mine)
	if mine.Total != 1 || len(mine.Data) != 1 {
		t.Fatalf("expected exactly one appointment, got %+v", mine)
	}
	if mine.Data[0].Barber.Salon.Name != "Premium Cuts" {
		t.Fatalf("missing nested salon: %+v", mine.Data[0])
	}
	if mine.Data[0].Service.Name != "Classic Haircut" {
		t.Fatalf("missing nested service: %+v", mine.Data[0])
	}

	// Lifecycle: pending -> confirmed -> completed, then nothing.
	statusURL := "/api/appointments/" + booked.ID + "/status"

	w = do(t, r, http.MethodPatch, statusURL, token, gin.H{"status": "confirmed"})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: status %d body %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPatch, statusURL, token, gin.H{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status %d body %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPatch, statusURL, token, gin.H{"status": "pending"})
	if w.Code != http.StatusConflict || errorCode(t, w) != "invalid_transition" {
		t.Fatalf("reopen completed: status %d body %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPatch, statusURL, token, gin.H{"status": "done"})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_status" {
		t.Fatalf("unknown status: status %d body %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPatch, "/api/appointments/no-such-id/status", token, gin.H{"status": "confirmed"})
	if w.Code != http.StatusNotFound || errorCode(t, w) != "appointment_not_found" {
		t.Fatalf("unknown appointment: status %d body %s", w.Code, w.Body.String())
	}

	// Review the completed appointment; the barber rating follows.
	w = do(t, r, http.MethodPost, "/api/reviews", token, gin.H{
		"barber_id":      fix.barber.ID,
		"appointment_id": booked.ID,
		"rating":         5,
		"comment":        "Sharp work",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("review: status %d body %s", w.Code, w.Body.String())
	}

	barber, err := st.GetBarberByID(t.Context(), fix.barber.ID)
	if err != nil || barber == nil {
		t.Fatalf("get barber: %v %v", barber, err)
	}
	if barber.ReviewCount != 1 || !barber.Rating.IsPositive() {
		t.Fatalf("rating rollup missing: count=%d rating=%s", barber.ReviewCount, barber.Rating)
	}

	w = do(t, r, http.MethodGet, "/api/barbers/"+fix.barber.ID+"/reviews", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list reviews: status %d body %s", w.Code, w.Body.String())
	}
	var reviews struct {
		Total int `json:"total"`
	}
	decode(t, w, &reviews)
	if reviews.Total != 1 {
		t.Fatalf("expected 1 review, got %d", reviews.Total)
	}
}

func TestAvailability_BadRequests(t *testing.T) {
	r, st := newTestServer(t)
	fix := seededFixture(t, st)

	w := do(t, r, http.MethodGet, "/api/barbers/"+fix.barber.ID+"/availability", "", nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "missing_params" {
		t.Fatalf("missing params: status %d body %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet,
		"/api/barbers/"+fix.barber.ID+"/availability?date=tomorrow&service_id="+fix.service.ID, "", nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_date" {
		t.Fatalf("bad date: status %d body %s", w.Code, w.Body.String())
	}

	// Day off: Sunday.
	w = do(t, r, http.MethodGet,
		fmt.Sprintf("/api/barbers/%s/availability?date=2026-01-04&service_id=%s", fix.barber.ID, fix.service.ID),
		"", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("day off: status %d body %s", w.Code, w.Body.String())
	}
	var avail struct {
		Slots []any `json:"slots"`
	}
	decode(t, w, &avail)
	if len(avail.Slots) != 0 {
		t.Fatalf("expected no slots on a day off, got %d", len(avail.Slots))
	}
}

// --------------------------------------------------
// Salon approval
// --------------------------------------------------

func TestSalonApprovalFlow(t *testing.T) {
	r, _ := newTestServer(t)

	barberToken := register(t, r, "newbarber@example.com", "barber")
	adminToken := login(t, r, "admin@smartcut.com", "admin123")

	w := do(t, r, http.MethodPost, "/api/salons", barberToken, gin.H{
		"name":    "Corner Cuts",
		"address": "9 Corner Road",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create salon: status %d body %s", w.Code, w.Body.String())
	}
	var salon struct {
		ID         string `json:"id"`
		IsApproved bool   `json:"is_approved"`
	}
	decode(t, w, &salon)
	if salon.IsApproved {
		t.Fatal("new salon must start unapproved")
	}

	listedNames := func() []string {
		w := do(t, r, http.MethodGet, "/api/salons", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list salons: status %d body %s", w.Code, w.Body.String())
		}
		var list struct {
			Data []struct {
				Name string `json:"name"`
			} `json:"data"`
		}
		decode(t, w, &list)
		names := make([]string, 0, len(list.Data))
		for _, s := range list.Data {
			names = append(names, s.Name)
		}
		return names
	}

	for _, name := range listedNames() {
		if name == "Corner Cuts" {
			t.Fatal("unapproved salon listed publicly")
		}
	}

	w = do(t, r, http.MethodPatch, "/api/admin/salons/"+salon.ID+"/approve", adminToken, gin.H{
		"is_approved": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("approve: status %d body %s", w.Code, w.Body.String())
	}

	found := false
	for _, name := range listedNames() {
		if name == "Corner Cuts" {
			found = true
		}
	}
	if !found {
		t.Fatal("approved salon not listed")
	}

	w = do(t, r, http.MethodPatch, "/api/admin/salons/no-such-id/approve", adminToken, gin.H{
		"is_approved": true,
	})
	if w.Code != http.StatusNotFound || errorCode(t, w) != "salon_not_found" {
		t.Fatalf("approve unknown salon: status %d body %s", w.Code, w.Body.String())
	}

	// The new barber sets up a profile and a service through the API.
	w = do(t, r, http.MethodPost, "/api/barbers", barberToken, gin.H{
		"salon_id": salon.ID,
		"title":    "Barber",
		"working_hours": gin.H{
			"monday": gin.H{"start": "09:00", "end": "17:00"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create barber profile: status %d body %s", w.Code, w.Body.String())
	}

	// Only one profile per user.
	w = do(t, r, http.MethodPost, "/api/barbers", barberToken, gin.H{
		"salon_id": salon.ID,
		"title":    "Barber Again",
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "barber_already_exists" {
		t.Fatalf("duplicate profile: status %d body %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/services", barberToken, gin.H{
		"name":     "Buzz Cut",
		"duration": 20,
		"price":    "15.50",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create service: status %d body %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/services", barberToken, gin.H{
		"name":     "Free Money",
		"duration": 20,
		"price":    "-5.00",
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_price" {
		t.Fatalf("negative price: status %d body %s", w.Code, w.Body.String())
	}
}

// --------------------------------------------------
// Role gates
// --------------------------------------------------

func TestRoleGates(t *testing.T) {
	r, _ := newTestServer(t)

	customerToken := register(t, r, "gated@example.com", "")
	adminToken := login(t, r, "admin@smartcut.com", "admin123")

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodPost, "/api/salons"},
		{http.MethodPost, "/api/barbers"},
		{http.MethodPost, "/api/services"},
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/admin/users"},
	} {
		w := do(t, r, tc.method, tc.path, customerToken, gin.H{})
		if w.Code != http.StatusForbidden || errorCode(t, w) != "insufficient_role" {
			t.Errorf("%s %s as customer: status %d body %s", tc.method, tc.path, w.Code, w.Body.String())
		}
	}

	// Barbers cannot review.
	barberToken := login(t, r, "marcus@smartcut.com", "barber123")
	w := do(t, r, http.MethodPost, "/api/reviews", barberToken, gin.H{
		"barber_id":      "x",
		"appointment_id": "y",
		"rating":         5,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("review as barber: status %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/admin/stats", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin stats: status %d body %s", w.Code, w.Body.String())
	}
	var stats struct {
		TotalUsers int64 `json:"total_users"`
	}
	decode(t, w, &stats)
	if stats.TotalUsers < 3 {
		t.Fatalf("expected at least the seeded users, got %d", stats.TotalUsers)
	}
}
