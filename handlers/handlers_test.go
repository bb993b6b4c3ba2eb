package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salonbook/database/repository"
	"salonbook/models"
	"salonbook/services/availability"
	"salonbook/services/booking"
	"salonbook/services/cache"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterValidators(); err != nil {
		panic(err)
	}
}

type nopCache struct {
	invalidated []cache.Mutation
}

func (n *nopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (n *nopCache) SetAsync(string, []byte, time.Duration)     {}
func (n *nopCache) Invalidate(m cache.Mutation)                { n.invalidated = append(n.invalidated, m) }

type stubBookingService struct {
	err error
	got models.BookingInput
}

func (s *stubBookingService) CreateBooking(ctx context.Context, orgID string, in models.BookingInput) (*models.BookingConfirmation, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingConfirmation{ID: "b1", TreatmentID: in.TreatmentID, AppointmentStartTime: in.AppointmentStartTime}, nil
}

type stubAvailability struct {
	err error
}

func (s stubAvailability) ComputeSlots(ctx context.Context, orgID, treatmentID, date string) (*models.AvailabilityResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.AvailabilityResponse{Date: date, TreatmentID: treatmentID, DurationInMinutes: 30, Slots: []string{"09:00"}}, nil
}

func withOrg(org string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("organisation_id", org)
		c.Next()
	}
}

func bookingRouter(h *BookingHandler) *gin.Engine {
	r := gin.New()
	r.Use(withOrg("org-1"))
	r.POST("/api/bookings", h.CreateBooking)
	r.GET("/api/bookings/availability", func(c *gin.Context) { writeBody(c, h.GetAvailability) })
	return r
}

// writeBody renders a JSON handler without the response cache.
func writeBody(c *gin.Context, h func(*gin.Context) (int, any)) {
	status, body := h(c)
	if body != nil {
		c.JSON(status, body)
	}
}

const validBooking = `{
	"name": "Ana",
	"email": "Ana@Example.com",
	"treatmentId": "t1",
	"appointmentStartTime": "2025-03-03T09:00:00Z"
}`

func TestCreateBooking_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name          string
		err           error
		expectedCode  int
		expectedError string
	}{
		{name: "created", expectedCode: http.StatusCreated},
		{name: "slot_taken", err: booking.ErrSlotTaken, expectedCode: http.StatusConflict, expectedError: "This appointment start time is already booked"},
		{name: "treatment_missing", err: booking.ErrTreatmentNotFound, expectedCode: http.StatusNotFound, expectedError: "Treatment not found"},
		{name: "client_lookup", err: fmt.Errorf("%w: timeout", booking.ErrClientLookup), expectedCode: http.StatusInternalServerError, expectedError: "Failed to query client"},
		{name: "client_create", err: booking.ErrClientCreate, expectedCode: http.StatusInternalServerError, expectedError: "Failed to create client"},
		{name: "conflict_check", err: booking.ErrConflictCheck, expectedCode: http.StatusInternalServerError, expectedError: "Failed to verify booking availability"},
		{name: "treatment_lookup", err: booking.ErrTreatmentLookup, expectedCode: http.StatusInternalServerError, expectedError: "Failed to load treatment duration"},
		{name: "booking_create", err: booking.ErrBookingCreate, expectedCode: http.StatusInternalServerError, expectedError: "Failed to create booking"},
		{name: "email", err: booking.ErrEmailFailed, expectedCode: http.StatusInternalServerError, expectedError: "Failed to send email"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubBookingService{err: tc.err}
			r := bookingRouter(&BookingHandler{Service: svc, Cache: &nopCache{}})

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(validBooking))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedCode, w.Code)
			assert.Equal(t, "ana@example.com", svc.got.Email)
			if tc.expectedError != "" {
				var body utils.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tc.expectedError, body.Error)
			}
		})
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	svc := &stubBookingService{}
	r := bookingRouter(&BookingHandler{Service: svc, Cache: &nopCache{}})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{"name":"Ana","email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)

	paths := make([]string, 0, len(body.Issues))
	for _, issue := range body.Issues {
		paths = append(paths, strings.Join(issue.Path, "."))
	}
	assert.ElementsMatch(t, []string{"email", "treatmentId", "appointmentStartTime"}, paths)
	assert.Empty(t, svc.got.Name)
}

func TestGetAvailability(t *testing.T) {
	testCases := []struct {
		name         string
		query        string
		err          error
		expectedCode int
	}{
		{name: "ok", query: "?treatmentId=t1&date=2025-03-03", expectedCode: http.StatusOK},
		{name: "missing_params", query: "", expectedCode: http.StatusBadRequest},
		{name: "bad_date", query: "?treatmentId=t1&date=03/03/2025", err: availability.ErrInvalidDate, expectedCode: http.StatusBadRequest},
		{name: "unknown_treatment", query: "?treatmentId=zz&date=2025-03-03", err: availability.ErrTreatmentNotFound, expectedCode: http.StatusNotFound},
		{name: "store_down", query: "?treatmentId=t1&date=2025-03-03", err: errors.New("mongo"), expectedCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := bookingRouter(&BookingHandler{Availability: stubAvailability{err: tc.err}})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/availability"+tc.query, nil))
			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}
}

func TestParsePage(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected models.PageRequest
		wantErr  bool
	}{
		{name: "defaults", query: "", expected: models.PageRequest{Page: 1, PerPage: 20}},
		{name: "per_page", query: "?page=3&perPage=50", expected: models.PageRequest{Page: 3, PerPage: 50}},
		{name: "per_alias", query: "?per=5", expected: models.PageRequest{Page: 1, PerPage: 5}},
		{name: "too_big", query: "?perPage=101", wantErr: true},
		{name: "zero_page", query: "?page=0", wantErr: true},
		{name: "not_a_number", query: "?page=two", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)

			page, err := parsePage(c)
			if tc.wantErr {
				var appErr *utils.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, http.StatusBadRequest, appErr.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, page)
		})
	}
}

func TestCacheKeysAreTenantScoped(t *testing.T) {
	keyFor := func(org, target string) string {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		c.Set("organisation_id", org)
		return BookingsListKey(c)
	}

	a := keyFor("org-a", "/api/bookings")
	b := keyFor("org-b", "/api/bookings")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, cache.PrefixBookings+":"))
	assert.Equal(t, a, keyFor("org-a", "/api/bookings?page=1&per=20"))
}

type memClients struct {
	byEmail map[string]*models.Client
	created []*models.Client
}

func (m *memClients) FindByEmail(ctx context.Context, orgID, email string) (*models.Client, error) {
	return m.byEmail[email], nil
}
func (m *memClients) FindByPhone(ctx context.Context, orgID, phone string) (*models.Client, error) {
	return nil, nil
}
func (m *memClients) GetByID(ctx context.Context, orgID, id string) (*models.Client, error) {
	return nil, repository.ErrNotFound
}
func (m *memClients) List(ctx context.Context, orgID string, page models.PageRequest) ([]models.Client, int64, error) {
	return nil, 0, nil
}
func (m *memClients) Create(ctx context.Context, client *models.Client) error {
	m.created = append(m.created, client)
	return nil
}
func (m *memClients) Update(ctx context.Context, orgID, id string, update models.ClientUpdate) (*models.Client, error) {
	return nil, repository.ErrNotFound
}
func (m *memClients) Delete(ctx context.Context, orgID, id string) error { return nil }

func TestCreateClient(t *testing.T) {
	existing := "taken@example.com"
	repo := &memClients{byEmail: map[string]*models.Client{existing: {ID: "c0", Email: &existing}}}
	inv := &nopCache{}
	h := &ClientHandler{Repo: repo, Cache: inv}

	r := gin.New()
	r.Use(withOrg("org-1"))
	r.POST("/api/clients", h.CreateClient)
	r.GET("/api/clients/:id", func(c *gin.Context) { writeBody(c, h.GetClient) })

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	created := post(`{"name":"Ana","email":"ANA@example.com"}`)
	assert.Equal(t, http.StatusCreated, created.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "ana@example.com", *repo.created[0].Email)
	assert.Equal(t, "org-1", repo.created[0].OrganisationID)
	assert.Equal(t, []cache.Mutation{cache.ClientChanged}, inv.invalidated)

	conflict := post(`{"name":"Bo","email":"Taken@example.com"}`)
	assert.Equal(t, http.StatusConflict, conflict.Code)

	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/api/clients/nope", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
