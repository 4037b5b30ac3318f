package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/service"

	"github.com/gin-gonic/gin"
)

func newPageRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil).WithPages("../../web/templates", "../../web/static")
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func TestAppointmentsPage_AnonymousSeesNoData(t *testing.T) {
	appts := &mockAppointments{list: []models.Appointment{
		{ID: "a1", PatientID: 9, Reason: "private reason"},
	}}
	s := &service.Service{Authorization: &mockAuth{}, Appointments: appts}
	r := newPageRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/appointments/", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
	if appts.listCalls != 0 {
		t.Fatalf("appointments queried for an anonymous visitor")
	}
	body := w.Body.String()
	if strings.Contains(body, "private reason") {
		t.Fatal("appointment data rendered for an anonymous visitor")
	}
	if !strings.Contains(body, signInPrompt) {
		t.Fatalf("missing sign-in prompt in body: %s", body)
	}
}

func TestAppointmentsPage_ScopedToPatient(t *testing.T) {
	auth := &mockAuth{parseID: 5, parseRole: models.RolePatient}
	appts := &mockAppointments{list: []models.Appointment{
		{ID: "a1", PatientID: 5, Reason: "sore throat",
			ScheduledAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			Status:      models.StatusPending},
	}}
	acc := &mockAccounts{profile: &models.User{ID: 5, FirstName: "Pat", LastName: "Doe"}}
	s := &service.Service{Authorization: auth, Accounts: acc, Appointments: appts}
	r := newPageRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/appointments/?token=t1&status=Pending", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if appts.lastFilter.PatientID != 5 || appts.lastFilter.DoctorID != 0 {
		t.Fatalf("filter not scoped to the caller: %+v", appts.lastFilter)
	}
	if appts.lastFilter.Status != models.StatusPending {
		t.Fatalf("status filter dropped: %+v", appts.lastFilter)
	}
	body := w.Body.String()
	if !strings.Contains(body, "sore throat") {
		t.Fatalf("own appointment missing from body: %s", body)
	}
	if !strings.Contains(body, "Pat Doe") {
		t.Fatalf("signed-in name missing from body: %s", body)
	}
}

func TestAppointmentsPage_ScopedToDoctor(t *testing.T) {
	auth := &mockAuth{parseID: 3, parseRole: models.RoleDoctor}
	appts := &mockAppointments{}
	s := &service.Service{Authorization: auth, Appointments: appts}
	r := newPageRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/appointments/?token=t1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if appts.lastFilter.DoctorID != 3 || appts.lastFilter.PatientID != 0 {
		t.Fatalf("filter not scoped to the doctor: %+v", appts.lastFilter)
	}
}

func TestAppointmentDetailPage_OwnerSees(t *testing.T) {
	auth := &mockAuth{parseID: 5, parseRole: models.RolePatient}
	appts := &mockAppointments{got: &models.Appointment{
		ID: "a1", PatientID: 5, DoctorID: 3, Reason: "sore throat",
		ScheduledAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Status:      models.StatusPending,
	}}
	s := &service.Service{Authorization: auth, Appointments: appts}
	r := newPageRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/appointments/a1/?token=t1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "sore throat") {
		t.Fatalf("own appointment missing from body: %s", w.Body.String())
	}
}

func TestAppointmentDetailPage_ForeignAppointmentHidden(t *testing.T) {
	auth := &mockAuth{parseID: 5, parseRole: models.RolePatient}
	appts := &mockAppointments{got: &models.Appointment{
		ID: "a1", PatientID: 9, DoctorID: 3, Reason: "private reason",
	}}
	s := &service.Service{Authorization: auth, Appointments: appts}
	r := newPageRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/appointments/a1/?token=t1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "private reason") {
		t.Fatal("foreign appointment data leaked")
	}
	if !strings.Contains(body, "appointment not found") {
		t.Fatalf("missing not-found message in body: %s", body)
	}
}

func TestAppointmentDetailPage_AnonymousPrompted(t *testing.T) {
	appts := &mockAppointments{got: &models.Appointment{ID: "a1", PatientID: 9, Reason: "private reason"}}
	s := &service.Service{Authorization: &mockAuth{}, Appointments: appts}
	r := newPageRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/appointments/a1/", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
	if strings.Contains(w.Body.String(), "private reason") {
		t.Fatal("appointment data rendered for an anonymous visitor")
	}
}
