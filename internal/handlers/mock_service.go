package handlers

import (
	"context"
	"net/http"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"
	"medclinic/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseRole     string
	parseErr      error

	lastSignUp        service.SignUpParams
	lastGenIdentifier string
	lastGenPassword   string
	lastParseToken    string
}

func (m *mockAuth) SignUp(ctx context.Context, p service.SignUpParams) (int, error) {
	m.lastSignUp = p
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, identifier, password string) (string, error) {
	m.lastGenIdentifier = identifier
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, string, error) {
	m.lastParseToken = token
	return m.parseID, m.parseRole, m.parseErr
}

type mockAccounts struct {
	profile    *models.User
	profileErr error
	updateErr  error
	changeErr  error
	resetToken string
	resetErr   error
	confirmErr error

	verifyToken     string
	verifyErr       error
	confirmEmailErr error

	lastUpdate       service.UpdateProfileParams
	lastVerifyUserID int
	lastConfirmEmail string
}

func (m *mockAccounts) Profile(ctx context.Context, userID int) (*models.User, error) {
	return m.profile, m.profileErr
}
func (m *mockAccounts) UpdateProfile(ctx context.Context, p service.UpdateProfileParams) error {
	m.lastUpdate = p
	return m.updateErr
}
func (m *mockAccounts) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	return m.changeErr
}
func (m *mockAccounts) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return m.resetToken, m.resetErr
}
func (m *mockAccounts) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return m.confirmErr
}
func (m *mockAccounts) RequestEmailVerification(ctx context.Context, userID int) (string, error) {
	m.lastVerifyUserID = userID
	return m.verifyToken, m.verifyErr
}
func (m *mockAccounts) ConfirmEmail(ctx context.Context, token string) error {
	m.lastConfirmEmail = token
	return m.confirmEmailErr
}

type mockAppointments struct {
	booked     *models.Appointment
	bookErr    error
	list       []models.Appointment
	listErr    error
	got        *models.Appointment
	getErr     error
	confirmed  *models.Appointment
	confirmErr error
	cancelled  *models.Appointment
	cancelErr  error

	lastBook   service.BookParams
	lastFilter repository.AppointmentFilter
	lastCancel service.CancelParams
	listCalls  int
}

func (m *mockAppointments) Book(ctx context.Context, p service.BookParams) (*models.Appointment, error) {
	m.lastBook = p
	return m.booked, m.bookErr
}
func (m *mockAppointments) List(ctx context.Context, f repository.AppointmentFilter) ([]models.Appointment, error) {
	m.lastFilter = f
	m.listCalls++
	return m.list, m.listErr
}
func (m *mockAppointments) Get(ctx context.Context, id string) (*models.Appointment, error) {
	return m.got, m.getErr
}
func (m *mockAppointments) Confirm(ctx context.Context, id string, doctorUserID int) (*models.Appointment, error) {
	return m.confirmed, m.confirmErr
}
func (m *mockAppointments) Cancel(ctx context.Context, p service.CancelParams) (*models.Appointment, error) {
	m.lastCancel = p
	return m.cancelled, m.cancelErr
}

type mockDoctors struct {
	list    []models.DoctorProfile
	total   int
	listErr error
	got     *models.DoctorProfile
	getErr  error
	slots   []time.Time
	slotErr error

	lastFilter repository.DoctorFilter
	lastDay    time.Time
}

func (m *mockDoctors) List(ctx context.Context, f repository.DoctorFilter) ([]models.DoctorProfile, int, error) {
	m.lastFilter = f
	return m.list, m.total, m.listErr
}
func (m *mockDoctors) Get(ctx context.Context, userID int) (*models.DoctorProfile, error) {
	return m.got, m.getErr
}
func (m *mockDoctors) AvailableSlots(ctx context.Context, doctorUserID int, day time.Time) ([]time.Time, error) {
	m.lastDay = day
	return m.slots, m.slotErr
}

type mockPrescriptions struct {
	created   *models.Prescription
	createErr error
	list      []models.Prescription
	listErr   error

	lastCreate service.PrescriptionParams
}

func (m *mockPrescriptions) Create(ctx context.Context, p service.PrescriptionParams) (*models.Prescription, error) {
	m.lastCreate = p
	return m.created, m.createErr
}
func (m *mockPrescriptions) ListFor(ctx context.Context, userID int, role string) ([]models.Prescription, error) {
	return m.list, m.listErr
}

type mockActivity struct {
	recorded []models.UserActivity
	recent   []models.UserActivity
	err      error
}

func (m *mockActivity) Record(ctx context.Context, a models.UserActivity) {
	m.recorded = append(m.recorded, a)
}
func (m *mockActivity) Recent(ctx context.Context, userID int) ([]models.UserActivity, error) {
	return m.recent, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
