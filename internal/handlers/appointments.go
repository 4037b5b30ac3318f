package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"
	"medclinic/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusBooked    = "booked"
	statusConfirmed = "confirmed"
	statusCancelled = "cancelled"

	errBookFailed   = "failed to book appointment"
	errListFailed   = "failed to load appointments"
	errCancelFailed = "failed to cancel appointment"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for booking.
type bookRequest struct {
	DoctorID int    `json:"doctor_id" binding:"required"`
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time"` // HH:MM
	Reason   string `json:"reason,omitempty"`
}

// Request DTO for cancellation.
type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Book appointment
// @Description  Creates a Pending appointment. Date and time are required and the slot must be free.
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body  bookRequest  true  "Booking payload"
// @Success      200  {object}  map[string]interface{}  "status, appointment"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/appointments [post]
// @Security     BearerAuth
func (h *Handler) bookAppointment(c *gin.Context) {
	var req bookRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	appt, err := h.services.Appointments.Book(c.Request.Context(), service.BookParams{
		PatientID: callerID(c),
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrMissingDateTime),
			errors.Is(err, service.ErrBadDateTime),
			errors.Is(err, service.ErrSlotInPast),
			errors.Is(err, service.ErrDoctorNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errBookFailed, "appointment_book_failed", err)
		}
		return
	}

	h.record(c, callerID(c), models.ActionBook, map[string]any{
		"appointment_id": appt.ID,
		"doctor_id":      appt.DoctorID,
	})
	c.JSON(http.StatusOK, gin.H{"status": statusBooked, "appointment": appt})
}

// @Summary      List appointments
// @Description  Lists the caller's appointments. A doctor sees appointments assigned to them, everyone else their own bookings. 'date' narrows to one day; 'from'/'to' accept RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD' (date-only 'to' is end-of-day inclusive).
// @Tags         appointments
// @Produce      json
// @Param        date    query  string  false  "Single day (YYYY-MM-DD)"
// @Param        status  query  string  false  "Status"  Enums(Pending,Confirmed,Completed,Cancelled)
// @Param        from    query  string  false  "Start of range"
// @Param        to      query  string  false  "End of range"
// @Success      200  {object}  map[string]interface{}  "count, appointments"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/appointments [get]
// @Security     BearerAuth
func (h *Handler) listAppointments(c *gin.Context) {
	filter, err := h.appointmentFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appts, err := h.services.Appointments.List(c.Request.Context(), filter)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListFailed, "appointments_list_failed", err,
			"from", filter.From, "to", filter.To, "status", filter.Status)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        len(appts),
		"appointments": appts,
	})
}

// appointmentFilterFromQuery builds the repo filter from query params, scoped
// to the caller.
func (h *Handler) appointmentFilterFromQuery(c *gin.Context) (repository.AppointmentFilter, error) {
	var f repository.AppointmentFilter

	if callerRole(c) == models.RoleDoctor {
		f.DoctorID = callerID(c)
	} else {
		f.PatientID = callerID(c)
	}

	// Normalize status: trim spaces; the enum itself is case-sensitive.
	f.Status = strings.TrimSpace(c.Query("status"))

	// 'date' is shorthand for a whole-day [from, to] range.
	if qs := c.Query("date"); qs != "" {
		day, err := time.Parse(layoutDate, qs)
		if err != nil {
			return f, fmt.Errorf("invalid 'date'; use YYYY-MM-DD")
		}
		f.From = day.UTC()
		f.To = day.UTC().Add(24*time.Hour - time.Nanosecond)
		return f, nil
	}

	if qs := c.Query("from"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			return f, fmt.Errorf("invalid 'from' time; use RFC3339 or YYYY-MM-DD")
		}
		f.From = t
	}
	if qs := c.Query("to"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			return f, fmt.Errorf("invalid 'to' time; use RFC3339 or YYYY-MM-DD")
		}
		// If the user didn't include a time component, treat "to" as the end of that day.
		if isDateOnly(qs) {
			t = t.Add(24*time.Hour - time.Nanosecond).UTC()
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, fmt.Errorf("'from' must be <= 'to'")
	}
	return f, nil
}

// @Summary      Get appointment
// @Tags         appointments
// @Produce      json
// @Param        id  path  string  true  "Appointment ID"
// @Success      200  {object}  models.Appointment
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/appointments/{id} [get]
// @Security     BearerAuth
func (h *Handler) getAppointment(c *gin.Context) {
	a, err := h.services.Appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListFailed, "appointment_get_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Confirm appointment
// @Description  Doctor-only. Moves a Pending appointment to Confirmed.
// @Tags         appointments
// @Produce      json
// @Param        id  path  string  true  "Appointment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/appointments/{id}/confirm [post]
// @Security     BearerAuth
func (h *Handler) confirmAppointment(c *gin.Context) {
	a, err := h.services.Appointments.Confirm(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		h.writeLifecycleError(c, err, "appointment_confirm_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusConfirmed, "appointment": a})
}

// @Summary      Cancel appointment
// @Description  Refused with 409 when the appointment is Completed. Cancelling twice is a no-op.
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id    path  string         true   "Appointment ID"
// @Param        body  body  cancelRequest  false  "Optional reason"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/appointments/{id}/cancel [post]
// @Security     BearerAuth
func (h *Handler) cancelAppointment(c *gin.Context) {
	var req cancelRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	a, err := h.services.Appointments.Cancel(c.Request.Context(), service.CancelParams{
		AppointmentID: c.Param("id"),
		UserID:        callerID(c),
		Role:          callerRole(c),
		Reason:        req.Reason,
	})
	if err != nil {
		h.writeLifecycleError(c, err, "appointment_cancel_failed")
		return
	}

	h.record(c, callerID(c), models.ActionCancel, map[string]any{"appointment_id": a.ID})
	c.JSON(http.StatusOK, gin.H{"status": statusCancelled, "appointment": a})
}

// writeLifecycleError maps appointment lifecycle errors onto HTTP codes.
func (h *Handler) writeLifecycleError(c *gin.Context, err error, logKey string) {
	switch {
	case errors.Is(err, service.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCancelCompleted), errors.Is(err, service.ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errCancelFailed, logKey, err)
	}
}

// ... shared query-time helpers ...

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
