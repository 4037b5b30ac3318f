package handlers

import (
	"errors"
	"net/http"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"
	"medclinic/internal/service"

	"github.com/gin-gonic/gin"
)

// The appointment pages are server-rendered; the page JS only handles the
// filter form, row navigation and the cancel confirmation modal. The caller
// authenticates with the same token as the API (?token= or Authorization
// header); anonymous visits get a sign-in prompt and no appointment data.

const signInPrompt = "sign in to view your appointments"

// appointmentsPage renders the caller's appointments, optionally narrowed by
// the ?date= and ?status= query params the filter form submits.
func (h *Handler) appointmentsPage(c *gin.Context) {
	userID, role, ok := h.tokenIdentity(c)
	if !ok {
		c.HTML(http.StatusUnauthorized, "appointments.html", gin.H{"Error": signInPrompt})
		return
	}

	var f repository.AppointmentFilter
	switch role {
	case models.RoleDoctor:
		f.DoctorID = userID
	case models.RoleAdmin:
		// admins see the whole schedule
	default:
		f.PatientID = userID
	}

	dateQ := c.Query("date")
	if dateQ != "" {
		if day, err := time.Parse(layoutDate, dateQ); err == nil {
			f.From = day.UTC()
			f.To = day.UTC().Add(24*time.Hour - time.Nanosecond)
		}
	}
	statusQ := c.Query("status")
	if models.IsKnownStatus(statusQ) {
		f.Status = statusQ
	}

	appts, err := h.services.Appointments.List(c.Request.Context(), f)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("appointments_page_failed", "err", err)
		}
		c.HTML(http.StatusInternalServerError, "appointments.html", gin.H{
			"Error": "could not load appointments",
		})
		return
	}

	data := gin.H{
		"Appointments": appts,
		"Date":         dateQ,
		"Status":       statusQ,
		"Statuses": []string{
			models.StatusPending,
			models.StatusConfirmed,
			models.StatusCompleted,
			models.StatusCancelled,
		},
	}
	if h.services.Accounts != nil {
		if u, err := h.services.Accounts.Profile(c.Request.Context(), userID); err == nil && u != nil {
			data["UserName"] = u.FullName()
		}
	}
	c.HTML(http.StatusOK, "appointments.html", data)
}

// appointmentDetailPage renders one of the caller's appointments, or a 404
// page.
func (h *Handler) appointmentDetailPage(c *gin.Context) {
	userID, role, ok := h.tokenIdentity(c)
	if !ok {
		c.HTML(http.StatusUnauthorized, "appointment_detail.html", gin.H{"Error": signInPrompt})
		return
	}

	a, err := h.services.Appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			c.HTML(http.StatusNotFound, "appointment_detail.html", gin.H{
				"Error": "appointment not found",
			})
			return
		}
		if h.log != nil {
			h.log.Errorw("appointment_page_failed", "err", err, "id", c.Param("id"))
		}
		c.HTML(http.StatusInternalServerError, "appointment_detail.html", gin.H{
			"Error": "could not load appointment",
		})
		return
	}

	// Someone else's appointment renders as not found rather than revealing
	// that it exists.
	if role != models.RoleAdmin && a.PatientID != userID && a.DoctorID != userID {
		c.HTML(http.StatusNotFound, "appointment_detail.html", gin.H{
			"Error": "appointment not found",
		})
		return
	}

	c.HTML(http.StatusOK, "appointment_detail.html", gin.H{
		"Appointment": a,
		"CanCancel":   a.Status != models.StatusCompleted && a.Status != models.StatusCancelled,
	})
}
