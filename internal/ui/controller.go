// Package ui holds the page-side appointment controller: the filter form,
// detail navigation and the cancel confirmation modal. It is deliberately
// DOM-free so the flow can be driven from tests; the static page script in
// web/static/js is a thin binding onto this behavior.
package ui

import (
	"fmt"
	"strings"

	"medclinic/internal/models"
)

// appointmentURLTemplate addresses the server-rendered detail page.
const appointmentURLTemplate = "/appointments/%s/"

// Navigator performs a full page navigation.
type Navigator interface {
	Navigate(url string)
}

// Notifier surfaces a blocking user-facing message.
type Notifier interface {
	Notify(msg string)
}

// FilterSink receives the filter intent when the form is submitted. The
// controller itself issues no request; dispatch is the sink's concern.
type FilterSink interface {
	ApplyFilter(date, status string)
}

// FilterIntent is the user's narrowing criteria as read from the form.
// Both fields are free-form; validation happens server-side.
type FilterIntent struct {
	Date   string
	Status string
}

// ConfirmModal models the cancel confirmation overlay as explicit state
// instead of DOM attributes. Zero value is hidden with no pending target.
type ConfirmModal struct {
	visible   bool
	pendingID string
}

// Open shows the modal for the given appointment. The pending target is
// overwritten on every call.
func (m *ConfirmModal) Open(id string) {
	m.pendingID = id
	m.visible = true
}

// Close hides the modal. Calling it when already hidden is a no-op.
func (m *ConfirmModal) Close() {
	m.visible = false
}

func (m *ConfirmModal) Visible() bool { return m.visible }

// PendingID returns the appointment the confirm action would cancel.
func (m *ConfirmModal) PendingID() string { return m.pendingID }

// Controller wires the three page interactions together. Collaborators are
// injected once at construction; nil collaborators disable the corresponding
// side effect rather than panic, mirroring how the page degrades when an
// element is missing.
type Controller struct {
	nav    Navigator
	notify Notifier
	sink   FilterSink

	Modal ConfirmModal
}

func NewController(nav Navigator, notify Notifier, sink FilterSink) *Controller {
	return &Controller{nav: nav, notify: notify, sink: sink}
}

// SubmitFilter handles the filter form: the page submission is already
// suppressed by the caller, so all that remains is forwarding the intent.
func (c *Controller) SubmitFilter(f FilterIntent) {
	if c.sink == nil {
		return
	}
	c.sink.ApplyFilter(f.Date, f.Status)
}

// ViewAppointment navigates to the detail page for id. A missing identifier
// is silently ignored; a malformed one just 404s at the server.
func (c *Controller) ViewAppointment(id string) {
	if id == "" || c.nav == nil {
		return
	}
	c.nav.Navigate(fmt.Sprintf(appointmentURLTemplate, id))
}

// OpenConfirmModal asks for confirmation before cancelling id.
func (c *Controller) OpenConfirmModal(id string) {
	c.Modal.Open(id)
}

// CloseConfirmModal dismisses the modal without acting.
func (c *Controller) CloseConfirmModal() {
	c.Modal.Close()
}

// ConfirmCancel is the confirm-action click handler. It announces success
// unconditionally and hides the modal.
//
// TODO: report success only after the cancellation request is acknowledged;
// POST /api/v1/appointments/{id}/cancel already exists for this.
func (c *Controller) ConfirmCancel() {
	if !c.Modal.Visible() || c.Modal.PendingID() == "" {
		return
	}
	if c.notify != nil {
		c.notify.Notify("Appointment cancelled successfully")
	}
	c.Modal.Close()
}

// ValidateAppointmentDetails gates booking: both the date and the time must
// be present. Empty or whitespace-only values fail.
func (c *Controller) ValidateAppointmentDetails(date, timeOfDay string) bool {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(timeOfDay) == "" {
		if c.notify != nil {
			c.notify.Notify("Please select both a date and a time for the appointment")
		}
		return false
	}
	return true
}

// ValidateCancellation gates cancellation: a Completed appointment cannot be
// cancelled. Any other status, known or not, passes.
func (c *Controller) ValidateCancellation(status string) bool {
	if status == models.StatusCompleted {
		if c.notify != nil {
			c.notify.Notify("Completed appointments cannot be cancelled")
		}
		return false
	}
	return true
}
