package handlers

import (
	"errors"
	"net/http"

	"medclinic/internal/service"

	"github.com/gin-gonic/gin"
)

type medicationRequest struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

type prescriptionRequest struct {
	PatientID   int                 `json:"patient_id" binding:"required"`
	Notes       string              `json:"notes,omitempty"`
	Medications []medicationRequest `json:"medications" binding:"required,min=1"`
}

// @Summary      Create prescription
// @Description  Doctor-only. Attaches the prescription to the latest Confirmed appointment with the patient.
// @Tags         prescriptions
// @Accept       json
// @Produce      json
// @Param        body  body  prescriptionRequest  true  "Prescription payload"
// @Success      200  {object}  models.Prescription
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/prescriptions [post]
// @Security     BearerAuth
func (h *Handler) createPrescription(c *gin.Context) {
	var req prescriptionRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	meds := make([]service.MedicationParams, 0, len(req.Medications))
	for _, m := range req.Medications {
		meds = append(meds, service.MedicationParams{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}

	pres, err := h.services.Prescriptions.Create(c.Request.Context(), service.PrescriptionParams{
		DoctorUserID:  callerID(c),
		PatientUserID: req.PatientID,
		Notes:         req.Notes,
		Medications:   meds,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoConfirmedAppointment):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmptyMedicationName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, "failed to create prescription", "prescription_create_failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, pres)
}

// @Summary      List prescriptions
// @Description  Patients see prescriptions written for them, doctors those they authored.
// @Tags         prescriptions
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, prescriptions"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/prescriptions [get]
// @Security     BearerAuth
func (h *Handler) listPrescriptions(c *gin.Context) {
	list, err := h.services.Prescriptions.ListFor(c.Request.Context(), callerID(c), callerRole(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to list prescriptions", "prescriptions_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(list),
		"prescriptions": list,
	})
}
