package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"medclinic/internal/repository"
	"medclinic/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      List doctors
// @Description  Searchable, paginated directory. 'q' matches name, bio, or qualification; min_exp and min_rating are lower bounds. Results are ordered by rating.
// @Tags         doctors
// @Produce      json
// @Param        q               query  string  false  "Free-text search over name, bio, and qualification"
// @Param        specialization  query  string  false  "Exact specialization"
// @Param        city            query  string  false  "City"
// @Param        min_exp         query  int     false  "Minimum years of experience"
// @Param        min_rating      query  number  false  "Minimum rating"
// @Param        page            query  int     false  "Page number (1-based)"
// @Param        page_size       query  int     false  "Page size (default 10, max 100)"
// @Success      200  {object}  map[string]interface{}  "total, page, doctors"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/doctors [get]
// @Security     BearerAuth
func (h *Handler) listDoctors(c *gin.Context) {
	f, err := doctorFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctors, total, err := h.services.Doctors.List(c.Request.Context(), f)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to list doctors", "doctors_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"page":    f.Page,
		"doctors": doctors,
	})
}

func doctorFilterFromQuery(c *gin.Context) (repository.DoctorFilter, error) {
	f := repository.DoctorFilter{
		Query:          c.Query("q"),
		Specialization: c.Query("specialization"),
		City:           c.Query("city"),
		Page:           1,
	}

	var err error
	if f.MinExperience, err = intQuery(c, "min_exp", 0); err != nil {
		return f, err
	}
	if f.Page, err = intQuery(c, "page", 1); err != nil {
		return f, err
	}
	if f.PageSize, err = intQuery(c, "page_size", 0); err != nil {
		return f, err
	}
	if qs := c.Query("min_rating"); qs != "" {
		f.MinRating, err = strconv.ParseFloat(qs, 64)
		if err != nil {
			return f, errors.New("invalid 'min_rating'; expected a number")
		}
	}
	return f, nil
}

// intQuery parses an optional integer query param with a default.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	qs := c.Query(name)
	if qs == "" {
		return def, nil
	}
	v, err := strconv.Atoi(qs)
	if err != nil {
		return 0, errors.New("invalid '" + name + "'; expected an integer")
	}
	return v, nil
}

// @Summary      Get doctor
// @Tags         doctors
// @Produce      json
// @Param        id  path  int  true  "Doctor user ID"
// @Success      200  {object}  models.DoctorProfile
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/doctors/{id} [get]
// @Security     BearerAuth
func (h *Handler) getDoctor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctor id"})
		return
	}

	p, err := h.services.Doctors.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDoctorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load doctor", "doctor_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Doctor's open slots
// @Description  Free hourly slots on the given day (defaults to today). Past slots and taken slots are excluded.
// @Tags         doctors
// @Produce      json
// @Param        id    path   int     true   "Doctor user ID"
// @Param        date  query  string  false  "Day (YYYY-MM-DD), defaults to today"
// @Success      200  {object}  map[string]interface{}  "date, slots"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/doctors/{id}/slots [get]
// @Security     BearerAuth
func (h *Handler) getDoctorSlots(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctor id"})
		return
	}

	day := time.Now().UTC()
	if qs := c.Query("date"); qs != "" {
		day, err = time.Parse(layoutDate, qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'date'; use YYYY-MM-DD"})
			return
		}
	}

	slots, err := h.services.Doctors.AvailableSlots(c.Request.Context(), id, day)
	if err != nil {
		if errors.Is(err, service.ErrDoctorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load slots", "doctor_slots_failed", err, "id", id)
		return
	}

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format("15:04"))
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  day.Format(layoutDate),
		"slots": out,
	})
}
