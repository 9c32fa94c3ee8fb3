package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hospitalon/hospital-api/internal/handler"
	"github.com/hospitalon/hospital-api/internal/model"
	"github.com/hospitalon/hospital-api/internal/service/appointment"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.ScheduleAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.RescheduleAppointment)
		appointments.DELETE("/:id", h.CancelAppointment)
	}

	r.GET("/patients/:id/appointments", h.ListByPatient)
	r.GET("/doctors/:id/appointments", h.ListByDoctor)
	r.GET("/doctors/:id/appointments/count", h.CountByDoctor)
	r.GET("/doctors/:id/availability", h.CheckAvailability)
}

func (h *Handler) ScheduleAppointment(c *gin.Context) {
	var req model.ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	apt, err := h.service.Schedule(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid appointment ID")
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

// ListAppointments returns appointments within a required date range.
func (h *Handler) ListAppointments(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		handler.RespondBadRequest(c, "from must be an RFC3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		handler.RespondBadRequest(c, "to must be an RFC3339 timestamp")
		return
	}

	appointments, err := h.service.ListByDateRange(c.Request.Context(), start, end)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid appointment ID")
		return
	}

	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	apt, err := h.service.Reschedule(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid appointment ID")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListByPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	ctx := c.Request.Context()
	var appointments []*model.Appointment
	if c.Query("upcoming") == "true" {
		appointments, err = h.service.ListUpcomingByPatient(ctx, id)
	} else {
		appointments, err = h.service.ListByPatient(ctx, id)
	}
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) ListByDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid doctor ID")
		return
	}

	ctx := c.Request.Context()
	var appointments []*model.Appointment
	if c.Query("today") == "true" {
		appointments, err = h.service.ListTodayByDoctor(ctx, id)
	} else {
		appointments, err = h.service.ListByDoctor(ctx, id)
	}
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

// CountByDoctor returns the number of a doctor's appointments in a required
// date range.
func (h *Handler) CountByDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid doctor ID")
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		handler.RespondBadRequest(c, "from must be an RFC3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		handler.RespondBadRequest(c, "to must be an RFC3339 timestamp")
		return
	}

	count, err := h.service.CountByDoctorAndDateRange(c.Request.Context(), id, start, end)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"doctor_id": id,
		"count":     count,
	}))
}

// CheckAvailability reports whether the doctor can take a booking at the
// given time. The answer is advisory; the authoritative check runs inside
// the scheduling transaction.
func (h *Handler) CheckAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid doctor ID")
		return
	}

	at, err := time.Parse(time.RFC3339, c.Query("at"))
	if err != nil {
		handler.RespondBadRequest(c, "at must be an RFC3339 timestamp")
		return
	}

	available, err := h.service.IsDoctorAvailable(c.Request.Context(), id, at, nil)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"doctor_id": id,
		"at":        at,
		"available": available,
	}))
}
