package patient

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hospitalon/hospital-api/internal/handler"
	"github.com/hospitalon/hospital-api/internal/model"
	"github.com/hospitalon/hospital-api/internal/service/patient"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)

		patients.POST("/:id/insurance", h.AddInsurance)
		patients.GET("/:id/insurance", h.GetInsurance)
		patients.DELETE("/:id/insurance", h.RemoveInsurance)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

// ListPatients supports optional email and birth date range filters.
func (h *Handler) ListPatients(c *gin.Context) {
	ctx := c.Request.Context()

	if email := c.Query("email"); email != "" {
		p, err := h.service.GetByEmail(ctx, email)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse([]*model.Patient{p}))
		return
	}

	bornAfter, bornBefore := c.Query("born_after"), c.Query("born_before")
	if bornAfter != "" || bornBefore != "" {
		start, end, err := parseDateRange(bornAfter, bornBefore)
		if err != nil {
			handler.RespondBadRequest(c, err.Error())
			return
		}
		patients, err := h.service.ListByBirthDateRange(ctx, start, end)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
		return
	}

	patients, err := h.service.List(ctx)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AddInsurance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	var req model.AddInsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	insurance, err := h.service.AddInsurance(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(insurance))
}

func (h *Handler) GetInsurance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	insurance, err := h.service.GetInsurance(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(insurance))
}

func (h *Handler) RemoveInsurance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	if err := h.service.RemoveInsurance(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func parseDateRange(after, before string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Now().AddDate(200, 0, 0)

	var err error
	if after != "" {
		if start, err = time.Parse("2006-01-02", after); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if before != "" {
		if end, err = time.Parse("2006-01-02", before); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}
