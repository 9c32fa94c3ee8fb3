package insurance

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hospitalon/hospital-api/internal/handler"
	"github.com/hospitalon/hospital-api/internal/model"
	"github.com/hospitalon/hospital-api/internal/service/insurance"
)

type Handler struct {
	service *insurance.Service
}

func NewHandler(service *insurance.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	policies := r.Group("/insurances")
	{
		policies.GET("", h.ListInsurances)
		policies.GET("/:id", h.GetInsurance)
		policies.PUT("/:id", h.UpdateInsurance)
		policies.GET("/:id/validity", h.CheckValidity)
	}
}

func (h *Handler) GetInsurance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid insurance ID")
		return
	}

	policy, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(policy))
}

// ListInsurances supports a policy number lookup and an expiring filter.
func (h *Handler) ListInsurances(c *gin.Context) {
	ctx := c.Request.Context()

	if policyNumber := c.Query("policy_number"); policyNumber != "" {
		policy, err := h.service.GetByPolicyNumber(ctx, policyNumber)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse([]*model.Insurance{policy}))
		return
	}

	within := c.DefaultQuery("expiring_within", "720h")
	d, err := time.ParseDuration(within)
	if err != nil {
		handler.RespondBadRequest(c, "expiring_within must be a duration")
		return
	}

	policies, err := h.service.ListExpiring(ctx, d)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(policies))
}

func (h *Handler) UpdateInsurance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid insurance ID")
		return
	}

	var req model.UpdateInsuranceRequest
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

func (h *Handler) CheckValidity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid insurance ID")
		return
	}

	valid, err := h.service.IsValid(c.Request.Context(), id, time.Now())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"insurance_id": id,
		"valid":        valid,
	}))
}
