package department

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hospitalon/hospital-api/internal/handler"
	"github.com/hospitalon/hospital-api/internal/model"
	"github.com/hospitalon/hospital-api/internal/service/department"
)

type Handler struct {
	service *department.Service
}

func NewHandler(service *department.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	departments := r.Group("/departments")
	{
		departments.POST("", h.CreateDepartment)
		departments.GET("", h.ListDepartments)
		departments.GET("/:id", h.GetDepartment)
		departments.PUT("/:id", h.UpdateDepartment)
		departments.DELETE("/:id", h.DeleteDepartment)

		departments.GET("/:id/doctors", h.ListDoctors)
		departments.POST("/:id/doctors/:doctorId", h.AddDoctor)
		departments.DELETE("/:id/doctors/:doctorId", h.RemoveDoctor)
		departments.PUT("/:id/head/:doctorId", h.AssignHead)
		departments.DELETE("/:id/head", h.ClearHead)
	}
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req model.CreateDepartmentRequest
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

func (h *Handler) GetDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid department ID")
		return
	}

	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

func (h *Handler) ListDepartments(c *gin.Context) {
	ctx := c.Request.Context()

	if name := c.Query("name"); name != "" {
		d, err := h.service.GetByName(ctx, name)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse([]*model.Department{d}))
		return
	}

	departments, err := h.service.List(ctx)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(departments))
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid department ID")
		return
	}

	var req model.UpdateDepartmentRequest
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

func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid department ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid department ID")
		return
	}

	doctors, err := h.service.ListDoctors(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) AddDoctor(c *gin.Context) {
	departmentID, doctorID, ok := h.memberIDs(c)
	if !ok {
		return
	}

	if err := h.service.AddDoctor(c.Request.Context(), departmentID, doctorID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RemoveDoctor(c *gin.Context) {
	departmentID, doctorID, ok := h.memberIDs(c)
	if !ok {
		return
	}

	if err := h.service.RemoveDoctor(c.Request.Context(), departmentID, doctorID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AssignHead(c *gin.Context) {
	departmentID, doctorID, ok := h.memberIDs(c)
	if !ok {
		return
	}

	if err := h.service.AssignHead(c.Request.Context(), departmentID, doctorID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ClearHead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid department ID")
		return
	}

	if err := h.service.ClearHead(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) memberIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid department ID")
		return uuid.Nil, uuid.Nil, false
	}
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid doctor ID")
		return uuid.Nil, uuid.Nil, false
	}
	return departmentID, doctorID, true
}
