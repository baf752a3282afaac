package rectification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/domain"
	"attendance-backend/internal/platform/apierr"
	"attendance-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// RegisterRoutes expects r to sit behind auth.RequireAuth.
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/rectification/:id", auth.RequireRole(domain.RoleEmployee, domain.RoleManager), h.Create)
	r.GET("/rectifications", h.List)
}

// POST /rectification/:id
func (h *Handler) Create(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		apierr.Write(c, apierr.Unauthenticated("missing session"))
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Invalid("date is required"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /rectifications
func (h *Handler) List(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		apierr.Write(c, apierr.Unauthenticated("missing session"))
		return
	}
	res, err := h.svc.List(c.Request.Context(), caller)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
