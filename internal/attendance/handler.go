package attendance

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

	r.POST("/attendance/mark", auth.RequireRole(domain.RoleEmployee, domain.RoleManager), h.Mark)
	r.PUT("/attendance/edit", auth.RequireRole(domain.RoleManager, domain.RoleAdmin), h.Edit)
	r.GET("/attendance/export", auth.RequireRole(domain.RoleManager, domain.RoleAdmin), h.Export)
	r.GET("/dashboard", h.Dashboard)
}

// POST /attendance/mark
func (h *Handler) Mark(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		apierr.Write(c, apierr.Unauthenticated("missing session"))
		return
	}
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Invalid("attendance is required"))
		return
	}
	res, err := h.svc.Mark(c.Request.Context(), caller, req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PUT /attendance/edit
func (h *Handler) Edit(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		apierr.Write(c, apierr.Unauthenticated("missing session"))
		return
	}
	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Invalid("targetUserId, date and attendance are required"))
		return
	}
	res, err := h.svc.Correct(c.Request.Context(), caller, req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /dashboard?date=YYYY-MM-DD
func (h *Handler) Dashboard(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		apierr.Write(c, apierr.Unauthenticated("missing session"))
		return
	}
	res, err := h.svc.Dashboard(c.Request.Context(), caller, c.Query("date"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /attendance/export?date=&encoding=utf8|sjis
func (h *Handler) Export(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		apierr.Write(c, apierr.Unauthenticated("missing session"))
		return
	}
	enc := c.DefaultQuery("encoding", EncodingUTF8)
	body, filename, err := h.svc.Export(c.Request.Context(), caller, c.Query("date"), enc)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType(enc), body)
}
