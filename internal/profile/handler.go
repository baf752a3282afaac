package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/profile/:id", h.Get)
	r.POST("/profile/:id", h.Create)
	r.PUT("/profile/:id", h.Update)
}

// GET /profile/:id
func (h *Handler) Get(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /profile/:id
func (h *Handler) Create(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Invalid("invalid json"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.Header("Location", "/profile/"+res.UserID)
	c.JSON(http.StatusCreated, res)
}

// PUT /profile/:id
func (h *Handler) Update(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Invalid("invalid json"))
		return
	}
	res, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
