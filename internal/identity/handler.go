package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/signup", h.Signup)
	r.POST("/signin", h.Signin)
}

// POST /signup
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Invalid("userName, a valid email and a password of at least 8 characters are required"))
		return
	}
	res, err := h.svc.Signup(c.Request.Context(), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.Header("Location", "/profile/"+res.UserID)
	c.JSON(http.StatusCreated, res)
}

// POST /signin
func (h *Handler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Invalid("identifier and password are required"))
		return
	}
	res, err := h.svc.Signin(c.Request.Context(), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
