package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"auraz-storefront/internal/domain"
	authsvc "auraz-storefront/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type authHandler struct {
	svc    AuthService
	logger *log.Logger
}

// authRequest is either a login ({email, password}) or a registration
// (action "register", or any body carrying a name).
type authRequest struct {
	Action string `json:"action"`
	authsvc.RegisterInput
}

func (h *authHandler) post(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch {
	case req.Email != "" && req.Password != "" && req.Action == "":
		sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			h.authError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"user":    sess.User,
			"isAdmin": sess.IsAdmin,
			"token":   sess.Token,
		})
	case req.Action == "register" || req.Name != "":
		u, err := h.svc.Register(c.Request.Context(), req.RegisterInput)
		if err != nil {
			h.authError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Registration submitted! Please wait for admin approval.",
			"user":    u,
		})
	default:
		respondError(c, http.StatusBadRequest, "Invalid action")
	}
}

func (h *authHandler) session(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sess, err := h.svc.Lookup(c.Request.Context(), strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidToken) {
			respondError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.authError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": sess.User, "isAdmin": sess.IsAdmin})
}

func (h *authHandler) authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, authsvc.ErrInvalidPassword):
		respondError(c, http.StatusUnauthorized, "Invalid password")
	case errors.Is(err, authsvc.ErrPendingApproval):
		respondError(c, http.StatusForbidden, "Account pending approval")
	case errors.Is(err, authsvc.ErrAccountRejected):
		respondError(c, http.StatusForbidden, "Account rejected")
	case errors.Is(err, authsvc.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Printf("auth: %s request_id=%s error=%v", c.FullPath(), requestIDFrom(c), err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
