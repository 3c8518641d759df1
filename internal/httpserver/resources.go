package httpserver

import (
	"encoding/json"
	"log"
	"net/http"

	"auraz-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

// patchRequest is the PUT body: the id under a resource-specific key plus the
// partial fields.
type patchRequest struct {
	UserID    string                     `json:"userId"`
	ProductID string                     `json:"productId"`
	OrderID   string                     `json:"orderId"`
	Updates   map[string]json.RawMessage `json:"updates"`
}

type userHandler struct {
	svc    UserService
	logger *log.Logger
}

func (h *userHandler) list(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, "User", err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h *userHandler) create(c *gin.Context) {
	var u domain.User
	if err := c.ShouldBindJSON(&u); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.Create(c.Request.Context(), u); err != nil {
		respondServiceError(c, h.logger, "User", err)
		return
	}
	respondMessage(c, http.StatusCreated, "User created")
}

func (h *userHandler) update(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.Update(c.Request.Context(), req.UserID, req.Updates); err != nil {
		respondServiceError(c, h.logger, "User", err)
		return
	}
	respondMessage(c, http.StatusOK, "User updated")
}

func (h *userHandler) remove(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), req.UserID); err != nil {
		respondServiceError(c, h.logger, "User", err)
		return
	}
	respondMessage(c, http.StatusOK, "User deleted")
}

type productHandler struct {
	svc    ProductService
	logger *log.Logger
}

func (h *productHandler) list(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, "Product", err)
		return
	}
	respondData(c, http.StatusOK, products)
}

func (h *productHandler) create(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := h.svc.Create(c.Request.Context(), p); err != nil {
		respondServiceError(c, h.logger, "Product", err)
		return
	}
	respondMessage(c, http.StatusCreated, "Product created")
}

func (h *productHandler) update(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.Update(c.Request.Context(), req.ProductID, req.Updates); err != nil {
		respondServiceError(c, h.logger, "Product", err)
		return
	}
	respondMessage(c, http.StatusOK, "Product updated")
}

func (h *productHandler) remove(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), req.ProductID); err != nil {
		respondServiceError(c, h.logger, "Product", err)
		return
	}
	respondMessage(c, http.StatusOK, "Product deleted")
}

type orderHandler struct {
	svc    OrderService
	logger *log.Logger
}

func (h *orderHandler) list(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, "Order", err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

func (h *orderHandler) create(c *gin.Context) {
	var o domain.Order
	if err := c.ShouldBindJSON(&o); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := h.svc.Create(c.Request.Context(), o); err != nil {
		respondServiceError(c, h.logger, "Order", err)
		return
	}
	respondMessage(c, http.StatusCreated, "Order created")
}

func (h *orderHandler) update(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.Update(c.Request.Context(), req.OrderID, req.Updates); err != nil {
		respondServiceError(c, h.logger, "Order", err)
		return
	}
	respondMessage(c, http.StatusOK, "Order updated")
}

func (h *orderHandler) remove(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), req.OrderID); err != nil {
		respondServiceError(c, h.logger, "Order", err)
		return
	}
	respondMessage(c, http.StatusOK, "Order deleted")
}
