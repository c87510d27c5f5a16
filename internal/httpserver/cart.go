package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-cart/internal/domain"
	cartsvc "storefront-cart/internal/service/cart"
)

type cartHandlers struct {
	svc      *cartsvc.Service
	sessions *sessionResolver
	logger   *log.Logger
}

// Ids carry no binding rules: id 0 is a valid number that simply matches no
// product (add) or no line item (remove, update), so those paths answer 404
// or no-op instead of 400.
type addRequest struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity" binding:"required,gt=0"`
}

type removeRequest struct {
	ID int64 `json:"id"`
}

type updateQuantityRequest struct {
	ID       int64 `json:"id"`
	Quantity *int  `json:"quantity" binding:"required,gte=0"`
}

type migrateRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	WalletID  string `json:"walletId" binding:"required"`
}

func (h *cartHandlers) add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID or quantity provided."})
		return
	}

	ident := h.sessions.resolve(c, c.Query("walletId"))
	state, err := h.svc.Add(c.Request.Context(), ident, req.ID, req.Quantity)
	if err != nil {
		h.writeError(c, "add", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *cartHandlers) remove(c *gin.Context) {
	var req removeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID provided."})
		return
	}

	ident := h.sessions.resolve(c, c.Query("walletId"))
	state, err := h.svc.Remove(c.Request.Context(), ident, req.ID)
	if err != nil {
		h.writeError(c, "remove", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *cartHandlers) updateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID or quantity provided."})
		return
	}

	ident := h.sessions.resolve(c, c.Query("walletId"))
	state, err := h.svc.SetQuantity(c.Request.Context(), ident, req.ID, *req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found in cart."})
			return
		}
		h.writeError(c, "update-quantity", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *cartHandlers) fetch(c *gin.Context) {
	ident := h.sessions.resolve(c, c.Query("walletId"))
	state, err := h.svc.Get(c.Request.Context(), ident)
	if err != nil {
		h.writeError(c, "fetch", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// replace has no input validation of its own: a body that fails to decode
// surfaces as a plain 500, matching the wholesale trust-the-caller contract.
func (h *cartHandlers) replace(c *gin.Context) {
	var state domain.CartState
	if err := c.ShouldBindJSON(&state); err != nil {
		h.logger.Printf("cart handler: replace decode error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}

	ident := h.sessions.resolve(c, c.Query("walletId"))
	stored, err := h.svc.Replace(c.Request.Context(), ident, state)
	if err != nil {
		h.writeError(c, "replace", err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *cartHandlers) clear(c *gin.Context) {
	ident := h.sessions.resolve(c, c.Query("walletId"))
	state, err := h.svc.Clear(c.Request.Context(), ident)
	if err != nil {
		h.writeError(c, "clear", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *cartHandlers) migrate(c *gin.Context) {
	var req migrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid migration request."})
		return
	}

	if !h.sessions.validate(c, req.SessionID) {
		h.logger.Printf("cart handler: migrate session mismatch wallet=%s", req.WalletID)
		h.writeError(c, "migrate", domain.ErrSessionMismatch)
		return
	}

	if err := h.svc.MigrateGuestToWallet(c.Request.Context(), req.SessionID, req.WalletID); err != nil {
		h.writeError(c, "migrate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "migrated"})
}

// writeError logs the internal detail and returns a client-safe message.
// Error kinds map to statuses per the taxonomy: invalid input 400, unknown
// session 403, missing product/item 404, everything else (storage failures,
// corrupt migration source) 500.
func (h *cartHandlers) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID or quantity provided."})
	case errors.Is(err, domain.ErrSessionMismatch):
		c.JSON(http.StatusForbidden, gin.H{"message": "Session does not match."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found."})
	default:
		h.logger.Printf("cart handler: %s error=%v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
	}
}
