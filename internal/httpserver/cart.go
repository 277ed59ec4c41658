package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tachpae-storefront/internal/cart"
	"tachpae-storefront/internal/domain"
	"tachpae-storefront/internal/sharelink"
)

type handlers struct {
	deps   Deps
	logger *log.Logger
}

// cartView is the wire shape of a cart snapshot. Counts and totals are
// derived from the items at render time.
type cartView struct {
	CityID     string            `json:"cityId,omitempty"`
	Items      []domain.LineItem `json:"items"`
	ItemCount  int               `json:"itemCount"`
	TotalCents int64             `json:"totalCents"`
}

func toCartView(cityID string, c domain.Cart) cartView {
	items := c.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return cartView{
		CityID:     cityID,
		Items:      items,
		ItemCount:  c.ItemCount(),
		TotalCents: c.TotalCents(),
	}
}

// session builds and hydrates the visitor's cart session for the optional
// ?city= scope. Every mutation goes through a hydrated session; the guard in
// the cart package makes writes before hydration impossible.
func (h *handlers) session(c *gin.Context) (*cart.Session, string, error) {
	cityID := c.Query("city")
	s := cart.NewSession(currentVisitor(c), cityID, h.deps.Store, h.deps.Tracker, h.logger)
	if err := s.Hydrate(c.Request.Context()); err != nil {
		return nil, cityID, err
	}
	return s, cityID, nil
}

func (h *handlers) getCart(c *gin.Context) {
	s, cityID, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartView(cityID, s.Cart()))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var in cart.AddItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	s, cityID, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	updated, err := s.AddItem(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartView(cityID, updated))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	s, cityID, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	updated, err := s.UpdateQuantity(c.Request.Context(), c.Param("productID"), in.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartView(cityID, updated))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	s, cityID, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	updated, err := s.RemoveItem(c.Request.Context(), c.Param("productID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartView(cityID, updated))
}

func (h *handlers) clearCart(c *gin.Context) {
	s, cityID, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	updated, err := s.Clear(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartView(cityID, updated))
}

func (h *handlers) cartOpened(c *gin.Context) {
	s, _, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := s.MarkOpened(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.deps.Modals.RecordCartOpened(c.Request.Context(), currentVisitor(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) shareLink(c *gin.Context) {
	s, _, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	token, err := sharelink.EncodeCart(s.Cart())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"url":   h.deps.ShareBaseURL + "/wishlist?items=" + token,
	})
}

// fail maps errors onto HTTP statuses: rejected input is the client's fault,
// everything else is ours.
func (h *handlers) fail(c *gin.Context, err error) {
	var vErr cart.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.logger.Printf("httpserver: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
