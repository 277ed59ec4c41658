package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) modalEligibility(c *gin.Context) {
	eligible, err := h.deps.Modals.ShouldShow(c.Request.Context(), currentVisitor(c), c.Param("modalID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"eligible": eligible})
}

func (h *handlers) modalShown(c *gin.Context) {
	if err := h.deps.Modals.RecordShown(c.Request.Context(), currentVisitor(c), c.Param("modalID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) modalDismissed(c *gin.Context) {
	if err := h.deps.Modals.RecordDismissed(c.Request.Context(), currentVisitor(c), c.Param("modalID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// registerVisit bumps the session counter. The client calls this once per new
// browser session.
func (h *handlers) registerVisit(c *gin.Context) {
	state, err := h.deps.Modals.RegisterVisit(c.Request.Context(), currentVisitor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"visitCount":   state.VisitCount,
		"isFirstVisit": state.IsFirstVisit(),
	})
}

// visitSummary reports the prompt-gating view of the visitor: visit counts,
// whether a returning shopper still holds items, and how long ago the cart
// was opened.
func (h *handlers) visitSummary(c *gin.Context) {
	visitorID := currentVisitor(c)
	ctx := c.Request.Context()

	s, _, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	returning, err := h.deps.Modals.IsReturningUserWithCart(ctx, visitorID, s.ItemCount())
	if err != nil {
		h.fail(c, err)
		return
	}
	duration, opened, err := h.deps.Modals.CartOpenDuration(ctx, visitorID)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := gin.H{
		"itemCount":             s.ItemCount(),
		"returningUserWithCart": returning,
		"cartOpened":            opened,
	}
	if opened {
		out["cartOpenSeconds"] = int64(duration.Seconds())
	}
	c.JSON(http.StatusOK, out)
}
