package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tachpae-storefront/internal/domain"
	"tachpae-storefront/internal/sharelink"
)

// wishlistEntry pairs a live catalog summary with the quantity carried in the
// share token. Prices always come from the catalog, never from the token.
type wishlistEntry struct {
	domain.ItemSummary
	Quantity int `json:"quantity"`
}

// resolveWishlist renders a shared cart link. A malformed token and an empty
// cart are indistinguishable to the shopper: both render the empty state with
// a 200, never an error page. Ids that no longer resolve are dropped.
func (h *handlers) resolveWishlist(c *gin.Context) {
	entries := []wishlistEntry{}

	shared, err := sharelink.Decode(c.Query("items"))
	if err != nil {
		h.logger.Printf("httpserver: wishlist token rejected: %v", err)
		c.JSON(http.StatusOK, gin.H{"items": entries})
		return
	}
	if len(shared) == 0 {
		c.JSON(http.StatusOK, gin.H{"items": entries})
		return
	}

	ids := make([]string, 0, len(shared))
	quantities := make(map[string]int, len(shared))
	for _, item := range shared {
		ids = append(ids, item.ID)
		qty := item.Qty
		if qty < 1 {
			qty = 1
		}
		quantities[item.ID] = qty
	}

	summaries, err := h.deps.CatalogRepo.ResolveByIDs(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, err)
		return
	}

	for _, summary := range summaries {
		entries = append(entries, wishlistEntry{
			ItemSummary: summary,
			Quantity:    quantities[summary.ID],
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}
