package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tachpae-storefront/internal/domain"
)

func (h *handlers) listCatalog(c *gin.Context) {
	itemType := domain.ItemType(c.Query("type"))
	if itemType != "" && !domain.ValidItemType(itemType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown item type"})
		return
	}
	items, err := h.deps.CatalogRepo.ListByCity(c.Request.Context(), c.Param("cityID"), itemType)
	if err != nil {
		h.fail(c, err)
		return
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *handlers) getCatalogItem(c *gin.Context) {
	item, err := h.deps.CatalogRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) issueVisitor(c *gin.Context) {
	token, visitorID, err := h.deps.VisitorSvc.Issue(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"visitorId": visitorID,
		"expiresIn": h.deps.VisitorSvc.TTLSeconds(),
	})
}
