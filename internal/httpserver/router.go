package httpserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"tachpae-storefront/internal/modal"
	catalogrepo "tachpae-storefront/internal/repository/catalog"
	"tachpae-storefront/internal/store"
	"tachpae-storefront/internal/tracking"
	"tachpae-storefront/internal/visitor"
)

// Deps carries the wired collaborators for the route handlers.
type Deps struct {
	VisitorSvc     *visitor.Service
	Store          store.Store
	Tracker        tracking.Sink
	CatalogRepo    catalogrepo.Repository
	Modals         *modal.Engine
	ShareBaseURL   string
	AllowedOrigins []string
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(corsMiddleware(deps.AllowedOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	router.POST("/visitors", h.issueVisitor)
	router.GET("/cities/:cityID/catalog", h.listCatalog)
	router.GET("/catalog/:id", h.getCatalogItem)
	router.GET("/wishlist", h.resolveWishlist)

	authed := router.Group("/", visitorMiddleware(deps.VisitorSvc))
	authed.GET("/cart", h.getCart)
	authed.POST("/cart/items", h.addCartItem)
	authed.PATCH("/cart/items/:productID", h.updateCartItem)
	authed.DELETE("/cart/items/:productID", h.removeCartItem)
	authed.DELETE("/cart", h.clearCart)
	authed.POST("/cart/opened", h.cartOpened)
	authed.GET("/cart/share-link", h.shareLink)
	authed.POST("/visits", h.registerVisit)
	authed.GET("/visits/summary", h.visitSummary)
	authed.GET("/modals/:modalID/eligibility", h.modalEligibility)
	authed.POST("/modals/:modalID/shown", h.modalShown)
	authed.POST("/modals/:modalID/dismissed", h.modalDismissed)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

const visitorIDKey = "visitorID"

// visitorMiddleware resolves the bearer token to a visitor id, rejecting
// requests without a valid session token.
func visitorMiddleware(svc *visitor.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing visitor token"})
			return
		}
		visitorID, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid visitor token"})
			return
		}
		c.Set(visitorIDKey, visitorID)
		c.Next()
	}
}

func currentVisitor(c *gin.Context) string {
	return c.GetString(visitorIDKey)
}
