package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/api/middleware"
	"github.com/greenbasket/storefront/internal/cart"
	"github.com/greenbasket/storefront/internal/domain"
)

// AddCartItemRequest is the add-to-cart payload.
type AddCartItemRequest struct {
	ProductID     string   `json:"product_id" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category"`
	UnitPrice     float64  `json:"unit_price" binding:"required,min=0"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Quantity      int      `json:"quantity"`
	ImageURL      string   `json:"image_url"`
}

// UpdateCartItemRequest sets a line's quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// cartView is the cart plus its derived total, recomputed per response.
type cartView struct {
	*domain.Cart
	TotalPrice float64 `json:"total_price"`
}

func viewOf(c *domain.Cart) cartView {
	return cartView{Cart: c, TotalPrice: c.TotalPrice()}
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.GetClaims(c)

		current, err := store.GetOrEmpty(c.Request.Context(), claims.UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(current))
	}
}

// HandleAddCartItem handles POST /v1/cart/items
func HandleAddCartItem(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.GetClaims(c)

		var req AddCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		updated, err := store.AddItem(c.Request.Context(), claims.UserID, domain.CartItem{
			ProductID:     req.ProductID,
			Name:          req.Name,
			Category:      req.Category,
			UnitPrice:     req.UnitPrice,
			OriginalPrice: req.OriginalPrice,
			Quantity:      req.Quantity,
			ImageURL:      req.ImageURL,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(updated))
	}
}

// HandleUpdateCartItem handles PUT /v1/cart/items/:productID
func HandleUpdateCartItem(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.GetClaims(c)

		var req UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		updated, err := store.UpdateQuantity(c.Request.Context(), claims.UserID, c.Param("productID"), req.Quantity)
		if errors.Is(err, cart.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
			return
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(updated))
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/items/:productID
func HandleRemoveCartItem(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.GetClaims(c)

		updated, err := store.RemoveItem(c.Request.Context(), claims.UserID, c.Param("productID"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(updated))
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.GetClaims(c)

		if err := store.Clear(c.Request.Context(), claims.UserID); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
