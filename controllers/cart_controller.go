package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/haxllo/ar-alphaya-jewellery-sub002/errors"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/logger"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/middleware"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/services"
)

type CartController struct {
	Service services.CartService
}

func NewCartController(service services.CartService) *CartController {
	return &CartController{Service: service}
}

// GetCart returns the current cart for the authenticated user.
func (cc *CartController) GetCart(c *gin.Context) {
	userID := middleware.UserID(c)

	cart, appErr := cc.Service.GetCart(c.Request.Context(), userID)
	if appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem folds an item into the cart.
func (cc *CartController) AddItem(c *gin.Context) {
	userID := middleware.UserID(c)

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.Error(apperrors.ErrBadRequest.Wrap(err))
		return
	}

	cart, appErr := cc.Service.AddItems(c.Request.Context(), userID, []models.CartItem{item})
	if appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem removes the matching lines from the cart. Optional size and
// plating query params narrow the match to one variant.
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("product_id")

	cart, appErr := cc.Service.RemoveItem(c.Request.Context(), userID, productID, c.Query("size"), c.Query("plating"))
	if appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart removes all items from the cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	userID := middleware.UserID(c)

	if appErr := cc.Service.ClearCart(c.Request.Context(), userID); appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

type mergeCartRequest struct {
	// dive makes the binding validator check each item, not just the slice.
	Items []models.CartItem `json:"items" binding:"required,dive"`
}

// MergeCart folds the client-local cart into the server cart at login.
// Clearing the local copy after a 200 is the client's responsibility.
func (cc *CartController) MergeCart(c *gin.Context) {
	userID := middleware.UserID(c)

	var req mergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.ErrBadRequest.Wrap(err))
		return
	}

	cart, appErr := cc.Service.MergeLocalCart(c.Request.Context(), userID, req.Items)
	if appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Checkout publishes the cart as a checkout event and clears it.
func (cc *CartController) Checkout(c *gin.Context) {
	userID := middleware.UserID(c)

	if appErr := cc.Service.Checkout(c.Request.Context(), userID); appErr != nil {
		c.Error(appErr)
		return
	}

	logger.Info(c, "Checkout accepted", zap.String("user_id", userID))
	c.JSON(http.StatusOK, gin.H{"message": "checkout initiated"})
}
