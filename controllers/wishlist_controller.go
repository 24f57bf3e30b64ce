package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/haxllo/ar-alphaya-jewellery-sub002/errors"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/logger"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/middleware"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/repository"
)

type WishlistController struct {
	Repo repository.WishlistRepository
}

func NewWishlistController(repo repository.WishlistRepository) *WishlistController {
	return &WishlistController{Repo: repo}
}

// GetWishlist returns the wishlist for the authenticated user.
func (wc *WishlistController) GetWishlist(c *gin.Context) {
	userID := middleware.UserID(c)

	wl, err := wc.Repo.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c, "Failed to load wishlist", err, zap.String("user_id", userID))
		c.Error(apperrors.ErrInternalServer.Wrap(err))
		return
	}
	if wl == nil {
		wl = &models.Wishlist{UserID: userID, Items: []models.WishlistItem{}}
	}
	c.JSON(http.StatusOK, wl)
}

// AddItem adds a product to the wishlist; re-adding an existing product is a no-op.
func (wc *WishlistController) AddItem(c *gin.Context) {
	userID := middleware.UserID(c)

	var item models.WishlistItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.Error(apperrors.ErrBadRequest.Wrap(err))
		return
	}
	item.AddedAt = time.Now()

	wl, err := wc.Repo.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c, "Failed to load wishlist", err, zap.String("user_id", userID))
		c.Error(apperrors.ErrInternalServer.Wrap(err))
		return
	}
	if wl == nil {
		wl = &models.Wishlist{UserID: userID, Items: []models.WishlistItem{}}
	}

	for _, existing := range wl.Items {
		if existing.ProductID == item.ProductID {
			c.JSON(http.StatusOK, wl)
			return
		}
	}
	wl.Items = append(wl.Items, item)

	if err := wc.Repo.SaveWishlist(c.Request.Context(), wl); err != nil {
		logger.Error(c, "Failed to save wishlist", err, zap.String("user_id", userID))
		c.Error(apperrors.ErrInternalServer.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, wl)
}

// RemoveItem removes a product from the wishlist.
func (wc *WishlistController) RemoveItem(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("product_id")

	wl, err := wc.Repo.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c, "Failed to load wishlist", err, zap.String("user_id", userID))
		c.Error(apperrors.ErrInternalServer.Wrap(err))
		return
	}
	if wl == nil {
		c.Error(apperrors.ErrNotFound)
		return
	}

	newItems := make([]models.WishlistItem, 0, len(wl.Items))
	for _, item := range wl.Items {
		if item.ProductID != productID {
			newItems = append(newItems, item)
		}
	}
	wl.Items = newItems

	if err := wc.Repo.SaveWishlist(c.Request.Context(), wl); err != nil {
		logger.Error(c, "Failed to save wishlist", err, zap.String("user_id", userID))
		c.Error(apperrors.ErrInternalServer.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, wl)
}
