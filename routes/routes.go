package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/controllers"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/middleware"
)

// Register sets up all storefront routes.
func Register(
	r *gin.Engine,
	jwtSecret string,
	ratesController *controllers.RatesController,
	paymentController *controllers.PaymentController,
	cartController *controllers.CartController,
	wishlistController *controllers.WishlistController,
) {
	// Public: currency rates, rate-limited per IP
	rates := r.Group("/rates")
	rates.Use(middleware.RateLimitMiddleware())
	{
		rates.GET("", ratesController.GetRates)
		rates.GET("/convert", ratesController.Convert)
	}

	// Public: PayHere posts server-to-server, authenticated by signature
	r.POST("/payments/notify", paymentController.Notify)

	auth := middleware.AuthMiddleware(jwtSecret)

	cart := r.Group("/cart")
	cart.Use(auth)
	{
		cart.GET("", cartController.GetCart)
		cart.POST("/add", cartController.AddItem)
		cart.POST("/merge", cartController.MergeCart)
		cart.DELETE("/remove/:product_id", cartController.RemoveItem)
		cart.DELETE("/clear", cartController.ClearCart)
		cart.POST("/checkout", cartController.Checkout)
	}

	wishlist := r.Group("/wishlist")
	wishlist.Use(auth)
	{
		wishlist.GET("", wishlistController.GetWishlist)
		wishlist.POST("/add", wishlistController.AddItem)
		wishlist.DELETE("/remove/:product_id", wishlistController.RemoveItem)
	}
}
