package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/haxllo/ar-alphaya-jewellery-sub002/errors"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/services"
)

// RatesController serves exchange rates and price conversion.
type RatesController struct {
	Cache *services.RateCache
}

func NewRatesController(cache *services.RateCache) *RatesController {
	return &RatesController{Cache: cache}
}

// ratesCacheControl lets the CDN hold responses briefly while the origin
// cache does the hourly refresh.
const ratesCacheControl = "public, s-maxage=300, stale-while-revalidate=3600"

// GetRates returns the current rate table for the configured base currency.
func (rc *RatesController) GetRates(c *gin.Context) {
	snapshot, cached, appErr := rc.Cache.GetRates(c.Request.Context())
	if appErr != nil {
		c.Error(appErr)
		return
	}

	c.Header("Cache-Control", ratesCacheControl)
	c.JSON(http.StatusOK, models.RatesResponse{
		Base:   snapshot.Base,
		Rates:  snapshot.Rates,
		Cached: cached,
	})
}

// Convert converts an amount between two currencies using the cached rates.
func (rc *RatesController) Convert(c *gin.Context) {
	amountParam := c.Query("amount")
	from := c.Query("from")
	to := c.Query("to")

	amount, err := strconv.ParseFloat(amountParam, 64)
	if err != nil || from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount, from and to are required"})
		return
	}

	snapshot, _, appErr := rc.Cache.GetRates(c.Request.Context())
	if appErr != nil {
		c.Error(appErr)
		return
	}

	converted, err := services.Convert(amount, from, to, snapshot)
	if err != nil {
		c.Error(apperrors.ErrBadRequest.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted,
	})
}
