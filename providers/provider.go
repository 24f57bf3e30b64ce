package providers

import (
	"context"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
)

// RatesProvider fetches a full exchange-rate table for a base currency.
type RatesProvider interface {
	FetchRates(ctx context.Context, base string) (*models.RateSnapshot, error)
}
