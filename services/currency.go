package services

import (
	"fmt"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
)

// Convert converts amount from one currency to another using the snapshot's
// rate table. Both currencies are expressed relative to the snapshot base,
// which carries an implicit rate of 1.0.
//
// Floating-point throughout: callers needing exact settlement amounts must
// round explicitly.
func Convert(amount float64, from, to string, snapshot *models.RateSnapshot) (float64, error) {
	if from == to {
		return amount, nil
	}

	fromRate, err := rateFor(from, snapshot)
	if err != nil {
		return 0, err
	}
	toRate, err := rateFor(to, snapshot)
	if err != nil {
		return 0, err
	}

	return amount * (toRate / fromRate), nil
}

func rateFor(code string, snapshot *models.RateSnapshot) (float64, error) {
	if code == snapshot.Base {
		return 1.0, nil
	}
	rate, ok := snapshot.Rates[code]
	if !ok {
		return 0, fmt.Errorf("unknown currency %q", code)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive rate for currency %q", code)
	}
	return rate, nil
}
