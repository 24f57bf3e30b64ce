package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	apperrors "github.com/haxllo/ar-alphaya-jewellery-sub002/errors"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
)

// ExpectedSignature computes the signature PayHere attaches to a server
// notification. The scheme is dictated by PayHere and must match it
// byte-for-byte:
//
//	hashedSecret = HEX_UPPER(SHA256(merchantSecret))
//	signature    = HEX_UPPER(SHA256(merchantID + orderID + amount + hashedSecret))
//
// where + is plain string concatenation of the raw field values.
func ExpectedSignature(merchantID, orderID, amount, merchantSecret string) string {
	hashedSecret := hexUpperSHA256(merchantSecret)
	return hexUpperSHA256(merchantID + orderID + amount + hashedSecret)
}

func hexUpperSHA256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyNotification checks the notification signature against the merchant
// secret. A missing secret is an operator error, never a verification pass.
// Neither the secret nor the signatures ever reach logs or responses.
func VerifyNotification(n *models.PaymentNotification, merchantSecret string) *apperrors.Error {
	if merchantSecret == "" {
		return apperrors.ErrConfiguration
	}
	if n.MerchantID == "" || n.OrderID == "" || n.Amount == "" || n.Signature == "" {
		return apperrors.ErrSignatureMismatch
	}

	expected := ExpectedSignature(n.MerchantID, n.OrderID, n.Amount, merchantSecret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(n.Signature)) != 1 {
		return apperrors.ErrSignatureMismatch
	}
	return nil
}
