// Package payment converts raw payment captures into their storable,
// irreversibly redacted form.
package payment

import (
	"errors"
	"strings"

	"github.com/pawmart/orderledger/internal/entity"
)

// maskPrefix replaces the first twelve digits of the card number.
const maskPrefix = "**** **** **** "

// ErrMalformedPayment is returned when the captured card number is too
// short to mask. Format validation proper happens upstream.
var ErrMalformedPayment = errors.New("malformed payment capture")

// Card is a raw payment capture as submitted at checkout. The CVV is
// consumed here and discarded; it must never be persisted or logged.
type Card struct {
	Name       string `json:"name"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// Redact derives the storable payment record: cardholder name and
// expiry pass through, the card number keeps only its last four
// characters behind a fixed mask, and the CVV is dropped.
func Redact(card Card) (entity.PaymentCard, error) {
	number := strings.ReplaceAll(strings.TrimSpace(card.CardNumber), " ", "")
	if len(number) < 4 {
		return entity.PaymentCard{}, ErrMalformedPayment
	}
	return entity.PaymentCard{
		Name:             card.Name,
		CardNumberMasked: maskPrefix + number[len(number)-4:],
		Expiry:           card.Expiry,
	}, nil
}
