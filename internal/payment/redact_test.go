package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact_MasksAllButLastFour(t *testing.T) {
	out, err := Redact(Card{
		Name:       "Dana Prentice",
		CardNumber: "4111111111111111",
		Expiry:     "12/29",
		CVV:        "123",
	})

	require.NoError(t, err)
	assert.Equal(t, "**** **** **** 1111", out.CardNumberMasked)
	assert.Equal(t, "Dana Prentice", out.Name)
	assert.Equal(t, "12/29", out.Expiry)
}

func TestRedact_NeverLeaksLeadingDigits(t *testing.T) {
	numbers := []string{
		"4242424242424242",
		"5555555555554444",
		"378282246310005",
		"6011000990139424",
	}

	for _, n := range numbers {
		out, err := Redact(Card{Name: "x", CardNumber: n, Expiry: "01/30", CVV: "999"})
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(out.CardNumberMasked, n[len(n)-4:]))
		assert.NotContains(t, out.CardNumberMasked, n[:len(n)-4])
		assert.Equal(t, "**** **** **** "+n[len(n)-4:], out.CardNumberMasked)
	}
}

func TestRedact_StripsSpacingBeforeMasking(t *testing.T) {
	out, err := Redact(Card{Name: "x", CardNumber: " 4242 4242 4242 4242 ", Expiry: "01/30"})

	require.NoError(t, err)
	assert.Equal(t, "**** **** **** 4242", out.CardNumberMasked)
}

func TestRedact_ShortNumberIsMalformed(t *testing.T) {
	for _, n := range []string{"", "1", "123", "   "} {
		_, err := Redact(Card{Name: "x", CardNumber: n, Expiry: "01/30"})
		assert.ErrorIs(t, err, ErrMalformedPayment)
	}
}

func TestRedact_DiscardsCVV(t *testing.T) {
	out, err := Redact(Card{Name: "x", CardNumber: "4111111111111111", Expiry: "01/30", CVV: "0420"})

	require.NoError(t, err)
	assert.NotContains(t, out.Name, "0420")
	assert.NotContains(t, out.Expiry, "0420")
	assert.NotContains(t, out.CardNumberMasked, "0420")
}
