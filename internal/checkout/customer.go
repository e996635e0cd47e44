package checkout

import (
	"errors"
	"strings"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPaymentUnavailable = errors.New("payment method unavailable")
	ErrUnknownPayment     = errors.New("unknown payment method")
)

const DefaultCountry = "United States"

type Customer struct {
	FirstName           string `json:"first_name" validate:"required,max=100"`
	LastName            string `json:"last_name" validate:"required,max=100"`
	Email               string `json:"email" validate:"required,email"`
	Phone               string `json:"phone" validate:"required,max=40"`
	Address             string `json:"address" validate:"required,max=200"`
	City                string `json:"city" validate:"required,max=100"`
	State               string `json:"state,omitempty" validate:"max=100"`
	ZipCode             string `json:"zip_code" validate:"required,max=20"`
	Country             string `json:"country,omitempty" validate:"max=100"`
	SpecialInstructions string `json:"special_instructions,omitempty" validate:"max=500"`
}

func (c *Customer) normalize() {
	for _, f := range []*string{
		&c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
		&c.City, &c.State, &c.ZipCode, &c.Country, &c.SpecialInstructions,
	} {
		*f = strings.TrimSpace(*f)
	}
	c.Email = strings.ToLower(c.Email)
	if c.Country == "" {
		c.Country = DefaultCountry
	}
}

type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "cod"
	PaymentStripe     PaymentMethod = "stripe"
	PaymentSSLCommerz PaymentMethod = "sslcommerz"
)

// ParsePaymentMethod accepts the three known methods. Only cash on delivery
// can complete an order; the card gateways report ErrPaymentUnavailable.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "", PaymentCOD:
		return PaymentCOD, nil
	case PaymentStripe, PaymentSSLCommerz:
		return m, ErrPaymentUnavailable
	default:
		return "", ErrUnknownPayment
	}
}
