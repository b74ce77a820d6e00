package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reUnit  = regexp.MustCompile(`^[a-z-]{1,20}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a resource identifier (user/farmer/product/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Unit validates a catalog unit (lb, bunch, dozen, half-gallon, ...).
func Unit(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	return s, reUnit.MatchString(s)
}

// Rating validates a 1..5 star rating.
func Rating(n int) bool { return n >= 1 && n <= 5 }

// Status validates an order status value.
func Status(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "pending", "confirmed", "ready", "completed", "cancelled":
		return s, true
	}
	return "", false
}

// DeliveryMethod normalizes and validates the fulfillment choice.
func DeliveryMethod(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	return s, s == "pickup" || s == "delivery"
}

// LatLng validates a coordinate pair.
func LatLng(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Content validates free text (messages, notes, comments).
func Content(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return "", false
	}
	return s, true
}

// Password enforces a simple complexity window for registration.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 40 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
