package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation limits.
const (
	MinFullNameLength    = 2
	MaxFullNameLength    = 100
	MinJobTitleLength    = 3
	MaxJobTitleLength    = 200
	MaxDescriptionLength = 5000
	MaxLocationLength    = 200
	MaxTradeLength       = 60
	MinRating            = 1
	MaxRating            = 5
)

// MaxBasePrice is the cap on an artisan's declared base fee, in GHS.
var MaxBasePrice = decimal.NewFromInt(500)

var (
	phoneRegex       = regexp.MustCompile(`^0\d{9}$`)
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength checks a string length in runes.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty checks that a string has visible content.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateEmail checks the email format.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}

	localPart, domainPart := parts[0], parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("email local part must be between 1 and 64 characters")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("email domain must be between 1 and 255 characters")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("email local part contains invalid characters")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("email domain has an invalid format")
	}

	return nil
}

// ValidatePhone checks a Ghanaian phone number (0 plus nine digits).
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone number must be 10 digits starting with 0")
	}
	return nil
}

// ValidateFullName checks a person's display name.
func ValidateFullName(name string) error {
	if err := ValidateNonEmpty("full name", name); err != nil {
		return err
	}
	return ValidateLength("full name", strings.TrimSpace(name), MinFullNameLength, MaxFullNameLength)
}

// ValidateBasePrice checks an artisan's base fee against the platform
// bounds. Every direct booking is priced at this fee, so it must be a
// positive amount.
func ValidateBasePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("base fee must be positive")
	}
	if price.GreaterThan(MaxBasePrice) {
		return fmt.Errorf("base fee cannot exceed GHS %s", MaxBasePrice.StringFixed(0))
	}
	return nil
}

// ValidateRating checks a job review rating.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}
