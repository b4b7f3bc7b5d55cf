package model

import (
	"math"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneStrip   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "")
)

const maxYearsOfExperience = 50

// ValidEmail reports whether email looks like local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone reports whether phone is an optionally +-prefixed digit string after
// spaces, dashes and parentheses are removed.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneStrip.Replace(phone))
}

// ValidYears reports whether years is within 0..50 in half-year steps.
func ValidYears(years float64) bool {
	if years < 0 || years > maxYearsOfExperience {
		return false
	}
	return math.Mod(years*2, 1) == 0
}
