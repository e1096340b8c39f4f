package intercept

import (
	"slices"
	"strings"

	"github.com/viant/pocketguard/model"
)

// DefaultEmergencyNumbers are never intercepted.
var DefaultEmergencyNumbers = EmergencyList{"911", "112", "999", "000", "110", "119", "100", "101", "102", "108"}

// shortCodeDigits is the longest dialled string treated as a short code that
// may end in an emergency number.
const shortCodeDigits = 4

// EmergencyList is a fixed allow-list of emergency numbers. Matching works on
// digits only and is not region aware.
type EmergencyList []string

// With returns a copy of l extended with the digits of numbers that are not
// listed yet.
func (l EmergencyList) With(numbers ...string) EmergencyList {
	ret := append(EmergencyList(nil), l...)
	for _, number := range numbers {
		cleaned := model.Digits(number)
		if cleaned == "" || slices.Contains(ret, cleaned) {
			continue
		}
		ret = append(ret, cleaned)
	}
	return ret
}

// Match reports whether number is an emergency number: its digits equal a
// listed number, or they end with one and are at most four digits long.
func (l EmergencyList) Match(number string) bool {
	cleaned := model.Digits(number)
	if cleaned == "" {
		return false
	}
	for _, candidate := range l {
		if candidate == "" {
			continue
		}
		if cleaned == candidate {
			return true
		}
		if len(cleaned) <= shortCodeDigits && strings.HasSuffix(cleaned, candidate) {
			return true
		}
	}
	return false
}
