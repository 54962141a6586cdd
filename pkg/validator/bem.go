package validator

import (
	"regexp"
	"strings"
)

// bemRe is the naming grammar: block(__element)?(--modifier)?, each
// part lowercase alphanumeric with single interior hyphens.
var bemRe = regexp.MustCompile(`^[a-z][a-z0-9]*(?:-[a-z0-9]+)*(?:__[a-z][a-z0-9]*(?:-[a-z0-9]+)*)?(?:--[a-z][a-z0-9]*(?:-[a-z0-9]+)*)?$`)

// shortWordRe matches the short utility-word exemption: a lowercase
// word of at most four letters.
var shortWordRe = regexp.MustCompile(`^[a-z]{1,4}$`)

// statePrefixes exempt state and hook classes from the BEM grammar.
var statePrefixes = []string{"is-", "has-", "js-"}

// IsValidClassName reports whether a class name is acceptable: either
// an exempted utility/state name or a match for the BEM grammar.
func IsValidClassName(name string) bool {
	for _, prefix := range statePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	if shortWordRe.MatchString(name) {
		return true
	}
	return bemRe.MatchString(name)
}
