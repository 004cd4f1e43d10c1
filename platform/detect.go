package platform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type detectRule struct {
	anyOf  []string // at least one must be present
	allOf  []string // every one must also be present
	noneOf []string // none may be present
	key    Key
}

// Order matters: iPadOS reports a desktop Mac signature, and Android reports Linux,
// so the more specific rules must come first.
var detectRules = []detectRule{
	{anyOf: []string{"iphone", "ipod", "ipad"}, key: IOS},
	{anyOf: []string{"macintosh", "mac os x"}, allOf: []string{"mobile"}, key: IOS},
	{anyOf: []string{"android"}, key: Android},
	{anyOf: []string{"windows nt"}, key: Windows},
	{anyOf: []string{"macintosh", "mac os x"}, key: MacOS},
	{anyOf: []string{"linux"}, noneOf: []string{"android"}, key: Linux},
}

func (r *detectRule) matches(ua string) bool {
	found := false
	for _, token := range r.anyOf {
		if strings.Contains(ua, token) {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for _, token := range r.allOf {
		if !strings.Contains(ua, token) {
			return false
		}
	}
	for _, token := range r.noneOf {
		if strings.Contains(ua, token) {
			return false
		}
	}
	return true
}

// Detect returns the platform a User-Agent string belongs to, or [Unknown].
// Any input is accepted; empty or unrecognized strings yield [Unknown].
// Matching uses full Unicode lowercasing, so “İ” becomes “i̇” and never matches an ASCII “i”.
func Detect(userAgent string) Key {
	ua := cases.Lower(language.Und).String(userAgent)
	for i := range detectRules {
		if detectRules[i].matches(ua) {
			return detectRules[i].key
		}
	}
	return Unknown
}
