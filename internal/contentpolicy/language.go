// Package contentpolicy implements the two gates a crawled page must pass
// before its links are followed and its text indexed: it must be English,
// and it must not trip the inappropriate-content filter.
package contentpolicy

import "strings"

// IsEnglish reports whether a document's root lang attribute marks it as
// English. A page must positively declare "en" (or an "en-"-prefixed
// variant); a missing or empty attribute is rejected along with every
// other declared language.
func IsEnglish(rootLang string) bool {
	lang := strings.ToLower(strings.TrimSpace(rootLang))
	if lang == "" {
		return false
	}
	return strings.HasPrefix(lang, "en")
}
