// Package i18n resolves request locales for the web service.
//
// Copy ships in English; the locale still drives number and date
// formatting so Indian readers see grouped figures the way they
// expect.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the reader's language preference.
	LangCookieName = "intel_lang"
)

// The first tag doubles as the matcher fallback.
var supportedTags = []language.Tag{
	language.MustParse("en-IN"),
	language.English,
	language.MustParse("hi-IN"),
}

var tagMatcher = language.NewMatcher(supportedTags)
var supportedTagSet = make(map[string]language.Tag, len(supportedTags))

func init() {
	for _, tag := range supportedTags {
		supportedTagSet[tag.String()] = tag
	}
}

// Default returns the default language tag.
func Default() language.Tag {
	return supportedTags[0]
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag determines the best language tag for the request. The
// bool indicates whether the lang query param should be persisted as
// a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := parseTag(langValue); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := parseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			// Match can synthesize tags; index back into the supported
			// list for a canonical one.
			_, index, _ := tagMatcher.Match(tags...)
			return supportedTags[index], false
		}
	}

	return Default(), false
}

// PersistTag stores the language preference as a cookie.
func PersistTag(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func parseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Tag{}, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	if exact, ok := supportedTagSet[tag.String()]; ok {
		return exact, true
	}
	_, index, confidence := tagMatcher.Match(tag)
	if confidence == language.No {
		return language.Tag{}, false
	}
	return supportedTags[index], true
}
