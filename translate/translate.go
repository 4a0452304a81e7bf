// Package translate formats the text the VM shows its user (usage, load
// errors, the IN prompt and the HALT banner) for the current locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// fallback when the host reports no locale
const defaultLocale = "en-US"

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("lulu: locale: %v", err)
	}
	if len(locales) == 0 {
		locales = []string{defaultLocale}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats an en-US Sprintf style key for the matched locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
