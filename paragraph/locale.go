package paragraph

import (
	jj "github.com/cloudfoundry/jibber_jabber"
	"github.com/npillmayer/bidiline/bidi"
	"golang.org/x/text/language"
)

// Scripts written from right to left.
var rtlScripts = map[string]bool{
	"Adlm": true, "Arab": true, "Hebr": true, "Mand": true, "Nkoo": true,
	"Rohg": true, "Samr": true, "Syrc": true, "Thaa": true,
}

// DirectionForLocale returns the writing direction of the script of a
// locale, given as an IETF language tag. Unknown locales are LTR.
func DirectionForLocale(locale string) bidi.Direction {
	tag, err := language.Parse(locale)
	if err != nil {
		T().Debugf("cannot parse locale %q: %v", locale, err)
		return bidi.LTR
	}
	script, confidence := tag.Script()
	if confidence == language.No {
		return bidi.LTR
	}
	if rtlScripts[script.String()] {
		return bidi.RTL
	}
	return bidi.LTR
}

// DirectionFromEnvironment returns the writing direction of the user's
// locale. If the locale cannot be detected, LTR is returned.
func DirectionFromEnvironment() bidi.Direction {
	return DirectionForLocale(userLocale(jj.DetectIETF()))
}

// userLocale falls back to en-US if locale detection failed.
func userLocale(locale string, err error) string {
	if err != nil {
		T().Errorf("%v", err)
		T().Infof("paragraph direction defaults to locale en-US")
		return "en-US"
	}
	T().Infof("detected user locale %v", locale)
	return locale
}
