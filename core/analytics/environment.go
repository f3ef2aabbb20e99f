package analytics

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/moi-restaurants/tracker/pkg/useragent"
)

// ProbeEnvironment classifies b. A nil Browser yields the zero UserInfo.
func ProbeEnvironment(b Browser) UserInfo {
	if b == nil {
		return UserInfo{}
	}

	raw := b.UserAgent()
	ua, _ := useragent.Parse(raw) // an empty UA still classifies as desktop/Unknown

	device := ua.DeviceType()
	if ua.IsBot() {
		device = useragent.DeviceTypeDesktop
	}

	return UserInfo{
		UserAgent:        raw,
		DeviceType:       device,
		Browser:          ua.BrowserName(),
		OS:               ua.OS(),
		ScreenResolution: formatScreen(b.Screen()),
		Language:         canonicalLanguage(b.Language()),
		IsBot:            ua.IsBot(),
	}
}

func formatScreen(s Screen) string {
	if s.Width <= 0 || s.Height <= 0 {
		return ""
	}
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

// canonicalLanguage returns the BCP 47 form of raw, or raw itself when it does not parse.
func canonicalLanguage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return raw
	}
	return tag.String()
}
