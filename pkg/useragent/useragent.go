package useragent

import (
	"strings"
)

// Device types.
const (
	DeviceTypeDesktop = "desktop"
	DeviceTypeMobile  = "mobile"
	DeviceTypeTablet  = "tablet"
	DeviceTypeBot     = "bot"
)

// Unknown is reported for browsers and operating systems that match no known token.
const Unknown = "Unknown"

// UserAgent is the classified form of a User-Agent string.
type UserAgent struct {
	raw         string
	deviceType  string
	browserName string
	browserVer  string
	os          string
}

// New builds a UserAgent from already known parts.
func New(raw, deviceType, browserName, browserVer, os string) UserAgent {
	return UserAgent{
		raw:         raw,
		deviceType:  deviceType,
		browserName: browserName,
		browserVer:  browserVer,
		os:          os,
	}
}

// Parse classifies s. For an empty string it returns ErrEmptyUserAgent and a
// desktop/Unknown value.
func Parse(s string) (UserAgent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return New("", DeviceTypeDesktop, Unknown, "", Unknown), ErrEmptyUserAgent
	}

	device := detectDevice(s)
	name, ver := detectBrowser(s, device == DeviceTypeBot)
	return UserAgent{
		raw:         s,
		deviceType:  device,
		browserName: name,
		browserVer:  ver,
		os:          detectOS(s),
	}, nil
}

func (u UserAgent) String() string      { return u.raw }
func (u UserAgent) DeviceType() string  { return u.deviceType }
func (u UserAgent) BrowserName() string { return u.browserName }
func (u UserAgent) BrowserVer() string  { return u.browserVer }
func (u UserAgent) OS() string          { return u.os }

func (u UserAgent) IsMobile() bool  { return u.deviceType == DeviceTypeMobile }
func (u UserAgent) IsTablet() bool  { return u.deviceType == DeviceTypeTablet }
func (u UserAgent) IsDesktop() bool { return u.deviceType == DeviceTypeDesktop }
func (u UserAgent) IsBot() bool     { return u.deviceType == DeviceTypeBot }

// GetShortIdentifier returns a compact label such as "Chrome/120.0 (Windows, desktop)".
func (u UserAgent) GetShortIdentifier() string {
	if u.IsBot() {
		return "Bot: " + u.browserName
	}
	name := u.browserName
	if u.browserVer != "" {
		name += "/" + u.browserVer
	}
	return name + " (" + u.os + ", " + u.deviceType + ")"
}

var (
	botTokens = []string{
		"Googlebot", "Bingbot", "bingbot", "Slurp", "DuckDuckBot", "Baiduspider", "YandexBot",
		"facebookexternalhit", "Twitterbot", "LinkedInBot", "Applebot", "AhrefsBot", "SemrushBot",
		"bot/", "crawler", "spider",
	}
	tabletTokens = []string{"iPad", "Tablet", "PlayBook", "Silk", "Kindle"}
	mobileTokens = []string{"Mobile", "iPhone", "iPod", "Android", "BlackBerry", "IEMobile", "Opera Mini", "webOS"}
)

func detectDevice(s string) string {
	for _, tok := range botTokens {
		if strings.Contains(s, tok) {
			return DeviceTypeBot
		}
	}
	for _, tok := range tabletTokens {
		if strings.Contains(s, tok) {
			return DeviceTypeTablet
		}
	}
	// Android tablets omit the Mobile token.
	if strings.Contains(s, "Android") && !strings.Contains(s, "Mobile") {
		return DeviceTypeTablet
	}
	for _, tok := range mobileTokens {
		if strings.Contains(s, tok) {
			return DeviceTypeMobile
		}
	}
	return DeviceTypeDesktop
}

// browserRules are checked in order; engines that embed other engines' tokens come first
// (Edge and Opera carry "Chrome", Chrome carries "Safari").
var browserRules = []struct {
	name   string
	tokens []string
}{
	{"Edge", []string{"Edg/", "EdgA/", "EdgiOS/", "Edge/"}},
	{"Opera", []string{"OPR/", "Opera/", "Opera "}},
	{"Samsung Internet", []string{"SamsungBrowser/"}},
	{"Firefox", []string{"Firefox/", "FxiOS/"}},
	{"Chrome", []string{"Chrome/", "CriOS/"}},
	{"Safari", []string{"Safari/"}},
	{"Internet Explorer", []string{"MSIE ", "Trident/"}},
}

func detectBrowser(s string, bot bool) (name, version string) {
	if bot {
		for _, tok := range botTokens {
			if i := strings.Index(s, tok); i >= 0 {
				return botName(s, i), ""
			}
		}
	}
	for _, rule := range browserRules {
		for _, tok := range rule.tokens {
			if i := strings.Index(s, tok); i >= 0 {
				return rule.name, browserVersion(s, rule.name, s[i+len(tok):])
			}
		}
	}
	return Unknown, ""
}

func browserVersion(s, name, rest string) string {
	switch name {
	case "Safari":
		// Safari reports its marketing version in Version/x.y.
		if i := strings.Index(s, "Version/"); i >= 0 {
			return majorMinor(s[i+len("Version/"):])
		}
		return ""
	case "Internet Explorer":
		if i := strings.Index(s, "rv:"); i >= 0 {
			return majorMinor(s[i+len("rv:"):])
		}
	}
	return majorMinor(rest)
}

// majorMinor reads a dotted version prefix and keeps at most two components.
func majorMinor(s string) string {
	end := 0
	dots := 0
	for end < len(s) {
		c := s[end]
		if c == '.' {
			dots++
			if dots == 2 {
				break
			}
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}
	return strings.TrimSuffix(s[:end], ".")
}

func botName(s string, at int) string {
	start := strings.LastIndexAny(s[:at], " ;(") + 1
	end := at
	for end < len(s) && s[end] != '/' && s[end] != ';' && s[end] != ' ' && s[end] != ')' {
		end++
	}
	if start >= end {
		return Unknown
	}
	return s[start:end]
}

func detectOS(s string) string {
	switch {
	case strings.Contains(s, "Windows"):
		return "Windows"
	case strings.Contains(s, "iPhone"), strings.Contains(s, "iPad"), strings.Contains(s, "iPod"):
		return "iOS"
	case strings.Contains(s, "Mac OS X"), strings.Contains(s, "Macintosh"):
		return "macOS"
	case strings.Contains(s, "Android"):
		return "Android"
	case strings.Contains(s, "CrOS"):
		return "ChromeOS"
	case strings.Contains(s, "Linux"):
		return "Linux"
	}
	return Unknown
}
