// Package useragent classifies User-Agent strings into device type, browser and operating
// system for visitor analytics.
//
// Classification is a pure function over the string: ordered substring checks against known
// tokens, with tablet signatures checked before mobile ones and desktop as the fallback.
//
// # Basic Usage
//
//	import "github.com/moi-restaurants/tracker/pkg/useragent"
//
//	ua, err := useragent.Parse(r.Header.Get("User-Agent"))
//	if err != nil {
//		log.Printf("Failed to parse User-Agent: %v", err)
//	}
//
//	fmt.Println(ua.DeviceType())  // "mobile"
//	fmt.Println(ua.BrowserName()) // "Safari"
//	fmt.Println(ua.BrowserVer())  // "17.0"
//	fmt.Println(ua.OS())          // "iOS"
//
// # Device Type Detection
//
//	switch ua.DeviceType() {
//	case useragent.DeviceTypeTablet:
//	case useragent.DeviceTypeMobile:
//	case useragent.DeviceTypeBot:
//	default: // useragent.DeviceTypeDesktop
//	}
//
// # Error Handling
//
// Parse never fails hard. An empty string returns ErrEmptyUserAgent together with a usable
// desktop/Unknown value, so callers can log the error and keep the result.
package useragent
