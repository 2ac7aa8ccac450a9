package geo

import "strings"

// DeviceInfo is what the user agent says about the client platform.
type DeviceInfo struct {
	IsIOS     bool   `json:"isIOS"`
	IsAndroid bool   `json:"isAndroid"`
	IsMobile  bool   `json:"isMobile"`
	Browser   string `json:"browser"`
}

// DetectDevice classifies a User-Agent header.
func DetectDevice(userAgent string) DeviceInfo {
	ua := strings.ToLower(userAgent)
	d := DeviceInfo{
		IsIOS:     strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") || strings.Contains(ua, "ipod"),
		IsAndroid: strings.Contains(ua, "android"),
	}
	d.IsMobile = d.IsIOS || d.IsAndroid || strings.Contains(ua, "mobile")

	switch {
	case strings.Contains(ua, "crios"), strings.Contains(ua, "chrome") && !strings.Contains(ua, "edg"):
		d.Browser = "chrome"
	case strings.Contains(ua, "fxios"), strings.Contains(ua, "firefox"):
		d.Browser = "firefox"
	case strings.Contains(ua, "edg"):
		d.Browser = "edge"
	case strings.Contains(ua, "safari"):
		d.Browser = "safari"
	default:
		d.Browser = "other"
	}
	return d
}

// SkipsImageMetadata is true on iOS, where uploads have location metadata stripped.
func (d DeviceInfo) SkipsImageMetadata() bool {
	return d.IsIOS
}
