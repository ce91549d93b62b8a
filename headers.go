package tweetsift

// defaultUserAgent identifies the collector to the API.
const defaultUserAgent = "go-tweetsift/1.0"

// apiHeaders returns the headers sent with every v2 API request.
func apiHeaders(bearer, userAgent string) map[string]string {
	return map[string]string{
		"authorization":   "Bearer " + bearer,
		"user-agent":      userAgent,
		"accept":          "application/json",
		"accept-encoding": "gzip, deflate, br",
	}
}

// apiHeaderOrder is the header order used on the wire.
var apiHeaderOrder = []string{
	"authorization",
	"user-agent",
	"accept",
	"accept-encoding",
}
