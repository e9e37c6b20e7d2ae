package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
)

// APIVersionHeader names the response header carrying the resolved version.
const APIVersionHeader = "API-Version"

// DefaultVersion is assumed when the path carries no version prefix.
const DefaultVersion = "v1"

var versionPattern = regexp.MustCompile(`^/(v\d+)/`)

// VersionFromPath extracts the API version from a request path.
// "/v2/bookings/create" resolves to "v2", "/bookings/create" to the default.
func VersionFromPath(path string) string {
	if m := versionPattern.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return DefaultVersion
}

// StripVersion removes a leading version segment so versioned and bare
// paths share rate-limit rules and log labels.
func StripVersion(path string) string {
	if m := versionPattern.FindStringSubmatch(path); m != nil {
		return path[len(m[1])+1:]
	}
	return path
}

// APIVersion resolves the request's API version and tags every response
// with it. The header is set before the handler chain runs so rejections
// from later middleware carry it too.
func APIVersion() gin.HandlerFunc {
	return func(c *gin.Context) {
		version := VersionFromPath(c.Request.URL.Path)
		c.Set("api_version", version)
		c.Header(APIVersionHeader, version)
		c.Next()
	}
}

// Mirror registers the same routes under the versioned prefix and the
// bare path. The bare path is an alias for the default version; this is
// registration-time duplication, not a runtime redirect.
func Mirror(r *gin.Engine, register func(gin.IRouter)) {
	register(r.Group("/" + DefaultVersion))
	register(r.Group(""))
}
