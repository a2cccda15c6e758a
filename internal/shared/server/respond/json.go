package respond

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Versioned writes payload with an ETag carrying its version token.
func Versioned(c *gin.Context, status, version int, payload interface{}) {
	c.Header("ETag", strconv.Quote(strconv.Itoa(version)))
	JSON(c, status, payload)
}

// IfMatch returns the version from an If-Match header, or 0 when absent or malformed.
// Weak validators are accepted.
func IfMatch(c *gin.Context) int {
	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
