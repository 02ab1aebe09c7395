package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	ua "github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
)

// Audit logs every mutating request with the authenticated operator, client
// address and parsed device info. Reads are not logged.
func Audit(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"ip":          c.ClientIP(),
			"duration_ms": time.Since(start).Milliseconds(),
		}

		if userCtx, ok := GetUserContext(c); ok {
			fields["operator_id"] = userCtx.UserID
			fields["operator"] = userCtx.Email
		}

		if raw := c.Request.UserAgent(); raw != "" {
			parser := ua.New(raw)
			browser, _ := parser.Browser()
			fields["browser"] = browser
			fields["os"] = parser.OSInfo().Name
			if parser.Mobile() {
				fields["device"] = "mobile"
			} else {
				fields["device"] = "desktop"
			}
		}

		logger.WithFields(fields).Info("Admin action")
	}
}
