package httpserver

import (
	"github.com/gin-gonic/gin"

	"github.com/natorvoice/natorvoice/internal/common"
)

const invalidJSONMessage = "Request body must be valid JSON."

// writeError logs err and answers with the uniform error envelope. Only the
// caller-safe message leaves the server.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	e := common.AsError(err)
	ctx := c.Request.Context()
	args := []any{"kind", e.Kind.String(), "severity", e.Severity.String(), "path", c.Request.URL.Path, "error", err}

	switch e.Severity {
	case common.SeverityLow:
		s.logger.Info(ctx, "request rejected", args...)
	case common.SeverityMedium:
		s.logger.Warn(ctx, "request failed", args...)
	default:
		s.logger.Error(ctx, "request failed", args...)
	}

	c.AbortWithStatusJSON(e.Status(), gin.H{"error": e.Message})
}

func invalidJSON(err error) error {
	return common.NewError(common.KindValidation, invalidJSONMessage, err)
}
