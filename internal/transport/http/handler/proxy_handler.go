package handler

import (
	"github.com/gin-gonic/gin"

	"wego/internal/domain"
	"wego/internal/service"
	"wego/internal/transport/http/ez"
)

// MountProxy serves fetched upstream bytes verbatim, outside the JSON
// envelope, so the browser can render favicons and images directly.
func MountProxy(g *gin.RouterGroup, proxy *service.ProxyService) {
	g.GET("/proxy", func(c *gin.Context) {
		raw := c.Query("url")
		if raw == "" {
			ez.WriteError(c, domain.E(domain.KindValidation, "missing url"))
			return
		}
		body, contentType, err := proxy.Fetch(c.Request.Context(), raw)
		if err != nil {
			ez.WriteError(c, err)
			return
		}
		c.Data(200, contentType, body)
	})
}
