package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"wego/internal/domain"
	"wego/internal/service"
	"wego/internal/transport/http/ez"
	mdw "wego/internal/transport/http/middleware"
	resp "wego/internal/transport/http/response"
)

// MountFiles handles multipart image upload. The stored path comes back as
// a /files URI for the static route.
func MountFiles(g *gin.RouterGroup, files *service.FileService) {
	g.POST("/file/image", func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			ez.WriteError(c, domain.E(domain.KindValidation, "missing file field"))
			return
		}

		f, err := fh.Open()
		if err != nil {
			ez.WriteError(c, domain.Wrap(domain.KindInternal, "open upload", err))
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			ez.WriteError(c, domain.Wrap(domain.KindInternal, "read upload", err))
			return
		}

		ext := strings.ToLower(filepath.Ext(fh.Filename))
		rel, err := files.SaveImage(mdw.Operator(c).ID, data, ext)
		if err != nil {
			ez.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"uri": "/files/" + rel}))
	})
}
