package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wego/internal/domain"
	"wego/internal/service"
	"wego/internal/transport/http/ez"
	mdw "wego/internal/transport/http/middleware"
)

func MountSettings(authed ez.EZ, settings *service.SettingService) {
	ez.Register(authed, ez.Action[struct{}, *domain.Setting]{
		Method: http.MethodGet,
		Path:   "/setting",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Setting, error) {
			return settings.Get(c.Request.Context(), mdw.Operator(c).ID)
		},
	})

	ez.Register(authed, ez.Action[service.SettingInput, *domain.Setting]{
		Method: http.MethodPut,
		Path:   "/setting/update",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.SettingInput) (*domain.Setting, error) {
			return settings.Update(c.Request.Context(), mdw.Operator(c).ID, *in)
		},
	})
}
