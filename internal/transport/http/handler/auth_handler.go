// Package handler mounts the HTTP actions onto router groups. Handlers only
// translate between the wire shapes and the services; all rules live below.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wego/internal/domain"
	"wego/internal/service"
	"wego/internal/transport/http/ez"
	mdw "wego/internal/transport/http/middleware"
)

type loginIn struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// MountAuth registers login on the public group and logout on the
// authenticated one.
func MountAuth(pub, authed ez.EZ, auth *service.AuthService) {
	ez.Register(pub, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			u, token, err := auth.Login(c.Request.Context(), in.Login, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{Token: token, User: u}, nil
		},
	})

	ez.Register(authed, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := auth.Logout(c.Request.Context(), mdw.BearerToken(c)); err != nil {
				return nil, err
			}
			return gin.H{}, nil
		},
	})
}
