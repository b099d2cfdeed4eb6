package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wego/internal/domain"
	"wego/internal/service"
	"wego/internal/transport/http/ez"
	mdw "wego/internal/transport/http/middleware"
)

func MountUsers(authed ez.EZ, users *service.UserService) {
	ez.Register(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/user/info",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return users.Info(c.Request.Context(), mdw.Operator(c).ID)
		},
	})

	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	ez.Register(authed, ez.Action[listQ, *service.UserPage]{
		Method: http.MethodGet,
		Path:   "/user/list",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (*service.UserPage, error) {
			return users.List(c.Request.Context(), mdw.Operator(c), in.Offset, in.Limit)
		},
	})

	ez.Register(authed, ez.Action[service.CreateUserInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/user/create",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.CreateUserInput) (*domain.User, error) {
			return users.Create(c.Request.Context(), mdw.Operator(c), *in)
		},
	})

	ez.Register(authed, ez.Action[service.UpdateUserInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/user/update",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateUserInput) (*domain.User, error) {
			return users.Update(c.Request.Context(), mdw.Operator(c).ID, *in)
		},
	})

	ez.Register(authed, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/user/delete/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := pathID(c)
			if err != nil {
				return nil, err
			}
			if err := users.Delete(c.Request.Context(), mdw.Operator(c), id); err != nil {
				return nil, err
			}
			return gin.H{"id": strconv.FormatInt(id, 10)}, nil
		},
	})

	ez.Register(authed, ez.Action[service.UpdatePasswordInput, gin.H]{
		Method: http.MethodPut,
		Path:   "/password/update",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdatePasswordInput) (gin.H, error) {
			if err := users.UpdatePassword(c.Request.Context(), mdw.Operator(c).ID, *in); err != nil {
				return nil, err
			}
			return gin.H{}, nil
		},
	})
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.E(domain.KindValidation, "invalid id")
	}
	return id, nil
}
