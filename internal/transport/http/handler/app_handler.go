package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wego/internal/domain"
	"wego/internal/service"
	"wego/internal/transport/http/ez"
	mdw "wego/internal/transport/http/middleware"
)

func MountApps(authed ez.EZ, apps *service.AppService) {
	ez.Register(authed, ez.Action[struct{}, []domain.App]{
		Method: http.MethodGet,
		Path:   "/app/all",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.App, error) {
			return apps.List(c.Request.Context(), mdw.Operator(c).ID)
		},
	})

	ez.Register(authed, ez.Action[service.AppInput, *domain.App]{
		Method: http.MethodPost,
		Path:   "/app/create",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.AppInput) (*domain.App, error) {
			return apps.Create(c.Request.Context(), mdw.Operator(c).ID, *in)
		},
	})

	ez.Register(authed, ez.Action[service.UpdateAppInput, *domain.App]{
		Method: http.MethodPut,
		Path:   "/app/update",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateAppInput) (*domain.App, error) {
			return apps.Update(c.Request.Context(), mdw.Operator(c).ID, *in)
		},
	})

	// The body is the owner's complete ranking, most significant first.
	type sortItem struct {
		ID int64 `json:"id,string"`
	}
	ez.Register(authed, ez.Action[[]sortItem, gin.H]{
		Method: http.MethodPut,
		Path:   "/app/sort",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *[]sortItem) (gin.H, error) {
			ids := make([]int64, 0, len(*in))
			for _, it := range *in {
				ids = append(ids, it.ID)
			}
			if err := apps.Resequence(c.Request.Context(), mdw.Operator(c).ID, ids); err != nil {
				return nil, err
			}
			return gin.H{}, nil
		},
	})

	ez.Register(authed, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/app/delete/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := pathID(c)
			if err != nil {
				return nil, err
			}
			if err := apps.Delete(c.Request.Context(), mdw.Operator(c).ID, id); err != nil {
				return nil, err
			}
			return gin.H{}, nil
		},
	})
}
