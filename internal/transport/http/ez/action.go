// Package ez registers non-CRUD actions in one line each and maps domain
// error kinds onto the response envelope. Handlers never build HTTP errors
// by hand.
package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wego/internal/domain"
	resp "wego/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Binder selects how the input struct is populated.
type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // read c.Param / headers yourself
)

// Action describes one endpoint: I is the input shape, O the output.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Handler func(c *gin.Context, in *I) (O, error)
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// WriteError maps a typed domain error onto envelope code and HTTP status.
// Internal faults are attached to the gin error stack for the access log and
// replaced with a generic message; raw storage errors never reach the client.
func WriteError(c *gin.Context, err error) {
	status, code := statusFor(domain.KindOf(err))
	msg := err.Error()
	if code == resp.CodeServerError {
		_ = c.Error(err)
		msg = ""
	}
	c.AbortWithStatusJSON(status, resp.Error(code, msg))
}

func statusFor(kind domain.Kind) (status, code int) {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest, resp.CodeBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized, resp.CodeUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden, resp.CodeForbidden
	case domain.KindNotFound:
		return http.StatusNotFound, resp.CodeNotFound
	case domain.KindConflict:
		return http.StatusConflict, resp.CodeConflict
	default:
		return http.StatusInternalServerError, resp.CodeServerError
	}
}
