package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"error"`

	err error
}

func (e *Err) Error() string {
	return e.Msg
}

// RenderErr writes the error response and logs server-side failures with the
// request ID.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.err),
		)
	}

	ctx.JSON(e.StatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		Msg:        err.Error(),
		err:        err,
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Msg:        err.Error(),
		err:        err,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Msg:        "wrong credentials",
		err:        err,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		Msg:        "permission denied",
		err:        err,
	}
}

func ErrPasswordChangeRequired() *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		Msg:        "password change required",
		err:        errors.New("password change required"),
	}
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	err := fmt.Errorf("%v not found (%v = %v)", resource, key, value)

	return &Err{
		StatusCode: http.StatusNotFound,
		Msg:        err.Error(),
		err:        err,
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		Msg:        err.Error(),
		err:        err,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		StatusCode: http.StatusInternalServerError,
		Msg:        "internal server error",
		err:        err,
	}
}
