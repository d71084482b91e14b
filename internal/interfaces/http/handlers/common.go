// Package handlers implements the gin HTTP handlers of the analysis API.
package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// respond writes a success envelope.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, common.OK(data))
}

// respondError maps an error onto the JSON envelope.  AppError codes drive
// the HTTP status; anything else is an opaque 500.
func respondError(c *gin.Context, err error) {
	apiErr := &common.APIError{
		Code:    string(errors.ErrCodeInternal),
		Message: "internal server error",
	}
	status := http.StatusInternalServerError

	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		apiErr.Code = string(ae.Code)
		apiErr.Message = ae.Message
		apiErr.Detail = ae.Detail
		status = errors.HTTPStatusForCode(ae.Code)
	}

	c.Error(err)
	c.AbortWithStatusJSON(status, common.APIResponse[any]{Success: false, Error: apiErr})
}

// respondInvalid rejects a malformed request body or parameter.
func respondInvalid(c *gin.Context, err error, message string) {
	respondError(c, errors.Wrap(err, errors.ErrCodeValidation, message))
}
