package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// Recovery converts panics into a 500 JSON envelope instead of tearing the
// connection down.
func Recovery(log logging.Logger) gin.HandlerFunc {
	if log == nil {
		log = logging.NewNopLogger()
	}
	log = log.Named("http")

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("handler panicked",
					logging.Any("panic", r),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", GetRequestID(c)))

				c.AbortWithStatusJSON(http.StatusInternalServerError, common.APIResponse[any]{
					Success: false,
					Error: &common.APIError{
						Code:    string(errors.ErrCodeInternal),
						Message: "internal server error",
					},
				})
			}
		}()
		c.Next()
	}
}
