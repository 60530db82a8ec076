package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/response"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/sanitize"
)

// Sanitize strips markup from every string of JSON request bodies.
// Bodies that are not valid JSON pass unchanged so binding reports the error.
func Sanitize(s *sanitize.Sanitizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || !hasBody(c.Request.Method) ||
			!strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			if isBodyTooLarge(err) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "El cuerpo de la solicitud es demasiado grande")
			} else {
				response.BadRequest(c, 10001, "No se pudo leer el cuerpo de la solicitud")
			}
			c.Abort()
			return
		}

		if clean, err := s.JSON(raw); err == nil {
			raw = clean
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		c.Request.ContentLength = int64(len(raw))

		c.Next()
	}
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}
