package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxIDParamLength - максимальная длина строкового идентификатора в URL
const maxIDParamLength = 128

// ExtractIDParam создает middleware для извлечения и валидации строкового
// идентификатора из URL.
// paramName - имя параметра в URL (например, "questionID").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractIDParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param(paramName)
		if id == "" || len(id) > maxIDParamLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			c.Abort()
			return
		}
		c.Set(contextKey, id)
		c.Next()
	}
}
