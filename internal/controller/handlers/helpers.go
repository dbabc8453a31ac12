package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// bindJSON разбирает тело и валидирует его. При ошибке отвечает 400 и возвращает false
func bindJSON(c *gin.Context, req validator) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// positiveID разбирает положительный целочисленный идентификатор
func positiveID(c *gin.Context, raw, name string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
