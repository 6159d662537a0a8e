package handler

import (
	"errors"
	"net/http"
	"strconv"

	"FilmDB/internal/logging"
	"FilmDB/internal/middleware"
	"FilmDB/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

func success(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"status": statusSuccess, "data": data})
}

func fail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"status": statusFail, "message": msg})
}

// writeError is the single place where service errors become HTTP codes.
func writeError(c *gin.Context, err error) {
	var (
		ve *service.ValidationError
		ue *service.UnauthorizedError
		qe *service.QueryError
	)
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ve.Message)
	case errors.As(err, &ue):
		fail(c, http.StatusForbidden, ue.Message)
	case errors.As(err, &qe):
		if qe.NotFound() {
			fail(c, http.StatusNotFound, qe.Message)
			return
		}
		fail(c, http.StatusBadRequest, qe.Message)
	default:
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": statusError, "message": err.Error()})
	}
}

// NoMethod answers requests whose path exists under another method.
func NoMethod(c *gin.Context) {
	fail(c, http.StatusMethodNotAllowed, "method not allowed")
}

func NoRoute(c *gin.Context) {
	fail(c, http.StatusNotFound, "route not found")
}

func uintParam(c *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}

func userID(c *gin.Context) uint64 {
	return middleware.UserID(c)
}
