package controller

import (
	"errors"
	"net/http"
	"strconv"

	"qryti_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError translates service sentinels into HTTP responses.
// Anything unrecognized is a 500 and gets logged with the request path.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrCertificateNotFound),
		errors.Is(err, util.ErrVideoNotFound),
		errors.Is(err, util.ErrResourceNotFound):
		util.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrAttemptLimitReached),
		errors.Is(err, util.ErrAttemptAlreadySubmitted),
		errors.Is(err, util.ErrQuizInactive),
		errors.Is(err, util.ErrAttemptNotCompleted),
		errors.Is(err, util.ErrInvalidAnswerPayload),
		errors.Is(err, util.ErrCourseNotCompleted),
		errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrInvalidVideoFile):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrAlreadyEnrolled):
		util.Conflict(c, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	default:
		util.LogInternalError(c, err)
	}
}

// paramUint parses a positive integer path parameter.
func paramUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		util.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}
