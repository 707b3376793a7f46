package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bibliotech/internal/remote"
	"bibliotech/internal/session"
	"bibliotech/internal/shared/failure"
	"bibliotech/internal/shared/response"
)

// toHTTPStatus maps an operation error onto a status and an error code.
func toHTTPStatus(err error) (int, string) {
	switch failure.KindOf(err) {
	case failure.KindValidation:
		return http.StatusBadRequest, "VALIDATION_FAILED"
	case failure.KindConflict:
		return http.StatusConflict, "OPERATION_IN_PROGRESS"
	case failure.KindReferential:
		return http.StatusConflict, "REFERENCED"
	case failure.KindClosed:
		return http.StatusServiceUnavailable, "SESSION_CLOSED"
	case failure.KindRemote:
		switch {
		case remote.IsCode(err, remote.CodeNotFound):
			return http.StatusNotFound, "NOT_FOUND"
		case remote.IsCode(err, remote.CodeForeignKey):
			return http.StatusConflict, "REFERENCED"
		}
		return http.StatusBadGateway, "REMOTE_ERROR"
	}

	switch {
	case errors.Is(err, session.ErrPageOutOfRange), errors.Is(err, session.ErrUnknownSortField):
		return http.StatusBadRequest, "BAD_REQUEST"
	}
	return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
}

func respondError(c *gin.Context, err error) {
	status, code := toHTTPStatus(err)
	response.ErrorResponse(c, status, code, failure.Message(err))
}
