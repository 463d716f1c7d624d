package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FailedResponse renders err as the public error body.
// Internal errors never leak their cause.
func FailedResponse(err error) gin.H {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError && appErr.Err != nil {
			return gin.H{"error": appErr.Message}
		}
		body := gin.H{"error": appErr.Message}
		if appErr.Code != "" {
			body["code"] = appErr.Code
		}
		return body
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return gin.H{"error": ValidationMessage(err)}
	}
	return gin.H{"error": GENERIC_ERROR}
}

// SuccessResponse wraps a message for endpoints that only acknowledge.
func SuccessResponse(msg string) gin.H {
	return gin.H{"message": msg}
}
