package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/pkg/apperrors"
	"github.com/courseport/courseport/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. Controllers
// funnel every service error through here so the error taxonomy stays
// in one place.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	message := ""
	if errors.As(err, &custom) {
		message = custom.Message
	}

	respond := func(status int, code dto.ErrorCode, fallback string) {
		if message == "" {
			message = fallback
		}
		c.JSON(status, dto.APIResponse{
			Error: dto.NewErrorDetail(code, message),
		})
	}

	switch {
	// 404
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrCourseNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Course not found")
	case errors.Is(err, apperrors.ErrInternshipNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Internship not found")
	case errors.Is(err, apperrors.ErrInstructorNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Instructor not found")
	case errors.Is(err, apperrors.ErrReviewNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Review not found")
	case errors.Is(err, apperrors.ErrEnrollmentNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Enrollment not found")
	case errors.Is(err, apperrors.ErrApplicationNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Application not found")

	// 409
	case errors.Is(err, apperrors.ErrAlreadyRequested):
		respond(409, dto.ErrorCodeResourceAlreadyExists, "Enrollment already requested for this course")
	case errors.Is(err, apperrors.ErrAlreadyApplied):
		respond(409, dto.ErrorCodeResourceAlreadyExists, "Application already submitted")
	case errors.Is(err, apperrors.ErrTransactionIDInUse):
		respond(409, dto.ErrorCodeResourceAlreadyExists, "Transaction ID already used")
	case errors.Is(err, apperrors.ErrReviewExists):
		respond(409, dto.ErrorCodeResourceAlreadyExists, "Course already reviewed")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(409, dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrInvalidTransition):
		respond(409, dto.ErrorCodeResourceConflict, "Current status does not allow this action")
	case errors.Is(err, apperrors.ErrConflict):
		respond(409, dto.ErrorCodeResourceConflict, "Conflict")

	// 400
	case errors.Is(err, apperrors.ErrPaymentProofRequired):
		respond(400, dto.ErrorCodeValidationFailed, "Payment proof is required before acceptance")
	case errors.Is(err, apperrors.ErrPaymentIncomplete):
		respond(400, dto.ErrorCodeValidationFailed, "Payment has not been completed")
	case errors.Is(err, apperrors.ErrInvalidResetCode):
		respond(400, dto.ErrorCodeValidationFailed, "Invalid or expired reset code")
	case errors.Is(err, apperrors.ErrResetCodeUsed):
		respond(400, dto.ErrorCodeValidationFailed, "Reset code has already been used")
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(400, dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		respond(400, dto.ErrorCodeValidationFailed, "Bad request")

	// 403
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(403, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(403, dto.ErrorCodeForbidden, "Account is disabled")

	// 401
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(401, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(401, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(401, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(401, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		respond(401, dto.ErrorCodeInvalidToken, "Token revoked")

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
