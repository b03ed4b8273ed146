package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/app/services"
	"github.com/courseport/courseport/internal/middleware"
	"github.com/courseport/courseport/internal/pkg/helpers"
)

// EnrollmentController handles both the candidate and manager sides of the
// enrollment lifecycle.
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// Enroll submits a new enrollment
// @Summary Enroll in a course
// @Description Submits an enrollment request for the authenticated candidate. Payment details may be attached up front.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body dto.CreateEnrollmentRequest true "Enrollment details"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Enrollment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled or transaction ID in use"
// @Security BearerAuth
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx, middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// ListMine lists the candidate's own enrollments
// @Summary List my enrollments
// @Description Returns all enrollments belonging to the authenticated candidate
// @Tags enrollments
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /enrollments/my [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.ListMine(ctx, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollments,
		Timestamp: time.Now(),
	})
}

// StatusForCourse answers a per-course enrollment check
// @Summary Check enrollment status for a course
// @Description Reports whether the authenticated candidate has an enrollment for the given course and in what state
// @Tags enrollments
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentStatusResponse} "Status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /enrollments/status/{courseId} [get]
func (c *EnrollmentController) StatusForCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	status, err := c.enrollmentService.StatusForCourse(ctx, middleware.CurrentUserID(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      status,
		Timestamp: time.Now(),
	})
}

// SubmitPayment attaches payment proof
// @Summary Submit payment proof
// @Description Attaches payment method, transaction ID and screenshot to a payment-pending enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param request body dto.SubmitPaymentRequest true "Payment details"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Payment recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the enrollment owner"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Transaction ID in use"
// @Security BearerAuth
// @Router /enrollments/{id}/payment [post]
func (c *EnrollmentController) SubmitPayment(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitPaymentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.SubmitPayment(ctx, middleware.CurrentUserID(ctx), enrollmentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// Cancel withdraws a pending enrollment
// @Summary Cancel my enrollment
// @Description Deletes the candidate's own enrollment while it is still pending
// @Tags enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Enrollment cancelled"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the enrollment owner"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Enrollment is past the pending stage"
// @Security BearerAuth
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Cancel(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Cancel(ctx, middleware.CurrentUserID(ctx), enrollmentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Enrollment cancelled"},
		Timestamp: time.Now(),
	})
}

// List retrieves enrollments for manager review
// @Summary List enrollments
// @Description Returns enrollments filtered by status, course or candidate, paginated
// @Tags manager
// @Produce json
// @Param status query string false "Enrollment status filter"
// @Param courseId query int false "Course ID filter"
// @Param candidateId query int false "Candidate ID filter"
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Enrollments"
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Failure 403 {object} dto.ErrorResponse "Enrollment management permission required"
// @Security BearerAuth
// @Router /manager/enrollments [get]
func (c *EnrollmentController) List(ctx *gin.Context) {
	filter := repositories.EnrollmentFilter{}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(ctx)

	if raw := ctx.Query("status"); raw != "" {
		status, err := models.ParseEnrollmentStatus(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status filter").WithField("status"),
			))
			return
		}
		filter.Status = status
	}
	if raw := ctx.Query("courseId"); raw != "" {
		filter.CourseID, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := ctx.Query("candidateId"); raw != "" {
		filter.CandidateID, _ = strconv.ParseInt(raw, 10, 64)
	}

	enrollments, total, err := c.enrollmentService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      enrollments,
			Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
		},
		Timestamp: time.Now(),
	})
}

// Get retrieves one enrollment for manager review
// @Summary Get an enrollment
// @Tags manager
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Enrollment"
// @Failure 403 {object} dto.ErrorResponse "Enrollment management permission required"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Security BearerAuth
// @Router /manager/enrollments/{id} [get]
func (c *EnrollmentController) Get(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Get(ctx, enrollmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// Approve moves a pending enrollment to payment_pending
// @Summary Approve an enrollment for payment
// @Description Moves a pending enrollment to payment_pending and asks the candidate to pay
// @Tags manager
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Enrollment approved for payment"
// @Failure 403 {object} dto.ErrorResponse "Enrollment management permission required"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid state transition"
// @Security BearerAuth
// @Router /manager/enrollments/{id}/approve [put]
func (c *EnrollmentController) Approve(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Approve(ctx, middleware.CurrentUserID(ctx), enrollmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// Accept finalizes an enrollment
// @Summary Accept an enrollment
// @Description Accepts an enrollment whose payment is complete, issuing the course pass
// @Tags manager
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Enrollment accepted"
// @Failure 400 {object} dto.ErrorResponse "Payment proof missing or incomplete"
// @Failure 403 {object} dto.ErrorResponse "Enrollment management permission required"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid state transition"
// @Security BearerAuth
// @Router /manager/enrollments/{id}/accept [put]
func (c *EnrollmentController) Accept(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Accept(ctx, middleware.CurrentUserID(ctx), enrollmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// Reject declines a pending enrollment
// @Summary Reject an enrollment
// @Description Rejects a pending enrollment with an optional note. The candidate may resubmit later.
// @Tags manager
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param request body dto.RejectEnrollmentRequest false "Rejection note"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Enrollment rejected"
// @Failure 403 {object} dto.ErrorResponse "Enrollment management permission required"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid state transition"
// @Security BearerAuth
// @Router /manager/enrollments/{id}/reject [put]
func (c *EnrollmentController) Reject(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RejectEnrollmentRequest
	if ctx.Request.Body != nil && ctx.Request.ContentLength > 0 {
		if !middleware.BindAndValidate(ctx, &req) {
			return
		}
	}

	enrollment, err := c.enrollmentService.Reject(ctx, middleware.CurrentUserID(ctx), enrollmentID, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// Unenroll removes an accepted enrollment
// @Summary Unenroll a candidate
// @Description Removes an accepted enrollment, notifying the candidate
// @Tags manager
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Candidate unenrolled"
// @Failure 403 {object} dto.ErrorResponse "Enrollment management permission required"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Enrollment is not accepted"
// @Security BearerAuth
// @Router /manager/enrollments/{id}/unenroll [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Unenroll(ctx, middleware.CurrentUserID(ctx), enrollmentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Candidate unenrolled"},
		Timestamp: time.Now(),
	})
}
