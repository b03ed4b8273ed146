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

// ApplicationController handles internship and free-course applications.
type ApplicationController struct {
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
	}
}

// Apply files a new application
// @Summary Apply to an internship or course
// @Description Files an application for the authenticated candidate
// @Tags applications
// @Accept json
// @Produce json
// @Param request body dto.CreateApplicationRequest true "Application details"
// @Success 201 {object} dto.APIResponse{data=models.Application} "Application filed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Target not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied or target closed"
// @Security BearerAuth
// @Router /applications [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	var req dto.CreateApplicationRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	application, err := c.applicationService.Apply(ctx, middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      application,
		Timestamp: time.Now(),
	})
}

// ListMine lists the candidate's own applications
// @Summary List my applications
// @Tags applications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Application} "Applications"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /applications/my [get]
func (c *ApplicationController) ListMine(ctx *gin.Context) {
	applications, err := c.applicationService.ListMine(ctx, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      applications,
		Timestamp: time.Now(),
	})
}

// Withdraw removes a pending application
// @Summary Withdraw my application
// @Description Deletes the candidate's own application while it is still pending
// @Tags applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Application withdrawn"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the application owner"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application already reviewed"
// @Security BearerAuth
// @Router /applications/{id} [delete]
func (c *ApplicationController) Withdraw(ctx *gin.Context) {
	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.applicationService.Withdraw(ctx, middleware.CurrentUserID(ctx), applicationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Application withdrawn"},
		Timestamp: time.Now(),
	})
}

// List retrieves applications for manager review
// @Summary List applications
// @Description Returns applications filtered by status, target type or target ID, paginated
// @Tags manager
// @Produce json
// @Param status query string false "Application status filter"
// @Param targetType query string false "Target type filter (INTERNSHIP or COURSE)"
// @Param targetId query int false "Target ID filter"
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Applications"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Security BearerAuth
// @Router /manager/applications [get]
func (c *ApplicationController) List(ctx *gin.Context) {
	filter := repositories.ApplicationFilter{}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(ctx)

	if raw := ctx.Query("status"); raw != "" {
		status, err := models.ParseApplicationStatus(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status filter").WithField("status"),
			))
			return
		}
		filter.Status = status
	}
	if raw := ctx.Query("targetType"); raw != "" {
		switch models.ApplicationTarget(raw) {
		case models.TargetInternship, models.TargetCourse:
			filter.TargetType = models.ApplicationTarget(raw)
		default:
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid target type filter").WithField("targetType"),
			))
			return
		}
	}
	if raw := ctx.Query("targetId"); raw != "" {
		filter.TargetID, _ = strconv.ParseInt(raw, 10, 64)
	}

	applications, total, err := c.applicationService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      applications,
			Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
		},
		Timestamp: time.Now(),
	})
}

// Get retrieves one application for manager review
// @Summary Get an application
// @Tags manager
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Security BearerAuth
// @Router /manager/applications/{id} [get]
func (c *ApplicationController) Get(ctx *gin.Context) {
	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	application, err := c.applicationService.Get(ctx, applicationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      application,
		Timestamp: time.Now(),
	})
}

// Accept approves a pending application
// @Summary Accept an application
// @Tags manager
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param request body dto.ReviewApplicationRequest false "Optional note"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application accepted"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application already reviewed"
// @Security BearerAuth
// @Router /manager/applications/{id}/accept [post]
func (c *ApplicationController) Accept(ctx *gin.Context) {
	c.review(ctx, true)
}

// Reject declines a pending application
// @Summary Reject an application
// @Tags manager
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param request body dto.ReviewApplicationRequest false "Optional note"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application rejected"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application already reviewed"
// @Security BearerAuth
// @Router /manager/applications/{id}/reject [post]
func (c *ApplicationController) Reject(ctx *gin.Context) {
	c.review(ctx, false)
}

func (c *ApplicationController) review(ctx *gin.Context, accept bool) {
	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewApplicationRequest
	if ctx.Request.Body != nil && ctx.Request.ContentLength > 0 {
		if !middleware.BindAndValidate(ctx, &req) {
			return
		}
	}

	application, err := c.applicationService.Review(ctx, middleware.CurrentUserID(ctx), applicationID, accept, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      application,
		Timestamp: time.Now(),
	})
}
