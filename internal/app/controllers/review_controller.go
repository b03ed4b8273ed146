package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/services"
	"github.com/courseport/courseport/internal/middleware"
)

// ReviewController handles course reviews.
type ReviewController struct {
	reviewService services.ReviewService
	cache         *middleware.ResponseCache
}

// NewReviewController creates a new ReviewController. cache may be nil when
// response caching is disabled.
func NewReviewController(reviewService services.ReviewService, cache *middleware.ResponseCache) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		cache:         cache,
	}
}

// ListByCourse returns reviews for a course
// @Summary List course reviews
// @Tags reviews
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Review} "Reviews"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/reviews [get]
func (c *ReviewController) ListByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	reviews, err := c.reviewService.ListByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      reviews,
		Timestamp: time.Now(),
	})
}

// Create posts a review on a course
// @Summary Review a course
// @Description Posts a rating and optional comment. One review per candidate per course.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.CreateReviewRequest true "Review details"
// @Success 201 {object} dto.APIResponse{data=models.Review} "Review created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already reviewed"
// @Security BearerAuth
// @Router /courses/{id}/reviews [post]
func (c *ReviewController) Create(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	review, err := c.reviewService.Create(ctx, middleware.CurrentUserID(ctx), courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      review,
		Timestamp: time.Now(),
	})
}

// Delete removes a review
// @Summary Delete a review
// @Description Deletes a review. Candidates may delete their own, managers may delete any.
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Review deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the review owner"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Security BearerAuth
// @Router /reviews/{id} [delete]
func (c *ReviewController) Delete(ctx *gin.Context) {
	reviewID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.reviewService.Delete(ctx, middleware.CurrentUserID(ctx), reviewID, middleware.IsManager(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Review deleted"},
		Timestamp: time.Now(),
	})
}

func (c *ReviewController) invalidateCache() {
	if c.cache != nil {
		c.cache.Invalidate()
	}
}
