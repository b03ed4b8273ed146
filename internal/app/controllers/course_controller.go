package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/app/services"
	"github.com/courseport/courseport/internal/middleware"
	"github.com/courseport/courseport/internal/pkg/helpers"
)

// CourseController handles the public course catalog and its manager-side
// maintenance. Writes drop the response cache so public reads never serve
// stale listings.
type CourseController struct {
	courseService services.CourseService
	cache         *middleware.ResponseCache
}

// NewCourseController creates a new CourseController. cache may be nil when
// response caching is disabled.
func NewCourseController(courseService services.CourseService, cache *middleware.ResponseCache) *CourseController {
	return &CourseController{
		courseService: courseService,
		cache:         cache,
	}
}

// List returns the course catalog
// @Summary List courses
// @Description Returns the course catalog filtered by title, paginated. Inactive courses are hidden from unauthenticated callers.
// @Tags courses
// @Produce json
// @Param title query string false "Title substring filter"
// @Param includeInactive query bool false "Include inactive courses (managers only)"
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Courses"
// @Router /courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	filter := repositories.CourseFilter{
		Title:      ctx.Query("title"),
		ActiveOnly: true,
	}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(ctx)

	if ctx.Query("includeInactive") == "true" && middleware.IsManager(ctx) {
		filter.ActiveOnly = false
	}

	courses, total, err := c.courseService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      courses,
			Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
		},
		Timestamp: time.Now(),
	})
}

// Get returns one course
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetByID(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// Create adds a course to the catalog
// @Summary Create a course
// @Tags manager
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Referenced instructor not found"
// @Security BearerAuth
// @Router /manager/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	course, err := c.courseService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// Update edits a course
// @Summary Update a course
// @Tags manager
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Course details"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /manager/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	course, err := c.courseService.Update(ctx, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// Delete removes a course
// @Summary Delete a course
// @Tags manager
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Course deleted"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /manager/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Course deleted"},
		Timestamp: time.Now(),
	})
}

func (c *CourseController) invalidateCache() {
	if c.cache != nil {
		c.cache.Invalidate()
	}
}
