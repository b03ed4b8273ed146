package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/services"
	"github.com/courseport/courseport/internal/middleware"
)

// InstructorController handles the shared instructor catalog.
type InstructorController struct {
	instructorService services.InstructorService
	cache             *middleware.ResponseCache
}

// NewInstructorController creates a new InstructorController. cache may be
// nil when response caching is disabled.
func NewInstructorController(instructorService services.InstructorService, cache *middleware.ResponseCache) *InstructorController {
	return &InstructorController{
		instructorService: instructorService,
		cache:             cache,
	}
}

// List returns all catalog instructors
// @Summary List instructors
// @Tags instructors
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Instructor} "Instructors"
// @Router /instructors [get]
func (c *InstructorController) List(ctx *gin.Context) {
	instructors, err := c.instructorService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      instructors,
		Timestamp: time.Now(),
	})
}

// Get returns one instructor
// @Summary Get an instructor
// @Tags instructors
// @Produce json
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=models.Instructor} "Instructor"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [get]
func (c *InstructorController) Get(ctx *gin.Context) {
	instructorID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	instructor, err := c.instructorService.GetByID(ctx, instructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      instructor,
		Timestamp: time.Now(),
	})
}

// Create adds an instructor to the catalog
// @Summary Create an instructor
// @Tags manager
// @Accept json
// @Produce json
// @Param request body dto.CreateInstructorRequest true "Instructor details"
// @Success 201 {object} dto.APIResponse{data=models.Instructor} "Instructor created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Security BearerAuth
// @Router /manager/instructors [post]
func (c *InstructorController) Create(ctx *gin.Context) {
	var req dto.CreateInstructorRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	instructor, err := c.instructorService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      instructor,
		Timestamp: time.Now(),
	})
}

// Update edits an instructor
// @Summary Update an instructor
// @Tags manager
// @Accept json
// @Produce json
// @Param id path int true "Instructor ID"
// @Param request body dto.CreateInstructorRequest true "Instructor details"
// @Success 200 {object} dto.APIResponse{data=models.Instructor} "Instructor updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Security BearerAuth
// @Router /manager/instructors/{id} [put]
func (c *InstructorController) Update(ctx *gin.Context) {
	instructorID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateInstructorRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	instructor, err := c.instructorService.Update(ctx, instructorID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      instructor,
		Timestamp: time.Now(),
	})
}

// Delete removes an instructor
// @Summary Delete an instructor
// @Tags manager
// @Produce json
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Instructor deleted"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Failure 409 {object} dto.ErrorResponse "Instructor is referenced by courses"
// @Security BearerAuth
// @Router /manager/instructors/{id} [delete]
func (c *InstructorController) Delete(ctx *gin.Context) {
	instructorID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.instructorService.Delete(ctx, instructorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Instructor deleted"},
		Timestamp: time.Now(),
	})
}

func (c *InstructorController) invalidateCache() {
	if c.cache != nil {
		c.cache.Invalidate()
	}
}
