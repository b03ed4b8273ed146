package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/services"
	"github.com/courseport/courseport/internal/middleware"
)

// InternshipController handles the public internship listing and its
// manager-side maintenance.
type InternshipController struct {
	internshipService services.InternshipService
	cache             *middleware.ResponseCache
}

// NewInternshipController creates a new InternshipController. cache may be
// nil when response caching is disabled.
func NewInternshipController(internshipService services.InternshipService, cache *middleware.ResponseCache) *InternshipController {
	return &InternshipController{
		internshipService: internshipService,
		cache:             cache,
	}
}

// List returns internship postings
// @Summary List internships
// @Description Returns internship postings. Inactive postings are hidden from unauthenticated callers.
// @Tags internships
// @Produce json
// @Param includeInactive query bool false "Include inactive postings (managers only)"
// @Success 200 {object} dto.APIResponse{data=[]models.Internship} "Internships"
// @Router /internships [get]
func (c *InternshipController) List(ctx *gin.Context) {
	activeOnly := true
	if ctx.Query("includeInactive") == "true" && middleware.IsManager(ctx) {
		activeOnly = false
	}

	internships, err := c.internshipService.List(ctx, activeOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      internships,
		Timestamp: time.Now(),
	})
}

// Get returns one internship
// @Summary Get an internship
// @Tags internships
// @Produce json
// @Param id path int true "Internship ID"
// @Success 200 {object} dto.APIResponse{data=models.Internship} "Internship"
// @Failure 404 {object} dto.ErrorResponse "Internship not found"
// @Router /internships/{id} [get]
func (c *InternshipController) Get(ctx *gin.Context) {
	internshipID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	internship, err := c.internshipService.GetByID(ctx, internshipID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      internship,
		Timestamp: time.Now(),
	})
}

// Create adds an internship posting
// @Summary Create an internship
// @Tags manager
// @Accept json
// @Produce json
// @Param request body dto.CreateInternshipRequest true "Internship details"
// @Success 201 {object} dto.APIResponse{data=models.Internship} "Internship created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Security BearerAuth
// @Router /manager/internships [post]
func (c *InternshipController) Create(ctx *gin.Context) {
	var req dto.CreateInternshipRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	internship, err := c.internshipService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      internship,
		Timestamp: time.Now(),
	})
}

// Update edits an internship posting
// @Summary Update an internship
// @Tags manager
// @Accept json
// @Produce json
// @Param id path int true "Internship ID"
// @Param request body dto.CreateInternshipRequest true "Internship details"
// @Success 200 {object} dto.APIResponse{data=models.Internship} "Internship updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Internship not found"
// @Security BearerAuth
// @Router /manager/internships/{id} [put]
func (c *InternshipController) Update(ctx *gin.Context) {
	internshipID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateInternshipRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	internship, err := c.internshipService.Update(ctx, internshipID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      internship,
		Timestamp: time.Now(),
	})
}

// Delete removes an internship posting
// @Summary Delete an internship
// @Tags manager
// @Produce json
// @Param id path int true "Internship ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Internship deleted"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Internship not found"
// @Security BearerAuth
// @Router /manager/internships/{id} [delete]
func (c *InternshipController) Delete(ctx *gin.Context) {
	internshipID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.internshipService.Delete(ctx, internshipID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.invalidateCache()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Internship deleted"},
		Timestamp: time.Now(),
	})
}

func (c *InternshipController) invalidateCache() {
	if c.cache != nil {
		c.cache.Invalidate()
	}
}
