package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/services"
	"github.com/courseport/courseport/internal/middleware"
)

// ManagerController handles manager account administration.
type ManagerController struct {
	managerService services.ManagerService
}

// NewManagerController creates a new ManagerController
func NewManagerController(managerService services.ManagerService) *ManagerController {
	return &ManagerController{
		managerService: managerService,
	}
}

// Create provisions a manager account
// @Summary Create a manager
// @Tags manager
// @Accept json
// @Produce json
// @Param request body dto.CreateManagerRequest true "Manager details"
// @Success 201 {object} dto.APIResponse{data=models.User} "Manager created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Security BearerAuth
// @Router /manager/managers [post]
func (c *ManagerController) Create(ctx *gin.Context) {
	var req dto.CreateManagerRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	manager, err := c.managerService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      manager,
		Timestamp: time.Now(),
	})
}

// List returns all manager accounts
// @Summary List managers
// @Tags manager
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.User} "Managers"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Security BearerAuth
// @Router /manager/managers [get]
func (c *ManagerController) List(ctx *gin.Context) {
	managers, err := c.managerService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      managers,
		Timestamp: time.Now(),
	})
}

// UpdatePermission flips the enrollment-management flag
// @Summary Update manager permission
// @Tags manager
// @Accept json
// @Produce json
// @Param id path int true "Manager ID"
// @Param request body dto.UpdateManagerPermissionRequest true "Permission flag"
// @Success 200 {object} dto.APIResponse{data=models.User} "Permission updated"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Manager not found"
// @Security BearerAuth
// @Router /manager/managers/{id}/permission [put]
func (c *ManagerController) UpdatePermission(ctx *gin.Context) {
	managerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateManagerPermissionRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	manager, err := c.managerService.UpdatePermission(ctx, managerID, req.CanManageEnrollments)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      manager,
		Timestamp: time.Now(),
	})
}

// Delete removes a manager account
// @Summary Delete a manager
// @Description Removes a manager account. A manager cannot delete themselves.
// @Tags manager
// @Produce json
// @Param id path int true "Manager ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Manager deleted"
// @Failure 403 {object} dto.ErrorResponse "Manager role required"
// @Failure 404 {object} dto.ErrorResponse "Manager not found"
// @Failure 409 {object} dto.ErrorResponse "Cannot delete own account"
// @Security BearerAuth
// @Router /manager/managers/{id} [delete]
func (c *ManagerController) Delete(ctx *gin.Context) {
	managerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.managerService.Delete(ctx, middleware.CurrentUserID(ctx), managerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Manager deleted"},
		Timestamp: time.Now(),
	})
}
