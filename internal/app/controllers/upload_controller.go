package controllers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/middleware"
	"github.com/courseport/courseport/internal/pkg/filestorage"
)

const maxUploadSize = 5 << 20 // 5 MiB

var allowedUploadExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

// UploadController accepts multipart file uploads and hands back the stored
// URL for use in later requests, e.g. payment screenshots.
type UploadController struct {
	storage filestorage.FileStorage
}

// NewUploadController creates a new UploadController
func NewUploadController(storage filestorage.FileStorage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

// UploadResponse carries the stored file URL.
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadPaymentProof stores a payment screenshot
// @Summary Upload payment proof
// @Description Accepts a payment screenshot or receipt and returns its URL for use in payment submissions
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Screenshot or receipt (jpg, png, webp or pdf, max 5 MiB)"
// @Success 201 {object} dto.APIResponse{data=controllers.UploadResponse} "File stored"
// @Failure 400 {object} dto.ErrorResponse "Missing, oversized or unsupported file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /uploads/payment-proof [post]
func (c *UploadController) UploadPaymentProof(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A file is required").WithField("file"),
		))
		return
	}

	if fileHeader.Size > maxUploadSize {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File exceeds the 5 MiB limit").WithField("file"),
		))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedUploadExtensions[ext] {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unsupported file type").WithField("file"),
		))
		return
	}

	url, err := c.storage.SaveFile(ctx, fileHeader, "payment-proofs")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      UploadResponse{URL: url},
		Timestamp: time.Now(),
	})
}
