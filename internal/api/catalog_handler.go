package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// --- DTOs ---

type ExerciseRequest struct {
	ID               int64    `json:"id" binding:"required,min=1"`
	Name             string   `json:"name" binding:"required"`
	Target           string   `json:"target" binding:"required"`
	Equipment        string   `json:"equipment"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	GifURL           string   `json:"gif_url"`
}

type ExerciseResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Target           string    `json:"target"`
	Equipment        string    `json:"equipment"`
	SecondaryMuscles []string  `json:"secondary_muscles"`
	GifURL           string    `json:"gif_url"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type MediaUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type MediaUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// MapExerciseToResponse converts a domain.Exercise to an ExerciseResponse DTO.
func MapExerciseToResponse(e *domain.Exercise) ExerciseResponse {
	if e == nil {
		return ExerciseResponse{}
	}
	secondary := e.SecondaryMuscles
	if secondary == nil {
		secondary = []string{}
	}
	return ExerciseResponse{
		ID:               e.ID,
		Name:             e.Name,
		Target:           e.Target,
		Equipment:        e.Equipment,
		SecondaryMuscles: secondary,
		GifURL:           e.GifURL,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

func exerciseIDFromPath(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID in URL path.")
		return 0, false
	}
	return id, true
}

// --- Handlers ---

// ListExercises godoc
// @Summary List the exercise catalog
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalogService.ListExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise godoc
// @Summary Get one catalog exercise
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [get]
func (h *CatalogHandler) GetExercise(c *gin.Context) {
	id, ok := exerciseIDFromPath(c)
	if !ok {
		return
	}

	exercise, err := h.catalogService.GetExerciseByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// CreateExercise godoc
// @Summary Add an exercise to the catalog (operator only)
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exerciseRequest body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Exercise ID already in use"
// @Router /exercises [post]
func (h *CatalogHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	exercise, err := h.catalogService.CreateExercise(c.Request.Context(), domain.Exercise{
		ID:               req.ID,
		Name:             req.Name,
		Target:           req.Target,
		Equipment:        req.Equipment,
		SecondaryMuscles: req.SecondaryMuscles,
		GifURL:           req.GifURL,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.Is(err, service.ErrExerciseExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.As(err, &verr) {
			abortWithValidationError(c, verr)
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// UpdateExercise godoc
// @Summary Update a catalog exercise (operator only)
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param exerciseRequest body ExerciseRequest true "Updated exercise details"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [put]
func (h *CatalogHandler) UpdateExercise(c *gin.Context) {
	id, ok := exerciseIDFromPath(c)
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	exercise, err := h.catalogService.UpdateExercise(c.Request.Context(), domain.Exercise{
		ID:               id,
		Name:             req.Name,
		Target:           req.Target,
		Equipment:        req.Equipment,
		SecondaryMuscles: req.SecondaryMuscles,
		GifURL:           req.GifURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// GetMediaUploadURL godoc
// @Summary Get a pre-signed upload URL for an exercise's media (operator only)
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param mediaRequest body MediaUploadURLRequest true "Upload content type"
// @Success 200 {object} MediaUploadURLResponse "Pre-signed S3 URL for upload"
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 500 {object} gin.H "URL generation failed"
// @Router /exercises/{id}/media-upload-url [post]
func (h *CatalogHandler) GetMediaUploadURL(c *gin.Context) {
	id, ok := exerciseIDFromPath(c)
	if !ok {
		return
	}

	var req MediaUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	url, objectKey, err := h.catalogService.MediaUploadURL(c.Request.Context(), id, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not generate upload URL.")
		}
		return
	}
	c.JSON(http.StatusOK, MediaUploadURLResponse{UploadURL: url, ObjectKey: objectKey})
}

// DeleteMedia godoc
// @Summary Remove an exercise's stored media (operator only)
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} gin.H "message: Media removed"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id}/media [delete]
func (h *CatalogHandler) DeleteMedia(c *gin.Context) {
	id, ok := exerciseIDFromPath(c)
	if !ok {
		return
	}

	if err := h.catalogService.RemoveMedia(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to remove media.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Media removed"})
}
