package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/assembly"
	"fitrack/routine-app/internal/builder"
	"fitrack/routine-app/internal/service"
)

// CustomRoutineHandler serves the user's own routines and the in-progress
// builder draft behind them.
type CustomRoutineHandler struct {
	routineService service.RoutineService
	drafts         *builder.Manager
}

func NewCustomRoutineHandler(routineService service.RoutineService, drafts *builder.Manager) *CustomRoutineHandler {
	return &CustomRoutineHandler{
		routineService: routineService,
		drafts:         drafts,
	}
}

// --- DTOs ---

// CustomRoutineExerciseRequest is one exercise row of a custom routine
// creation payload. The catalog id arrives as a string, matching the form
// values the exercise picker produces.
type CustomRoutineExerciseRequest struct {
	ExerciseID string `json:"exercise_id" binding:"required"`
	Sets       int    `json:"sets" binding:"required,min=1"`
	Reps       int    `json:"reps" binding:"required,min=1"`
	Position   int    `json:"position" binding:"min=0"`
}

type CreateCustomRoutineRequest struct {
	Name        string                         `json:"name" binding:"required"`
	Description string                         `json:"description"`
	Exercises   []CustomRoutineExerciseRequest `json:"exercises"`
}

type DraftHeaderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DraftRowPatchRequest struct {
	ExerciseID *int64 `json:"exerciseId"`
	Sets       *int   `json:"sets" binding:"omitempty,min=1"`
	Reps       *int   `json:"reps" binding:"omitempty,min=1"`
}

type DraftReorderRequest struct {
	FromIndex *int `json:"fromIndex" binding:"required"`
	ToIndex   *int `json:"toIndex" binding:"required"`
}

func (req *CreateCustomRoutineRequest) toInput() (service.CreateCustomRoutineInput, map[string]string) {
	fields := map[string]string{}
	exercises := make([]service.RoutineExerciseInput, len(req.Exercises))
	for i, row := range req.Exercises {
		id, err := strconv.ParseInt(row.ExerciseID, 10, 64)
		if err != nil {
			fields["exercises["+strconv.Itoa(i)+"].exercise_id"] = "exercise id must be numeric"
			continue
		}
		exercises[i] = service.RoutineExerciseInput{
			ExerciseID: id,
			Sets:       row.Sets,
			Reps:       row.Reps,
			Position:   row.Position,
		}
	}
	if len(fields) > 0 {
		return service.CreateCustomRoutineInput{}, fields
	}
	return service.CreateCustomRoutineInput{
		Name:        req.Name,
		Description: req.Description,
		Exercises:   exercises,
	}, nil
}

// --- Custom routine handlers ---

// ListCustomRoutines godoc
// @Summary List the authenticated user's custom routines
// @Tags Custom Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} assembly.RoutineView
// @Router /custom-routines [get]
func (h *CustomRoutineHandler) ListCustomRoutines(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	views, err := h.routineService.ListCustomRoutines(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list custom routines.")
		return
	}
	if views == nil {
		views = []assembly.RoutineView{}
	}
	c.JSON(http.StatusOK, views)
}

// GetCustomRoutine godoc
// @Summary Get one of the user's custom routines
// @Tags Custom Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine's ObjectID Hex"
// @Success 200 {object} assembly.RoutineView
// @Failure 404 {object} gin.H "Routine not found or not owned"
// @Router /custom-routines/{id} [get]
func (h *CustomRoutineHandler) GetCustomRoutine(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format in URL path.")
		return
	}

	view, err := h.routineService.GetCustomRoutineByID(c.Request.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, service.ErrRoutineNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch custom routine.")
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// CreateCustomRoutine godoc
// @Summary Create a custom routine directly
// @Description Validates and persists a complete custom routine in one call.
// @Tags Custom Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routineRequest body CreateCustomRoutineRequest true "Routine details"
// @Success 201 {object} assembly.RoutineView
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 422 {object} gin.H "Per-field validation errors"
// @Router /custom-routines [post]
func (h *CustomRoutineHandler) CreateCustomRoutine(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	var req CreateCustomRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}
	input, fields := req.toInput()
	if fields != nil {
		abortWithValidationError(c, &service.ValidationError{Fields: fields})
		return
	}

	view, err := h.routineService.CreateCustomRoutine(c.Request.Context(), ownerID, input)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			abortWithValidationError(c, verr)
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create custom routine.")
		}
		return
	}
	c.JSON(http.StatusCreated, view)
}

// DeleteCustomRoutine godoc
// @Summary Delete one of the user's custom routines
// @Tags Custom Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine's ObjectID Hex"
// @Success 200 {object} gin.H "message: Routine deleted"
// @Failure 404 {object} gin.H "Routine not found or not owned"
// @Router /custom-routines/{id} [delete]
func (h *CustomRoutineHandler) DeleteCustomRoutine(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format in URL path.")
		return
	}

	if err := h.routineService.DeleteCustomRoutine(c.Request.Context(), id, ownerID); err != nil {
		if errors.Is(err, service.ErrRoutineNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete custom routine.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Routine deleted"})
}

// --- Builder draft handlers ---
// The draft lives server-side, one per user, until it is submitted or
// cancelled. Every mutation returns the full updated draft.

// GetDraft returns the user's current draft, creating an empty one if needed.
func (h *CustomRoutineHandler) GetDraft(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	c.JSON(http.StatusOK, h.drafts.Snapshot(userID))
}

// SetDraftHeader updates the draft's name and description.
func (h *CustomRoutineHandler) SetDraftHeader(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req DraftHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.drafts.SetHeader(userID, req.Name, req.Description))
}

// AddDraftRow appends a fresh row with default set and rep counts.
func (h *CustomRoutineHandler) AddDraftRow(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	row, draft := h.drafts.AddRow(userID)
	c.JSON(http.StatusCreated, gin.H{"row": row, "draft": draft})
}

// RemoveDraftRow deletes one row; remaining rows are renumbered. Removing an
// unknown row is a no-op, matching a double-clicked delete button.
func (h *CustomRoutineHandler) RemoveDraftRow(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	c.JSON(http.StatusOK, h.drafts.RemoveRow(userID, c.Param("localId")))
}

// UpdateDraftRow merges a partial update into one row.
func (h *CustomRoutineHandler) UpdateDraftRow(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req DraftRowPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	draft, found := h.drafts.UpdateRow(userID, c.Param("localId"), builder.RowPatch{
		ExerciseID: req.ExerciseID,
		Sets:       req.Sets,
		Reps:       req.Reps,
	})
	if !found {
		abortWithError(c, http.StatusNotFound, "Draft row not found.")
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ReorderDraftRows moves a row to a new index. The range check happens here;
// the builder treats out-of-range indices as a caller bug.
func (h *CustomRoutineHandler) ReorderDraftRows(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req DraftReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	n := h.drafts.RowCount(userID)
	from, to := *req.FromIndex, *req.ToIndex
	if from < 0 || from >= n || to < 0 || to >= n {
		abortWithError(c, http.StatusBadRequest, "Reorder index out of range.")
		return
	}
	c.JSON(http.StatusOK, h.drafts.Reorder(userID, from, to))
}

// SubmitDraft turns the draft into a single atomic creation request. On
// success the draft is discarded; on any failure it is preserved unchanged so
// the user can fix it and retry.
func (h *CustomRoutineHandler) SubmitDraft(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return
	}

	draft := h.drafts.Snapshot(userID)
	exercises := make([]service.RoutineExerciseInput, len(draft.Rows))
	for i, row := range draft.Rows {
		exercises[i] = service.RoutineExerciseInput{
			ExerciseID: row.ExerciseID,
			Sets:       row.Sets,
			Reps:       row.Reps,
			Position:   row.Position,
		}
	}

	view, err := h.routineService.CreateCustomRoutine(c.Request.Context(), ownerID, service.CreateCustomRoutineInput{
		Name:        draft.Name,
		Description: draft.Description,
		Exercises:   exercises,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			abortWithValidationError(c, verr)
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save routine.")
		}
		return
	}

	h.drafts.Reset(userID)
	c.JSON(http.StatusCreated, view)
}

// CancelDraft discards the draft without saving.
func (h *CustomRoutineHandler) CancelDraft(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	h.drafts.Reset(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Draft discarded"})
}
