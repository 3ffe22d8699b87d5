package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/assembly"
	"fitrack/routine-app/internal/service"
)

type RoutineHandler struct {
	routineService service.RoutineService
}

func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs ---

// RoutineExerciseRequest is one exercise row of a routine creation payload.
type RoutineExerciseRequest struct {
	ExerciseID int64 `json:"exercise_id" binding:"required,min=1"`
	Sets       int   `json:"sets" binding:"required,min=1"`
	Reps       int   `json:"reps" binding:"required,min=1"`
	Position   int   `json:"position" binding:"min=0"`
}

type CreateBaseRoutineRequest struct {
	Slug        string                   `json:"slug" binding:"required"`
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description"`
	Goal        string                   `json:"goal"`
	Experience  string                   `json:"experience"`
	DaysPerWeek int                      `json:"daysPerWeek"`
	Equipment   []string                 `json:"equipment"`
	Exercises   []RoutineExerciseRequest `json:"exercises" binding:"required"`
}

func toExerciseInputs(rows []RoutineExerciseRequest) []service.RoutineExerciseInput {
	inputs := make([]service.RoutineExerciseInput, len(rows))
	for i, row := range rows {
		inputs[i] = service.RoutineExerciseInput{
			ExerciseID: row.ExerciseID,
			Sets:       row.Sets,
			Reps:       row.Reps,
			Position:   row.Position,
		}
	}
	return inputs
}

// The assembled view is already the stable client shape, so routine reads
// serve assembly.RoutineView directly instead of re-mapping it.

// --- Handlers ---

// ListRoutines godoc
// @Summary List base routines, optionally filtered to an id set
// @Description Without ?ids= returns every base routine. With ?ids=a,b,c returns only those.
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param ids query string false "Comma-separated routine ids"
// @Success 200 {array} assembly.RoutineView
// @Failure 400 {object} gin.H "Malformed id in filter"
// @Router /routines [get]
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	var ids []primitive.ObjectID
	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(part))
			if err != nil {
				abortWithError(c, http.StatusBadRequest, "Invalid routine ID in ids filter.")
				return
			}
			ids = append(ids, id)
		}
	}

	views, err := h.routineService.ListRoutines(c.Request.Context(), ids)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list routines.")
		return
	}
	if views == nil {
		views = []assembly.RoutineView{}
	}
	c.JSON(http.StatusOK, views)
}

// GetRoutine godoc
// @Summary Get one assembled base routine
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine's ObjectID Hex"
// @Success 200 {object} assembly.RoutineView
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format in URL path.")
		return
	}

	view, err := h.routineService.GetRoutineByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRoutineNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch routine.")
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// CreateRoutine godoc
// @Summary Create a base routine (operator only)
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routineRequest body CreateBaseRoutineRequest true "Routine details"
// @Success 201 {object} assembly.RoutineView
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 422 {object} gin.H "Per-field validation errors"
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	var req CreateBaseRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	view, err := h.routineService.CreateBaseRoutine(c.Request.Context(), service.CreateBaseRoutineInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Goal:        req.Goal,
		Experience:  req.Experience,
		DaysPerWeek: req.DaysPerWeek,
		Equipment:   req.Equipment,
		Exercises:   toExerciseInputs(req.Exercises),
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			abortWithValidationError(c, verr)
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create routine.")
		}
		return
	}
	c.JSON(http.StatusCreated, view)
}
