package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/service"
)

type LogHandler struct {
	logService service.LogService
}

func NewLogHandler(logService service.LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

// --- DTOs ---

type PerformedSetRequest struct {
	Weight float64 `json:"weight" binding:"min=0"`
	Reps   int     `json:"reps" binding:"required,min=1"`
}

type LogWorkoutRequest struct {
	RoutineID   string                `json:"routineId" binding:"required"`
	ExerciseID  int64                 `json:"exerciseId" binding:"required,min=1"`
	Sets        []PerformedSetRequest `json:"sets" binding:"required,min=1"`
	Notes       string                `json:"notes"`
	PerformedAt *time.Time            `json:"performedAt"` // defaults to now
}

// --- Handlers ---

// LogWorkout godoc
// @Summary Record the result of one exercise
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param logRequest body LogWorkoutRequest true "Performed sets"
// @Success 201 {object} domain.WorkoutLog
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /logs [post]
func (h *LogHandler) LogWorkout(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routineId format.")
		return
	}

	performedAt := time.Now()
	if req.PerformedAt != nil {
		performedAt = *req.PerformedAt
	}
	sets := make([]domain.PerformedSet, len(req.Sets))
	for i, set := range req.Sets {
		sets[i] = domain.PerformedSet{Weight: set.Weight, Reps: set.Reps}
	}

	log, err := h.logService.LogWorkout(c.Request.Context(), ownerID, domain.WorkoutLog{
		RoutineID:   routineID,
		ExerciseID:  req.ExerciseID,
		Sets:        sets,
		Notes:       req.Notes,
		PerformedAt: performedAt,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.As(err, &verr) {
			abortWithValidationError(c, verr)
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record workout.")
		}
		return
	}
	c.JSON(http.StatusCreated, log)
}

// ListLogs godoc
// @Summary List the user's workout logs
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutLog
// @Router /logs [get]
func (h *LogHandler) ListLogs(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	logs, err := h.logService.ListLogs(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workout logs.")
		return
	}
	if logs == nil {
		logs = []domain.WorkoutLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// GetProgress godoc
// @Summary Get the progress series for one exercise
// @Description One point per logged session, oldest first, with heaviest set and total volume.
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param exerciseId path int true "Exercise ID"
// @Success 200 {array} service.ProgressPoint
// @Router /progress/{exerciseId} [get]
func (h *LogHandler) GetProgress(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}
	exerciseID, err := strconv.ParseInt(c.Param("exerciseId"), 10, 64)
	if err != nil || exerciseID <= 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID in URL path.")
		return
	}

	points, err := h.logService.ProgressSeries(c.Request.Context(), ownerID, exerciseID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute progress series.")
		return
	}
	if points == nil {
		points = []service.ProgressPoint{}
	}
	c.JSON(http.StatusOK, points)
}
