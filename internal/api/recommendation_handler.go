package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/assembly"
	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/service"
)

type RecommendationHandler struct {
	recService service.RecommendationService
}

func NewRecommendationHandler(recService service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recService: recService}
}

// --- DTOs ---

type SubmitAnswerRequest struct {
	Goal        string   `json:"goal" binding:"required"`
	Experience  string   `json:"experience" binding:"required"`
	DaysPerWeek int      `json:"daysPerWeek" binding:"required,min=1,max=7"`
	Equipment   []string `json:"equipment"`
}

// RecommendationLinkRequest names the plan entry being appended or removed.
type RecommendationLinkRequest struct {
	AnswerID  string `json:"answer_id" binding:"required"`
	RoutineID string `json:"routine_id" binding:"required"`
}

type RegeneratePlanRequest struct {
	AnswerID string `json:"answer_id" binding:"required"`
}

// --- Helpers ---

func ownerIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *RecommendationHandler) abortOnPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAnswerNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoutineNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to update recommendations.")
	}
}

// --- Handlers ---

// SubmitAnswer godoc
// @Summary Submit a questionnaire answer
// @Description Stores the answer and keys a fresh recommendation plan to it.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answerRequest body SubmitAnswerRequest true "Questionnaire answer"
// @Success 201 {object} domain.Answer
// @Failure 400 {object} gin.H "Invalid input"
// @Router /answers [post]
func (h *RecommendationHandler) SubmitAnswer(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	answer, err := h.recService.SubmitAnswer(c.Request.Context(), ownerID, domain.Answer{
		Goal:        req.Goal,
		Experience:  req.Experience,
		DaysPerWeek: req.DaysPerWeek,
		Equipment:   req.Equipment,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to submit answer.")
		return
	}
	c.JSON(http.StatusCreated, answer)
}

// ListRecommendations godoc
// @Summary Get the recommended routines for an answer
// @Description Returns the plan ordered by stored position. When no plan exists yet, one is computed and persisted first.
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param answer_id query string true "Answer's ObjectID Hex"
// @Success 200 {array} assembly.RoutineView
// @Failure 404 {object} gin.H "Answer not found"
// @Router /recommendations [get]
func (h *RecommendationHandler) ListRecommendations(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	answerID, err := primitive.ObjectIDFromHex(c.Query("answer_id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid or missing answer_id query parameter.")
		return
	}

	views, err := h.recService.ListRecommendedRoutines(c.Request.Context(), ownerID, answerID)
	if err != nil {
		h.abortOnPlanError(c, err)
		return
	}
	if views == nil {
		views = []assembly.RoutineView{}
	}
	c.JSON(http.StatusOK, views)
}

// AppendRecommendation godoc
// @Summary Append a routine to the plan
// @Tags Recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param linkRequest body RecommendationLinkRequest true "Answer and routine ids"
// @Success 201 {object} gin.H "message: Routine added to plan"
// @Failure 404 {object} gin.H "Answer or routine not found"
// @Failure 409 {object} gin.H "Routine already in plan"
// @Router /recommendations [post]
func (h *RecommendationHandler) AppendRecommendation(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	var req RecommendationLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}
	answerID, err := primitive.ObjectIDFromHex(req.AnswerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid answer_id format.")
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine_id format.")
		return
	}

	if err := h.recService.AppendRecommendation(c.Request.Context(), ownerID, answerID, routineID); err != nil {
		h.abortOnPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Routine added to plan"})
}

// RemoveRecommendation godoc
// @Summary Remove a routine from the plan
// @Description Removing a routine that is not in the plan succeeds.
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param answer_id query string true "Answer's ObjectID Hex"
// @Param routine_id query string true "Routine's ObjectID Hex"
// @Success 200 {object} gin.H "message: Routine removed from plan"
// @Failure 404 {object} gin.H "Answer not found"
// @Router /recommendations [delete]
func (h *RecommendationHandler) RemoveRecommendation(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	answerID, err := primitive.ObjectIDFromHex(c.Query("answer_id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid or missing answer_id query parameter.")
		return
	}
	routineID, err := primitive.ObjectIDFromHex(c.Query("routine_id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid or missing routine_id query parameter.")
		return
	}

	if err := h.recService.RemoveRecommendation(c.Request.Context(), ownerID, answerID, routineID); err != nil {
		h.abortOnPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Routine removed from plan"})
}

// RegeneratePlan godoc
// @Summary Discard the plan so the next read recomputes it
// @Description Deletes all plan entries, including manual appends. Recomputation happens lazily on the next fetch.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param regenerateRequest body RegeneratePlanRequest true "Answer id"
// @Success 200 {object} gin.H "message: Plan cleared"
// @Failure 404 {object} gin.H "Answer not found"
// @Router /recommendations/regenerate [post]
func (h *RecommendationHandler) RegeneratePlan(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	var req RegeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}
	answerID, err := primitive.ObjectIDFromHex(req.AnswerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid answer_id format.")
		return
	}

	if err := h.recService.RegeneratePlan(c.Request.Context(), ownerID, answerID); err != nil {
		h.abortOnPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan cleared"})
}
