package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/api"
	"fitrack/routine-app/internal/assembly"
	"fitrack/routine-app/internal/builder"
	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/repository"
	"fitrack/routine-app/internal/service"
)

// --- in-memory repositories ---

type memExerciseRepo struct {
	exercises map[int64]domain.Exercise
}

func (r *memExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) error {
	r.exercises[exercise.ID] = *exercise
	return nil
}

func (r *memExerciseRepo) GetByID(_ context.Context, id int64) (*domain.Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repositoryNotFound()
	}
	return &ex, nil
}

func (r *memExerciseRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, id := range ids {
		if ex, ok := r.exercises[id]; ok {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (r *memExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, ex := range r.exercises {
		out = append(out, ex)
	}
	return out, nil
}

func (r *memExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.exercises[exercise.ID] = *exercise
	return nil
}

type memCustomRoutineRepo struct {
	routines []domain.Routine
}

func (r *memCustomRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	routine.ID = primitive.NewObjectID()
	r.routines = append(r.routines, *routine)
	return routine.ID, nil
}

func (r *memCustomRoutineRepo) GetByIDAndOwner(_ context.Context, id, ownerID primitive.ObjectID) (*domain.Routine, error) {
	for _, rt := range r.routines {
		if rt.ID == id && rt.OwnerID != nil && *rt.OwnerID == ownerID {
			found := rt
			return &found, nil
		}
	}
	return nil, repositoryNotFound()
}

func (r *memCustomRoutineRepo) GetByOwner(_ context.Context, ownerID primitive.ObjectID) ([]domain.Routine, error) {
	var out []domain.Routine
	for _, rt := range r.routines {
		if rt.OwnerID != nil && *rt.OwnerID == ownerID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *memCustomRoutineRepo) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	for i, rt := range r.routines {
		if rt.ID == id && rt.OwnerID != nil && *rt.OwnerID == ownerID {
			r.routines = append(r.routines[:i], r.routines[i+1:]...)
			return nil
		}
	}
	return repositoryNotFound()
}

func repositoryNotFound() error {
	return repository.ErrNotFound
}

// --- fixture ---

type handlerFixture struct {
	router   *gin.Engine
	userID   primitive.ObjectID
	catalog  *memExerciseRepo
	custom   *memCustomRoutineRepo
	drafts   *builder.Manager
	routines service.RoutineService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := &memExerciseRepo{exercises: map[int64]domain.Exercise{
		1: {ID: 1, Name: "Back Squat", Target: "quads", Equipment: "barbell"},
		2: {ID: 2, Name: "Bench Press", Target: "pecs", Equipment: "barbell"},
	}}
	custom := &memCustomRoutineRepo{}
	routineService := service.NewRoutineService(nil, custom, catalog)
	drafts := builder.NewManager()
	handler := api.NewCustomRoutineHandler(routineService, drafts)

	userID := primitive.NewObjectID()
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(api.ContextUserIDKey, userID.Hex())
		c.Set(api.ContextUserRoleKey, domain.RoleUser)
	})
	router.POST("/custom-routines", handler.CreateCustomRoutine)
	router.GET("/custom-routines", handler.ListCustomRoutines)
	router.GET("/builder/draft", handler.GetDraft)
	router.PUT("/builder/draft", handler.SetDraftHeader)
	router.POST("/builder/draft/rows", handler.AddDraftRow)
	router.PATCH("/builder/draft/rows/:localId", handler.UpdateDraftRow)
	router.POST("/builder/draft/reorder", handler.ReorderDraftRows)
	router.POST("/builder/draft/submit", handler.SubmitDraft)

	return &handlerFixture{
		router:   router,
		userID:   userID,
		catalog:  catalog,
		custom:   custom,
		drafts:   drafts,
		routines: routineService,
	}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestCreateCustomRoutine_ValidPayload(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/custom-routines", gin.H{
		"name": "My routine",
		"exercises": []gin.H{
			{"exercise_id": "1", "sets": 3, "reps": 10, "position": 1},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view assembly.RoutineView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "My routine", view.Name)
	assert.True(t, view.IsCustom)
	assert.Empty(t, view.Slug)
	require.Len(t, view.Exercises, 1)
	assert.Equal(t, int64(1), view.Exercises[0].ID)
	assert.Equal(t, "Back Squat", view.Exercises[0].Name)
	assert.Equal(t, 3, view.Exercises[0].Sets)
	assert.Equal(t, 10, view.Exercises[0].Reps)
}

func TestCreateCustomRoutine_InvalidPayloadReportsEveryField(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/custom-routines", gin.H{
		"name":      "ab",
		"exercises": []gin.H{},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Both problems are reported at once, not just the first.
	assert.Contains(t, resp.Fields, "name")
	assert.Contains(t, resp.Fields, "exercises")

	// Nothing was persisted.
	assert.Empty(t, f.custom.routines)
}

func TestCreateCustomRoutine_NonNumericExerciseID(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/custom-routines", gin.H{
		"name": "My routine",
		"exercises": []gin.H{
			{"exercise_id": "squat", "sets": 3, "reps": 10, "position": 0},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "exercises[0].exercise_id")
}

func TestBuilderDraft_SubmitFlow(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPut, "/builder/draft", gin.H{"name": "Leg Day"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/builder/draft/rows", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var added struct {
		Row builder.DraftRow `json:"row"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, builder.DefaultSets, added.Row.Sets)
	assert.Equal(t, builder.DefaultReps, added.Row.Reps)

	// Submitting with no exercise chosen fails and keeps the draft.
	rec = f.do(t, http.MethodPost, "/builder/draft/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1, f.drafts.RowCount(f.userID.Hex()))

	exerciseID := int64(2)
	rec = f.do(t, http.MethodPatch, "/builder/draft/rows/"+added.Row.LocalID, gin.H{"exerciseId": exerciseID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/builder/draft/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view assembly.RoutineView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Leg Day", view.Name)
	require.Len(t, view.Exercises, 1)
	assert.Equal(t, exerciseID, view.Exercises[0].ID)

	// Successful submit discarded the draft.
	assert.Equal(t, 0, f.drafts.RowCount(f.userID.Hex()))
	require.Len(t, f.custom.routines, 1)
}

func TestBuilderDraft_ReorderOutOfRangeIsRejected(t *testing.T) {
	f := newHandlerFixture(t)

	f.do(t, http.MethodPost, "/builder/draft/rows", nil)
	f.do(t, http.MethodPost, "/builder/draft/rows", nil)

	rec := f.do(t, http.MethodPost, "/builder/draft/reorder", gin.H{"fromIndex": 0, "toIndex": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/builder/draft/reorder", gin.H{"fromIndex": 1, "toIndex": 0})
	assert.Equal(t, http.StatusOK, rec.Code)
}
