package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/question-bank-api/internal/pkg/errors"
	"github.com/yourusername/question-bank-api/internal/service/selection"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Request validation tests — не требуют реального QuestionService
// Handler возвращает 400 до вызова сервиса
// ============================================================================

func TestCreateQuestion_ValidationErrors(t *testing.T) {
	handler := &QuestionHandler{} // nil service — OK для validation tests

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "empty body",
			body:       nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing state data",
			body: map[string]interface{}{
				"question_state_data_schema_version": 48,
				"language_code":                      "en",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing language code",
			body: map[string]interface{}{
				"question_state_data":                map[string]interface{}{"content": "q"},
				"question_state_data_schema_version": 48,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing schema version",
			body: map[string]interface{}{
				"question_state_data": map[string]interface{}{"content": "q"},
				"language_code":       "en",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "skill link without skill id",
			body: map[string]interface{}{
				"question_state_data":                map[string]interface{}{"content": "q"},
				"question_state_data_schema_version": 48,
				"language_code":                      "en",
				"skill_links":                        []map[string]interface{}{{"difficulty": 0.3}},
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/questions", tt.body)
			handler.CreateQuestion(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSelectLinks_ValidationErrors(t *testing.T) {
	handler := &QuestionHandler{}

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "empty body",
			body:       nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing skill ids",
			body:       map[string]interface{}{"total_question_count": 5},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero question count",
			body:       map[string]interface{}{"total_question_count": 0, "skill_ids": []string{"s1"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty skill ids list",
			body:       map[string]interface{}{"total_question_count": 5, "skill_ids": []string{}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/skill-links/selection", tt.body)
			handler.SelectLinks(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetSkillLinksPage_QueryValidation(t *testing.T) {
	handler := &QuestionHandler{}

	// Без skill_ids запрос отклоняется до обращения к сервису
	c, w := newTestGinContext("GET", "/api/skill-links?count=5", nil)
	handler.GetSkillLinksPage(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Нечисловой count
	c, w = newTestGinContext("GET", "/api/skill-links?skill_ids=s1&count=abc", nil)
	handler.GetSkillLinksPage(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSummaries_RequiresCreatorID(t *testing.T) {
	handler := &QuestionHandler{}

	c, w := newTestGinContext("GET", "/api/summaries", nil)
	handler.GetSummaries(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Contains(t, resp["error"], "creator_id")
}

// ============================================================================
// Маппинг ошибок сервиса на HTTP-статусы
// ============================================================================

func TestHandleQuestionError_StatusMapping(t *testing.T) {
	handler := &QuestionHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"validation", apperrors.ErrValidation, http.StatusUnprocessableEntity},
		{"too many skills", selection.ErrTooManySkills, http.StatusUnprocessableEntity},
		{"no skills", selection.ErrNoSkills, http.StatusUnprocessableEntity},
		{"negative count", selection.ErrNegativeCount, http.StatusUnprocessableEntity},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("GET", "/api/questions/q1", nil)
			handler.handleQuestionError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
