package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
	"github.com/yourusername/question-bank-api/internal/handler/dto"
	apperrors "github.com/yourusername/question-bank-api/internal/pkg/errors"
	"github.com/yourusername/question-bank-api/internal/service"
	"github.com/yourusername/question-bank-api/internal/service/selection"
)

// QuestionHandler обрабатывает запросы, связанные с банком вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// committerFromContext достает данные пользователя, установленные auth middleware
func committerFromContext(c *gin.Context) (id, username string) {
	return c.GetString("user_id"), c.GetString("username")
}

// SkillLinkRequest представляет привязку к навыку в запросе создания вопроса
type SkillLinkRequest struct {
	SkillID    string  `json:"skill_id" binding:"required,max=64"`
	Difficulty float64 `json:"difficulty"`
}

// CreateQuestionRequest представляет запрос на создание вопроса
type CreateQuestionRequest struct {
	QuestionStateData entity.JSONMap     `json:"question_state_data" binding:"required"`
	SchemaVersion     int                `json:"question_state_data_schema_version" binding:"required,min=1"`
	LanguageCode      string             `json:"language_code" binding:"required,min=2,max=8"`
	Content           string             `json:"content" binding:"omitempty,max=1000"`
	SkillLinks        []SkillLinkRequest `json:"skill_links" binding:"omitempty,dive"`
}

// CreateQuestion обрабатывает запрос на создание вопроса
// POST /api/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	committerID, committerUsername := committerFromContext(c)

	links := make([]service.SkillLinkParams, 0, len(req.SkillLinks))
	for _, l := range req.SkillLinks {
		links = append(links, service.SkillLinkParams{SkillID: l.SkillID, Difficulty: l.Difficulty})
	}

	question, err := h.questionService.CreateQuestion(service.CreateQuestionParams{
		CommitterID:       committerID,
		CommitterUsername: committerUsername,
		StateData:         req.QuestionStateData,
		SchemaVersion:     req.SchemaVersion,
		LanguageCode:      req.LanguageCode,
		Content:           req.Content,
		SkillLinks:        links,
	})
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuestionResponse(question))
}

// GetQuestion возвращает вопрос по ID
// GET /api/questions/:questionID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)

	question, err := h.questionService.GetQuestion(questionID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// GetQuestions возвращает вопросы по списку ID
// GET /api/questions?ids=id1,id2
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	idsParam := c.Query("ids")
	if idsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids query parameter is required"})
		return
	}
	ids := strings.Split(idsParam, ",")

	questions, err := h.questionService.GetQuestionsByIDs(ids)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListQuestionResponse(questions))
}

// UpdateQuestionRequest представляет запрос на обновление вопроса
type UpdateQuestionRequest struct {
	QuestionStateData entity.JSONMap    `json:"question_state_data" binding:"required"`
	SchemaVersion     int               `json:"question_state_data_schema_version" binding:"omitempty,min=1"`
	LanguageCode      string            `json:"language_code" binding:"omitempty,min=2,max=8"`
	Content           string            `json:"content" binding:"omitempty,max=1000"`
	CommitMessage     string            `json:"commit_message" binding:"required,min=1,max=1000"`
	CommitCmds        entity.CommitCmds `json:"commit_cmds" binding:"omitempty"`
}

// UpdateQuestion обрабатывает запрос на обновление вопроса
// PUT /api/questions/:questionID
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	committerID, committerUsername := committerFromContext(c)

	question, err := h.questionService.UpdateQuestion(questionID, service.UpdateQuestionParams{
		CommitterID:       committerID,
		CommitterUsername: committerUsername,
		StateData:         req.QuestionStateData,
		SchemaVersion:     req.SchemaVersion,
		LanguageCode:      req.LanguageCode,
		Content:           req.Content,
		CommitMessage:     req.CommitMessage,
		CommitCmds:        req.CommitCmds,
	})
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// DeleteQuestion обрабатывает запрос на удаление вопроса
// DELETE /api/questions/:questionID
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)
	committerID, committerUsername := committerFromContext(c)

	if err := h.questionService.DeleteQuestion(questionID, committerID, committerUsername); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// GetQuestionHistory возвращает журнал коммитов вопроса
// GET /api/questions/:questionID/history?limit=50
func (h *QuestionHandler) GetQuestionHistory(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.questionService.GetCommitLog(questionID, limit)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListCommitLogResponse(entries))
}

// GetQuestionVersion возвращает снапшот вопроса на конкретной версии
// GET /api/questions/:questionID/versions/:version
func (h *QuestionHandler) GetQuestionVersion(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)

	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version"})
		return
	}

	snapshot, err := h.questionService.GetQuestionAtVersion(questionID, version)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSnapshotResponse(snapshot))
}

// LinkSkillRequest представляет запрос на привязку вопроса к навыку
type LinkSkillRequest struct {
	SkillID    string  `json:"skill_id" binding:"required,max=64"`
	Difficulty float64 `json:"difficulty"`
}

// LinkSkill привязывает вопрос к навыку
// POST /api/questions/:questionID/links
func (h *QuestionHandler) LinkSkill(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)

	var req LinkSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.questionService.LinkQuestionToSkill(questionID, req.SkillID, req.Difficulty)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSkillLinkResponse(link))
}

// UnlinkSkill удаляет привязку вопроса к навыку
// DELETE /api/questions/:questionID/links/:skillID
func (h *QuestionHandler) UnlinkSkill(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)
	skillID := c.MustGet("skillID").(string)

	if err := h.questionService.UnlinkQuestionFromSkill(questionID, skillID); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Skill link deleted successfully"})
}

// GetQuestionLinks возвращает привязки вопроса к навыкам
// GET /api/questions/:questionID/links
func (h *QuestionHandler) GetQuestionLinks(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)

	links, err := h.questionService.GetLinksByQuestion(questionID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListSkillLinkResponse(links))
}

// GetSkillLinks возвращает привязки вопросов к навыку
// GET /api/skills/:skillID/links
func (h *QuestionHandler) GetSkillLinks(c *gin.Context) {
	skillID := c.MustGet("skillID").(string)

	links, err := h.questionService.GetQuestionSkillLinks(skillID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListSkillLinkResponse(links))
}

// GetSkillLinksPage возвращает страницу привязок по набору навыков
// GET /api/skill-links?skill_ids=s1,s2&count=10&cursor=...
func (h *QuestionHandler) GetSkillLinksPage(c *gin.Context) {
	skillIDsParam := c.Query("skill_ids")
	if skillIDsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skill_ids query parameter is required"})
		return
	}
	skillIDs := strings.Split(skillIDsParam, ",")

	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid count"})
		return
	}
	cursor := c.Query("cursor")

	links, nextCursor, err := h.questionService.GetQuestionSkillLinksPage(count, skillIDs, cursor)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedSkillLinkResponse{
		Links:      dto.NewListSkillLinkResponse(links),
		NextCursor: nextCursor,
	})
}

// SelectLinksRequest представляет запрос на подбор вопросов по навыкам
type SelectLinksRequest struct {
	TotalQuestionCount int      `json:"total_question_count" binding:"required,min=1"`
	SkillIDs           []string `json:"skill_ids" binding:"required,min=1"`
	// Difficulty - запрошенная сложность; если не указана, выборка равномерная
	Difficulty *float64 `json:"difficulty"`
}

// SelectLinks подбирает привязки вопросов по навыкам
// POST /api/skill-links/selection
func (h *QuestionHandler) SelectLinks(c *gin.Context) {
	var req SelectLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	links, err := h.questionService.SelectQuestionLinks(req.TotalQuestionCount, req.SkillIDs, req.Difficulty)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListSkillLinkResponse(links))
}

// ExportSkillLinks экспортирует привязки навыка в CSV или Excel формате
// GET /api/skills/:skillID/links/export?format=csv|xlsx
func (h *QuestionHandler) ExportSkillLinks(c *gin.Context) {
	skillID := c.MustGet("skillID").(string)
	format := c.DefaultQuery("format", "csv")

	links, err := h.questionService.GetQuestionSkillLinks(skillID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	filename := fmt.Sprintf("skill_%s_links_%s", skillID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, links, filename)
	default:
		h.exportCSV(c, links, filename)
	}
}

// exportCSV экспортирует привязки в CSV с правильным экранированием спецсимволов
func (h *QuestionHandler) exportCSV(c *gin.Context, links []entity.QuestionSkillLink, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Заголовки
	writer.Write([]string{"Вопрос", "Навык", "Сложность", "Создана", "Обновлена"})

	// Данные
	for _, l := range links {
		writer.Write([]string{
			sanitizeForExcel(l.QuestionID),
			sanitizeForExcel(l.SkillID),
			strconv.FormatFloat(l.SkillDifficulty, 'f', 2, 64),
			l.CreatedAt.Format(time.RFC3339),
			l.UpdatedAt.Format(time.RFC3339),
		})
	}
}

// exportXLSX экспортирует привязки в Excel с использованием StreamWriter
func (h *QuestionHandler) exportXLSX(c *gin.Context, links []entity.QuestionSkillLink, filename string) {
	// Используем StreamWriter для эффективной работы с большими файлами
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Привязки"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuestionHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"Вопрос", "Навык", "Сложность", "Создана", "Обновлена"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[QuestionHandler] Ошибка записи заголовков: %v", err)
	}

	// Данные
	for i, l := range links {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			sanitizeForExcel(l.QuestionID),
			sanitizeForExcel(l.SkillID),
			l.SkillDifficulty,
			l.CreatedAt.Format(time.RFC3339),
			l.UpdatedAt.Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[QuestionHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuestionHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuestionHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// GetSummaries возвращает summary вопросов автора
// GET /api/summaries?creator_id=...
func (h *QuestionHandler) GetSummaries(c *gin.Context) {
	creatorID := c.Query("creator_id")
	if creatorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creator_id query parameter is required"})
		return
	}

	summaries, err := h.questionService.GetSummariesByCreator(creatorID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListSummaryResponse(summaries))
}

// AnonymizeCreator обезличивает автора во всех его вопросах
// POST /api/creators/:creatorID/anonymize
func (h *QuestionHandler) AnonymizeCreator(c *gin.Context) {
	creatorID := c.MustGet("creatorID").(string)

	affected, err := h.questionService.AnonymizeCreator(creatorID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Creator anonymized", "updated": affected})
}

// handleQuestionError преобразует ошибку сервиса в HTTP-ответ
func (h *QuestionHandler) handleQuestionError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, selection.ErrTooManySkills) ||
		errors.Is(err, selection.ErrNoSkills) ||
		errors.Is(err, selection.ErrNegativeCount) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuestionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
