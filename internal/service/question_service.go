package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
	"github.com/yourusername/question-bank-api/internal/domain/repository"
	apperrors "github.com/yourusername/question-bank-api/internal/pkg/errors"
	"github.com/yourusername/question-bank-api/internal/service/selection"
)

const (
	// maxIDGenerationAttempts - максимум попыток сгенерировать уникальный ID вопроса
	maxIDGenerationAttempts = 10

	// summaryCacheTTL - время жизни кеша summary
	summaryCacheTTL = 5 * time.Minute

	// defaultCommitLogLimit - размер страницы журнала коммитов по умолчанию
	defaultCommitLogLimit = 50
)

// SkillLinkParams описывает привязку к навыку при создании вопроса
type SkillLinkParams struct {
	SkillID    string
	Difficulty float64
}

// CreateQuestionParams - параметры создания вопроса
type CreateQuestionParams struct {
	CommitterID       string
	CommitterUsername string
	StateData         entity.JSONMap
	SchemaVersion     int
	LanguageCode      string
	Content           string
	SkillLinks        []SkillLinkParams
}

// UpdateQuestionParams - параметры обновления вопроса
type UpdateQuestionParams struct {
	CommitterID       string
	CommitterUsername string
	StateData         entity.JSONMap
	SchemaVersion     int
	LanguageCode      string
	Content           string
	CommitMessage     string
	CommitCmds        entity.CommitCmds
}

// QuestionService предоставляет операции над банком вопросов: CRUD с
// версионированием, привязки к навыкам и выборку вопросов по навыкам.
type QuestionService struct {
	questionRepo  repository.QuestionRepository
	linkRepo      repository.QuestionSkillLinkRepository
	commitLogRepo repository.CommitLogRepository
	summaryRepo   repository.QuestionSummaryRepository
	cacheRepo     repository.CacheRepository
	selector      *selection.Selector
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	linkRepo repository.QuestionSkillLinkRepository,
	commitLogRepo repository.CommitLogRepository,
	summaryRepo repository.QuestionSummaryRepository,
	cacheRepo repository.CacheRepository,
) *QuestionService {
	return &QuestionService{
		questionRepo:  questionRepo,
		linkRepo:      linkRepo,
		commitLogRepo: commitLogRepo,
		summaryRepo:   summaryRepo,
		cacheRepo:     cacheRepo,
		selector:      selection.NewSelector(linkRepo),
	}
}

// newQuestionID генерирует случайный идентификатор вопроса длиной 12 символов
func newQuestionID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:entity.QuestionIDLength]
}

// generateUniqueQuestionID генерирует ID с проверкой на коллизии
func (s *QuestionService) generateUniqueQuestionID() (string, error) {
	for attempt := 0; attempt < maxIDGenerationAttempts; attempt++ {
		id := newQuestionID()
		exists, err := s.questionRepo.Exists(id)
		if err != nil {
			return "", fmt.Errorf("failed to check question id uniqueness: %w", err)
		}
		if !exists {
			return id, nil
		}
		log.Printf("[QuestionService] Коллизия ID вопроса %s, попытка %d", id, attempt+1)
	}
	return "", fmt.Errorf("question id generator produced too many collisions")
}

// CreateQuestion создает вопрос версии 1 вместе с начальным снапшотом,
// записью журнала коммитов, summary и привязками к навыкам
func (s *QuestionService) CreateQuestion(params CreateQuestionParams) (*entity.Question, error) {
	if params.StateData == nil {
		return nil, fmt.Errorf("%w: question state data is required", apperrors.ErrValidation)
	}
	if params.LanguageCode == "" {
		return nil, fmt.Errorf("%w: language code is required", apperrors.ErrValidation)
	}
	if params.CommitterID == "" {
		return nil, fmt.Errorf("%w: committer id is required", apperrors.ErrValidation)
	}
	for _, linkParams := range params.SkillLinks {
		if !entity.IsValidDifficulty(linkParams.Difficulty) {
			return nil, fmt.Errorf("%w: skill difficulty %f is outside [0, 1]",
				apperrors.ErrValidation, linkParams.Difficulty)
		}
	}

	id, err := s.generateUniqueQuestionID()
	if err != nil {
		return nil, err
	}

	skillIDs := make(entity.StringArray, 0, len(params.SkillLinks))
	links := make([]*entity.QuestionSkillLink, 0, len(params.SkillLinks))
	for _, linkParams := range params.SkillLinks {
		if skillIDs.Contains(linkParams.SkillID) {
			return nil, fmt.Errorf("%w: duplicate skill id %s in link list",
				apperrors.ErrValidation, linkParams.SkillID)
		}
		skillIDs = append(skillIDs, linkParams.SkillID)
		links = append(links, entity.NewQuestionSkillLink(id, linkParams.SkillID, linkParams.Difficulty))
	}

	question := &entity.Question{
		ID:                id,
		QuestionStateData: params.StateData,
		SchemaVersion:     params.SchemaVersion,
		LanguageCode:      params.LanguageCode,
		LinkedSkillIDs:    skillIDs,
		Version:           1,
	}

	commitCmds := entity.CommitCmds{{"cmd": "create_new"}}
	snapshot := &entity.QuestionSnapshot{
		QuestionID:    id,
		Version:       1,
		CommitterID:   params.CommitterID,
		CommitType:    entity.CommitTypeCreate,
		CommitMessage: "Created new question",
		CommitCmds:    commitCmds,
		Content:       params.StateData,
	}
	logEntry := entity.NewQuestionCommitLogEntry(
		id, 1,
		params.CommitterID, params.CommitterUsername,
		entity.CommitTypeCreate, "Created new question",
		commitCmds,
	)

	if err := s.questionRepo.Create(question, snapshot, logEntry); err != nil {
		return nil, err
	}

	if err := s.linkRepo.CreateBatch(links); err != nil {
		return nil, fmt.Errorf("failed to create initial skill links: %w", err)
	}

	s.saveSummary(question, params.CommitterID, params.Content)

	return question, nil
}

// GetQuestion возвращает вопрос по ID
func (s *QuestionService) GetQuestion(id string) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// GetQuestionsByIDs возвращает вопросы по списку ID
func (s *QuestionService) GetQuestionsByIDs(ids []string) ([]entity.Question, error) {
	return s.questionRepo.GetByIDs(ids)
}

// UpdateQuestion сохраняет новую версию вопроса. Каждое обновление
// увеличивает версию и фиксируется снапшотом и записью в журнале коммитов.
func (s *QuestionService) UpdateQuestion(id string, params UpdateQuestionParams) (*entity.Question, error) {
	if params.StateData == nil {
		return nil, fmt.Errorf("%w: question state data is required", apperrors.ErrValidation)
	}
	if params.CommitMessage == "" {
		return nil, fmt.Errorf("%w: commit message is required", apperrors.ErrValidation)
	}

	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	question.QuestionStateData = params.StateData
	if params.SchemaVersion != 0 {
		question.SchemaVersion = params.SchemaVersion
	}
	if params.LanguageCode != "" {
		question.LanguageCode = params.LanguageCode
	}
	question.Version++

	commitCmds := params.CommitCmds
	if len(commitCmds) == 0 {
		commitCmds = entity.CommitCmds{{"cmd": "update_question_property"}}
	}

	snapshot := &entity.QuestionSnapshot{
		QuestionID:    question.ID,
		Version:       question.Version,
		CommitterID:   params.CommitterID,
		CommitType:    entity.CommitTypeEdit,
		CommitMessage: params.CommitMessage,
		CommitCmds:    commitCmds,
		Content:       params.StateData,
	}
	logEntry := entity.NewQuestionCommitLogEntry(
		question.ID, question.Version,
		params.CommitterID, params.CommitterUsername,
		entity.CommitTypeEdit, params.CommitMessage,
		commitCmds,
	)

	if err := s.questionRepo.Update(question, snapshot, logEntry); err != nil {
		return nil, err
	}

	s.saveSummary(question, params.CommitterID, params.Content)

	return question, nil
}

// DeleteQuestion мягко удаляет вопрос. Привязки к навыкам удаляются,
// summary убирается из списков, история коммитов сохраняется.
func (s *QuestionService) DeleteQuestion(id, committerID, committerUsername string) error {
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		return err
	}

	commitCmds := entity.CommitCmds{{"cmd": "delete_question"}}
	logEntry := entity.NewQuestionCommitLogEntry(
		question.ID, question.Version+1,
		committerID, committerUsername,
		entity.CommitTypeDelete, "Deleted question",
		commitCmds,
	)

	if err := s.questionRepo.Delete(id, logEntry); err != nil {
		return err
	}

	if err := s.linkRepo.DeleteByQuestionID(id); err != nil {
		log.Printf("[QuestionService] Не удалось удалить привязки вопроса %s: %v", id, err)
	}
	if err := s.summaryRepo.Delete(id); err != nil {
		log.Printf("[QuestionService] Не удалось удалить summary вопроса %s: %v", id, err)
	}
	s.invalidateSummaryCache(question.ID)

	return nil
}

// GetQuestionAtVersion возвращает снапшот вопроса на указанной версии
func (s *QuestionService) GetQuestionAtVersion(id string, version int) (*entity.QuestionSnapshot, error) {
	if version < 1 {
		return nil, fmt.Errorf("%w: version must be positive", apperrors.ErrValidation)
	}
	return s.questionRepo.GetSnapshot(id, version)
}

// GetCommitLog возвращает журнал коммитов вопроса, от новых к старым
func (s *QuestionService) GetCommitLog(questionID string, limit int) ([]entity.QuestionCommitLogEntry, error) {
	if limit <= 0 {
		limit = defaultCommitLogLimit
	}
	return s.commitLogRepo.GetByQuestionID(questionID, limit)
}

// LinkQuestionToSkill привязывает вопрос к навыку с заданной сложностью.
// Если пара уже существует — apperrors.ErrConflict.
func (s *QuestionService) LinkQuestionToSkill(questionID, skillID string, difficulty float64) (*entity.QuestionSkillLink, error) {
	if skillID == "" {
		return nil, fmt.Errorf("%w: skill id is required", apperrors.ErrValidation)
	}
	if !entity.IsValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: skill difficulty %f is outside [0, 1]", apperrors.ErrValidation, difficulty)
	}

	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}

	link := entity.NewQuestionSkillLink(questionID, skillID, difficulty)
	if err := s.linkRepo.Create(link); err != nil {
		return nil, err
	}

	// Обновляем денормализованный список навыков вопроса
	if !question.LinkedSkillIDs.Contains(skillID) {
		updated := append(question.LinkedSkillIDs, skillID)
		if err := s.questionRepo.UpdateLinkedSkillIDs(questionID, updated); err != nil {
			log.Printf("[QuestionService] Не удалось обновить linked_skill_ids вопроса %s: %v", questionID, err)
		}
	}

	return link, nil
}

// UnlinkQuestionFromSkill удаляет привязку вопроса к навыку
func (s *QuestionService) UnlinkQuestionFromSkill(questionID, skillID string) error {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return err
	}

	if err := s.linkRepo.Delete(questionID, skillID); err != nil {
		return err
	}

	if question.LinkedSkillIDs.Contains(skillID) {
		updated := question.LinkedSkillIDs.Remove(skillID)
		if err := s.questionRepo.UpdateLinkedSkillIDs(questionID, updated); err != nil {
			log.Printf("[QuestionService] Не удалось обновить linked_skill_ids вопроса %s: %v", questionID, err)
		}
	}

	return nil
}

// GetQuestionSkillLinks возвращает привязки вопросов к навыку
func (s *QuestionService) GetQuestionSkillLinks(skillID string) ([]entity.QuestionSkillLink, error) {
	return s.linkRepo.GetBySkillID(skillID)
}

// GetLinksByQuestion возвращает привязки вопроса к навыкам
func (s *QuestionService) GetLinksByQuestion(questionID string) ([]entity.QuestionSkillLink, error) {
	return s.linkRepo.GetByQuestionID(questionID)
}

// GetQuestionSkillLinksPage возвращает страницу привязок по набору навыков.
// Размер страницы равен min(len(skillIDs), 20) * questionCount — по странице
// на порцию вопросов для каждого навыка.
func (s *QuestionService) GetQuestionSkillLinksPage(questionCount int, skillIDs []string, cursor string) ([]entity.QuestionSkillLink, string, error) {
	if questionCount <= 0 {
		return nil, "", fmt.Errorf("%w: question count must be positive", apperrors.ErrValidation)
	}
	if len(skillIDs) == 0 {
		return nil, "", fmt.Errorf("%w: skill ids are required", apperrors.ErrValidation)
	}

	skillCount := len(skillIDs)
	if skillCount > selection.MaxSkillIDs {
		skillCount = selection.MaxSkillIDs
	}
	pageSize := skillCount * questionCount

	return s.linkRepo.FetchBySkillsPage(skillIDs, pageSize, cursor)
}

// SelectQuestionLinks выбирает привязки по навыкам: равномерно, либо — если
// передана запрошенная сложность — с ранжированием по близости к ней
func (s *QuestionService) SelectQuestionLinks(totalQuestionCount int, skillIDs []string, difficulty *float64) ([]entity.QuestionSkillLink, error) {
	if difficulty == nil {
		return s.selector.SelectEquidistributed(totalQuestionCount, skillIDs)
	}
	if !entity.IsValidDifficulty(*difficulty) {
		return nil, fmt.Errorf("%w: requested difficulty %f is outside [0, 1]", apperrors.ErrValidation, *difficulty)
	}
	return s.selector.SelectByDifficulty(totalQuestionCount, skillIDs, *difficulty)
}

// GetSummariesByCreator возвращает summary вопросов автора (с кешированием)
func (s *QuestionService) GetSummariesByCreator(creatorID string) ([]entity.QuestionSummary, error) {
	cacheKey := summaryCreatorCacheKey(creatorID)

	var cached []entity.QuestionSummary
	if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		// Ошибка Redis не должна ломать чтение — идем в базу (fail-open)
		log.Printf("[QuestionService] Ошибка чтения кеша summary для %s: %v", creatorID, err)
	}

	summaries, err := s.summaryRepo.GetByCreatorID(creatorID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.SetJSON(cacheKey, summaries, summaryCacheTTL); err != nil {
		log.Printf("[QuestionService] Ошибка записи кеша summary для %s: %v", creatorID, err)
	}

	return summaries, nil
}

// AnonymizeCreator обезличивает автора во всех его вопросах.
// Вопросы при удалении пользователя сохраняются — удаляется только связь
// с автором. Возвращает количество обновленных summary.
func (s *QuestionService) AnonymizeCreator(creatorID string) (int64, error) {
	affected, err := s.summaryRepo.AnonymizeCreator(creatorID)
	if err != nil {
		return 0, err
	}

	if err := s.cacheRepo.Delete(summaryCreatorCacheKey(creatorID)); err != nil {
		log.Printf("[QuestionService] Ошибка инвалидации кеша summary для %s: %v", creatorID, err)
	}

	return affected, nil
}

// saveSummary обновляет summary вопроса и инвалидирует кеш.
// Ошибки summary не фатальны для основной операции: summary — производные
// данные, их можно перестроить.
func (s *QuestionService) saveSummary(question *entity.Question, creatorID, content string) {
	summary := &entity.QuestionSummary{
		QuestionID:               question.ID,
		CreatorID:                creatorID,
		QuestionContent:          content,
		QuestionModelCreatedOn:   question.CreatedAt,
		QuestionModelLastUpdated: question.UpdatedAt,
	}
	if err := s.summaryRepo.Save(summary); err != nil {
		log.Printf("[QuestionService] Не удалось сохранить summary вопроса %s: %v", question.ID, err)
		return
	}
	s.invalidateSummaryCache(question.ID)
}

// invalidateSummaryCache сбрасывает кеш summary после изменения вопроса
func (s *QuestionService) invalidateSummaryCache(questionID string) {
	if err := s.cacheRepo.DeleteByPattern("summary:creator:*"); err != nil {
		log.Printf("[QuestionService] Ошибка инвалидации кеша summary после изменения %s: %v", questionID, err)
	}
}

func summaryCreatorCacheKey(creatorID string) string {
	return fmt.Sprintf("summary:creator:%s", creatorID)
}
