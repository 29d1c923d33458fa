package dto

import (
	"time"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID                string         `json:"id"`
	QuestionStateData entity.JSONMap `json:"question_state_data"`
	SchemaVersion     int            `json:"question_state_data_schema_version"`
	LanguageCode      string         `json:"language_code"`
	LinkedSkillIDs    []string       `json:"linked_skill_ids"`
	Version           int            `json:"version"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// SkillLinkResponse представляет привязку вопроса к навыку
type SkillLinkResponse struct {
	ID              string    `json:"id"`
	QuestionID      string    `json:"question_id"`
	SkillID         string    `json:"skill_id"`
	SkillDifficulty float64   `json:"skill_difficulty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PaginatedSkillLinkResponse представляет страницу привязок с курсором
// для получения следующей страницы
type PaginatedSkillLinkResponse struct {
	Links      []SkillLinkResponse `json:"links"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// CommitLogEntryResponse представляет запись журнала коммитов вопроса
type CommitLogEntryResponse struct {
	ID                string            `json:"id"`
	QuestionID        string            `json:"question_id"`
	Version           int               `json:"version"`
	CommitterID       string            `json:"committer_id"`
	CommitterUsername string            `json:"committer_username,omitempty"`
	CommitType        string            `json:"commit_type"`
	CommitMessage     string            `json:"commit_message"`
	CommitCmds        entity.CommitCmds `json:"commit_cmds"`
	Status            string            `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
}

// SnapshotResponse представляет содержимое вопроса на конкретной версии
type SnapshotResponse struct {
	QuestionID    string         `json:"question_id"`
	Version       int            `json:"version"`
	CommitterID   string         `json:"committer_id"`
	CommitType    string         `json:"commit_type"`
	CommitMessage string         `json:"commit_message"`
	Content       entity.JSONMap `json:"content"`
	CreatedAt     time.Time      `json:"created_at"`
}

// SummaryResponse представляет облегченное представление вопроса
type SummaryResponse struct {
	QuestionID      string    `json:"question_id"`
	CreatorID       string    `json:"creator_id"`
	QuestionContent string    `json:"question_content"`
	CreatedOn       time.Time `json:"created_on"`
	LastUpdated     time.Time `json:"last_updated"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) *QuestionResponse {
	return &QuestionResponse{
		ID:                q.ID,
		QuestionStateData: q.QuestionStateData,
		SchemaVersion:     q.SchemaVersion,
		LanguageCode:      q.LanguageCode,
		LinkedSkillIDs:    q.LinkedSkillIDs,
		Version:           q.Version,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
	}
}

// NewListQuestionResponse создает список DTO вопросов
func NewListQuestionResponse(questions []entity.Question) []*QuestionResponse {
	result := make([]*QuestionResponse, 0, len(questions))
	for i := range questions {
		result = append(result, NewQuestionResponse(&questions[i]))
	}
	return result
}

// NewSkillLinkResponse создает DTO для привязки
func NewSkillLinkResponse(link *entity.QuestionSkillLink) SkillLinkResponse {
	return SkillLinkResponse{
		ID:              link.ID,
		QuestionID:      link.QuestionID,
		SkillID:         link.SkillID,
		SkillDifficulty: link.SkillDifficulty,
		CreatedAt:       link.CreatedAt,
		UpdatedAt:       link.UpdatedAt,
	}
}

// NewListSkillLinkResponse создает список DTO привязок
func NewListSkillLinkResponse(links []entity.QuestionSkillLink) []SkillLinkResponse {
	result := make([]SkillLinkResponse, 0, len(links))
	for i := range links {
		result = append(result, NewSkillLinkResponse(&links[i]))
	}
	return result
}

// NewCommitLogEntryResponse создает DTO для записи журнала коммитов
func NewCommitLogEntryResponse(e *entity.QuestionCommitLogEntry) CommitLogEntryResponse {
	return CommitLogEntryResponse{
		ID:                e.ID,
		QuestionID:        e.QuestionID,
		Version:           e.Version,
		CommitterID:       e.CommitterID,
		CommitterUsername: e.CommitterUsername,
		CommitType:        e.CommitType,
		CommitMessage:     e.CommitMessage,
		CommitCmds:        e.CommitCmds,
		Status:            e.Status,
		CreatedAt:         e.CreatedAt,
	}
}

// NewListCommitLogResponse создает список DTO записей журнала
func NewListCommitLogResponse(entries []entity.QuestionCommitLogEntry) []CommitLogEntryResponse {
	result := make([]CommitLogEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, NewCommitLogEntryResponse(&entries[i]))
	}
	return result
}

// NewSnapshotResponse создает DTO для снапшота вопроса
func NewSnapshotResponse(s *entity.QuestionSnapshot) *SnapshotResponse {
	return &SnapshotResponse{
		QuestionID:    s.QuestionID,
		Version:       s.Version,
		CommitterID:   s.CommitterID,
		CommitType:    s.CommitType,
		CommitMessage: s.CommitMessage,
		Content:       s.Content,
		CreatedAt:     s.CreatedAt,
	}
}

// NewSummaryResponse создает DTO для summary вопроса
func NewSummaryResponse(s *entity.QuestionSummary) SummaryResponse {
	return SummaryResponse{
		QuestionID:      s.QuestionID,
		CreatorID:       s.CreatorID,
		QuestionContent: s.QuestionContent,
		CreatedOn:       s.QuestionModelCreatedOn,
		LastUpdated:     s.QuestionModelLastUpdated,
	}
}

// NewListSummaryResponse создает список DTO summary
func NewListSummaryResponse(summaries []entity.QuestionSummary) []SummaryResponse {
	result := make([]SummaryResponse, 0, len(summaries))
	for i := range summaries {
		result = append(result, NewSummaryResponse(&summaries[i]))
	}
	return result
}
