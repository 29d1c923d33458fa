package repository

import (
	"github.com/yourusername/question-bank-api/internal/domain/entity"
)

// CommitLogRepository определяет методы для работы с журналом коммитов вопросов
type CommitLogRepository interface {
	Create(entry *entity.QuestionCommitLogEntry) error

	// GetByQuestionID возвращает до limit последних записей журнала для вопроса,
	// от новых к старым
	GetByQuestionID(questionID string, limit int) ([]entity.QuestionCommitLogEntry, error)
}
