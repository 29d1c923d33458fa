package repository

import (
	"github.com/yourusername/question-bank-api/internal/domain/entity"
)

// QuestionSummaryRepository определяет методы для работы с облегченными
// представлениями вопросов
type QuestionSummaryRepository interface {
	// Save создает или обновляет summary (upsert по question_id)
	Save(summary *entity.QuestionSummary) error

	GetByQuestionID(questionID string) (*entity.QuestionSummary, error)
	GetByCreatorID(creatorID string) ([]entity.QuestionSummary, error)
	Delete(questionID string) error

	// AnonymizeCreator заменяет creator_id на обезличенное значение во всех
	// summary пользователя. Возвращает количество обновленных записей.
	AnonymizeCreator(creatorID string) (int64, error)
}
