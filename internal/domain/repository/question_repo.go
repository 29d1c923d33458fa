package repository

import (
	"github.com/yourusername/question-bank-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	// Create сохраняет новый вопрос вместе с начальным снапшотом и записью
	// журнала коммитов в одной транзакции
	Create(question *entity.Question, snapshot *entity.QuestionSnapshot, logEntry *entity.QuestionCommitLogEntry) error

	GetByID(id string) (*entity.Question, error)
	GetByIDs(ids []string) ([]entity.Question, error)
	Exists(id string) (bool, error)

	// Update сохраняет новую версию вопроса: сам вопрос, снапшот новой версии
	// и запись журнала коммитов фиксируются атомарно
	Update(question *entity.Question, snapshot *entity.QuestionSnapshot, logEntry *entity.QuestionCommitLogEntry) error

	// UpdateLinkedSkillIDs обновляет денормализованный список навыков вопроса
	// без увеличения версии (привязки версионируются отдельно от контента)
	UpdateLinkedSkillIDs(id string, skillIDs entity.StringArray) error

	// Delete мягко удаляет вопрос (запись остается для истории)
	Delete(id string, logEntry *entity.QuestionCommitLogEntry) error

	// GetSnapshot возвращает снапшот конкретной версии вопроса
	GetSnapshot(questionID string, version int) (*entity.QuestionSnapshot, error)
}
