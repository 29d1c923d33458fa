package repository

import (
	"github.com/yourusername/question-bank-api/internal/domain/entity"
)

// QuestionSkillLinkRepository определяет методы для работы с привязками
// вопрос-навык. Fetch-методы — это узкий query-интерфейс, который потребляет
// алгоритм выборки вопросов (пакет selection); он не знает о конкретной БД.
type QuestionSkillLinkRepository interface {
	// Create создает привязку. Возвращает apperrors.ErrConflict, если пара
	// (question_id, skill_id) уже существует.
	Create(link *entity.QuestionSkillLink) error
	CreateBatch(links []*entity.QuestionSkillLink) error

	// Delete удаляет привязку вопроса к навыку
	Delete(questionID, skillID string) error
	DeleteByQuestionID(questionID string) error

	GetByQuestionID(questionID string) ([]entity.QuestionSkillLink, error)
	GetBySkillID(skillID string) ([]entity.QuestionSkillLink, error)
	GetQuestionIDsBySkill(skillID string) ([]string, error)

	// FetchBySkill возвращает до limit привязок навыка без фильтра по сложности.
	// Порядок результата не специфицирован.
	FetchBySkill(skillID string, limit int) ([]entity.QuestionSkillLink, error)

	// FetchBySkillAtDifficulty возвращает до limit привязок с точным совпадением
	// сложности. Порядок результата не специфицирован.
	FetchBySkillAtDifficulty(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error)

	// FetchBySkillEasier возвращает до limit привязок со сложностью строго меньше
	// заданной, отсортированных по убыванию сложности (ближайшие — первыми).
	FetchBySkillEasier(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error)

	// FetchBySkillHarder возвращает до limit привязок со сложностью строго больше
	// заданной, отсортированных по возрастанию сложности (ближайшие — первыми).
	FetchBySkillHarder(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error)

	// FetchBySkillsPage возвращает страницу привязок для любого из навыков,
	// упорядоченных по убыванию updated_at (тай-брейк — id по возрастанию),
	// и курсор продолжения. Пустой курсор в ответе означает, что данных больше нет.
	FetchBySkillsPage(skillIDs []string, pageSize int, cursor string) ([]entity.QuestionSkillLink, string, error)
}
