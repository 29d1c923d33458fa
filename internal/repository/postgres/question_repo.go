package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
	apperrors "github.com/yourusername/question-bank-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create сохраняет новый вопрос, его начальный снапшот и запись журнала
// коммитов атомарно
func (r *QuestionRepo) Create(
	question *entity.Question,
	snapshot *entity.QuestionSnapshot,
	logEntry *entity.QuestionCommitLogEntry,
) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: question %s already exists", apperrors.ErrConflict, question.ID)
			}
			return fmt.Errorf("failed to create question: %w", err)
		}
		if err := tx.Create(snapshot).Error; err != nil {
			return fmt.Errorf("failed to create question snapshot: %w", err)
		}
		if err := tx.Create(logEntry).Error; err != nil {
			return fmt.Errorf("failed to create commit log entry: %w", err)
		}
		return nil
	})
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id string) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByIDs возвращает вопросы по списку ID (отсутствующие пропускаются)
func (r *QuestionRepo) GetByIDs(ids []string) ([]entity.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []entity.Question
	err := r.db.Where("id IN ?", ids).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Exists проверяет существование вопроса с данным ID.
// Учитывает и мягко удаленные вопросы: их ID переиспользовать нельзя.
func (r *QuestionRepo) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&entity.Question{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update сохраняет новую версию вопроса: вопрос, снапшот и запись журнала
// фиксируются в одной транзакции
func (r *QuestionRepo) Update(
	question *entity.Question,
	snapshot *entity.QuestionSnapshot,
	logEntry *entity.QuestionCommitLogEntry,
) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(question).Error; err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		if err := tx.Create(snapshot).Error; err != nil {
			return fmt.Errorf("failed to create question snapshot: %w", err)
		}
		if err := tx.Create(logEntry).Error; err != nil {
			return fmt.Errorf("failed to create commit log entry: %w", err)
		}
		return nil
	})
}

// UpdateLinkedSkillIDs обновляет денормализованный список навыков вопроса.
// Версия вопроса не меняется: источник истины по привязкам — таблица
// question_skill_links.
func (r *QuestionRepo) UpdateLinkedSkillIDs(id string, skillIDs entity.StringArray) error {
	result := r.db.Model(&entity.Question{}).
		Where("id = ?", id).
		Update("linked_skill_ids", skillIDs)
	if result.Error != nil {
		return fmt.Errorf("failed to update linked skill ids: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete мягко удаляет вопрос и фиксирует удаление в журнале коммитов.
// Запись остается в базе: история вопроса сохраняется.
func (r *QuestionRepo) Delete(id string, logEntry *entity.QuestionCommitLogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entity.Question{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete question: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		if err := tx.Create(logEntry).Error; err != nil {
			return fmt.Errorf("failed to create commit log entry: %w", err)
		}
		return nil
	})
}

// GetSnapshot возвращает снапшот конкретной версии вопроса
func (r *QuestionRepo) GetSnapshot(questionID string, version int) (*entity.QuestionSnapshot, error) {
	var snapshot entity.QuestionSnapshot
	err := r.db.Where("question_id = ? AND version = ?", questionID, version).
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}
