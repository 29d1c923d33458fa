package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
	apperrors "github.com/yourusername/question-bank-api/internal/pkg/errors"
)

// CommitLogRepo реализует repository.CommitLogRepository
type CommitLogRepo struct {
	db *gorm.DB
}

// NewCommitLogRepo создает новый репозиторий журнала коммитов
func NewCommitLogRepo(db *gorm.DB) *CommitLogRepo {
	return &CommitLogRepo{db: db}
}

// Create добавляет запись в журнал коммитов
func (r *CommitLogRepo) Create(entry *entity.QuestionCommitLogEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: commit log entry %s already exists", apperrors.ErrConflict, entry.ID)
		}
		return fmt.Errorf("failed to create commit log entry: %w", err)
	}
	return nil
}

// GetByQuestionID возвращает до limit последних записей журнала вопроса,
// от новых к старым
func (r *CommitLogRepo) GetByQuestionID(questionID string, limit int) ([]entity.QuestionCommitLogEntry, error) {
	var entries []entity.QuestionCommitLogEntry
	err := r.db.Where("question_id = ?", questionID).
		Order("version DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
