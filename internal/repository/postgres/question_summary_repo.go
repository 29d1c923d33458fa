package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
	apperrors "github.com/yourusername/question-bank-api/internal/pkg/errors"
)

// QuestionSummaryRepo реализует repository.QuestionSummaryRepository
type QuestionSummaryRepo struct {
	db *gorm.DB
}

// NewQuestionSummaryRepo создает новый репозиторий summary вопросов
func NewQuestionSummaryRepo(db *gorm.DB) *QuestionSummaryRepo {
	return &QuestionSummaryRepo{db: db}
}

// Save создает или обновляет summary (upsert по question_id)
func (r *QuestionSummaryRepo) Save(summary *entity.QuestionSummary) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"creator_id",
			"question_content",
			"question_model_last_updated",
			"updated_at",
		}),
	}).Create(summary).Error
}

// GetByQuestionID возвращает summary вопроса
func (r *QuestionSummaryRepo) GetByQuestionID(questionID string) (*entity.QuestionSummary, error) {
	var summary entity.QuestionSummary
	err := r.db.First(&summary, "question_id = ?", questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// GetByCreatorID возвращает summary всех вопросов автора,
// последние измененные — первыми
func (r *QuestionSummaryRepo) GetByCreatorID(creatorID string) ([]entity.QuestionSummary, error) {
	var summaries []entity.QuestionSummary
	err := r.db.Where("creator_id = ?", creatorID).
		Order("question_model_last_updated DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Delete удаляет summary вопроса
func (r *QuestionSummaryRepo) Delete(questionID string) error {
	return r.db.Delete(&entity.QuestionSummary{}, "question_id = ?", questionID).Error
}

// AnonymizeCreator обезличивает автора во всех его summary.
// Вопросы при удалении пользователя сохраняются, автор заменяется
// на anonymous.
func (r *QuestionSummaryRepo) AnonymizeCreator(creatorID string) (int64, error) {
	result := r.db.Model(&entity.QuestionSummary{}).
		Where("creator_id = ?", creatorID).
		Update("creator_id", entity.AnonymizedCreatorID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
