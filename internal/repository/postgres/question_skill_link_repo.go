package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
	apperrors "github.com/yourusername/question-bank-api/internal/pkg/errors"
)

// QuestionSkillLinkRepo реализует repository.QuestionSkillLinkRepository
type QuestionSkillLinkRepo struct {
	db *gorm.DB
}

// NewQuestionSkillLinkRepo создает новый репозиторий привязок вопрос-навык
func NewQuestionSkillLinkRepo(db *gorm.DB) *QuestionSkillLinkRepo {
	return &QuestionSkillLinkRepo{db: db}
}

// Create создает привязку вопроса к навыку.
// Существующая пара (question_id, skill_id) — конфликт, а не перезапись.
func (r *QuestionSkillLinkRepo) Create(link *entity.QuestionSkillLink) error {
	var count int64
	if err := r.db.Model(&entity.QuestionSkillLink{}).
		Where("id = ?", link.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing link: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: question %s is already linked to skill %s",
			apperrors.ErrConflict, link.QuestionID, link.SkillID)
	}

	if err := r.db.Create(link).Error; err != nil {
		// Гонка между проверкой и вставкой разрешается ограничением PK
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: question %s is already linked to skill %s",
				apperrors.ErrConflict, link.QuestionID, link.SkillID)
		}
		return fmt.Errorf("failed to create question skill link: %w", err)
	}
	return nil
}

// CreateBatch создает пакет привязок в одной транзакции
func (r *QuestionSkillLinkRepo) CreateBatch(links []*entity.QuestionSkillLink) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, link := range links {
			var count int64
			if err := tx.Model(&entity.QuestionSkillLink{}).
				Where("id = ?", link.ID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check existing link: %w", err)
			}
			if count > 0 {
				return fmt.Errorf("%w: question %s is already linked to skill %s",
					apperrors.ErrConflict, link.QuestionID, link.SkillID)
			}
		}
		if err := tx.Create(&links).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: duplicate question-skill pair in batch", apperrors.ErrConflict)
			}
			return fmt.Errorf("failed to create question skill links: %w", err)
		}
		return nil
	})
}

// Delete удаляет привязку вопроса к навыку
func (r *QuestionSkillLinkRepo) Delete(questionID, skillID string) error {
	result := r.db.Delete(&entity.QuestionSkillLink{}, "id = ?", entity.QuestionSkillLinkID(questionID, skillID))
	if result.Error != nil {
		return fmt.Errorf("failed to delete question skill link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByQuestionID удаляет все привязки вопроса
func (r *QuestionSkillLinkRepo) DeleteByQuestionID(questionID string) error {
	return r.db.Where("question_id = ?", questionID).Delete(&entity.QuestionSkillLink{}).Error
}

// GetByQuestionID возвращает все привязки вопроса
func (r *QuestionSkillLinkRepo) GetByQuestionID(questionID string) ([]entity.QuestionSkillLink, error) {
	var links []entity.QuestionSkillLink
	err := r.db.Where("question_id = ?", questionID).Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// GetBySkillID возвращает все привязки навыка
func (r *QuestionSkillLinkRepo) GetBySkillID(skillID string) ([]entity.QuestionSkillLink, error) {
	var links []entity.QuestionSkillLink
	err := r.db.Where("skill_id = ?", skillID).Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// GetQuestionIDsBySkill возвращает ID всех вопросов, привязанных к навыку
func (r *QuestionSkillLinkRepo) GetQuestionIDsBySkill(skillID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&entity.QuestionSkillLink{}).
		Where("skill_id = ?", skillID).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FetchBySkill возвращает до limit привязок навыка.
// ORDER BY отсутствует намеренно: порядок не специфицирован, и селектор
// на него не полагается.
func (r *QuestionSkillLinkRepo) FetchBySkill(skillID string, limit int) ([]entity.QuestionSkillLink, error) {
	var links []entity.QuestionSkillLink
	err := r.db.Where("skill_id = ?", skillID).
		Limit(limit).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// FetchBySkillAtDifficulty возвращает до limit привязок с точным совпадением сложности
func (r *QuestionSkillLinkRepo) FetchBySkillAtDifficulty(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error) {
	var links []entity.QuestionSkillLink
	err := r.db.Where("skill_id = ? AND skill_difficulty = ?", skillID, difficulty).
		Limit(limit).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// FetchBySkillEasier возвращает до limit более легких привязок,
// ближайшие к запрошенной сложности — первыми
func (r *QuestionSkillLinkRepo) FetchBySkillEasier(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error) {
	var links []entity.QuestionSkillLink
	err := r.db.Where("skill_id = ? AND skill_difficulty < ?", skillID, difficulty).
		Order("skill_difficulty DESC").
		Limit(limit).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// FetchBySkillHarder возвращает до limit более сложных привязок,
// ближайшие к запрошенной сложности — первыми
func (r *QuestionSkillLinkRepo) FetchBySkillHarder(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error) {
	var links []entity.QuestionSkillLink
	err := r.db.Where("skill_id = ? AND skill_difficulty > ?", skillID, difficulty).
		Order("skill_difficulty ASC").
		Limit(limit).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// FetchBySkillsPage возвращает страницу привязок для набора навыков.
// Keyset-пагинация по (updated_at DESC, id ASC): id в качестве тай-брейка
// делает порядок стабильным при одинаковом updated_at.
func (r *QuestionSkillLinkRepo) FetchBySkillsPage(skillIDs []string, pageSize int, cursor string) ([]entity.QuestionSkillLink, string, error) {
	if len(skillIDs) == 0 || pageSize <= 0 {
		return nil, "", nil
	}

	query := r.db.Where("skill_id IN ?", skillIDs)

	if cursor != "" {
		afterTime, afterID, err := decodePageCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		query = query.Where(
			"updated_at < ? OR (updated_at = ? AND id > ?)",
			afterTime, afterTime, afterID,
		)
	}

	// Запрашиваем на одну запись больше, чтобы узнать, есть ли следующая страница
	var links []entity.QuestionSkillLink
	err := query.Order("updated_at DESC, id ASC").
		Limit(pageSize + 1).
		Find(&links).Error
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch links page: %w", err)
	}

	nextCursor := ""
	if len(links) > pageSize {
		links = links[:pageSize]
		last := links[len(links)-1]
		nextCursor = encodePageCursor(last.UpdatedAt, last.ID)
	}

	return links, nextCursor, nil
}
