package entity

import (
	"time"

	"gorm.io/gorm"
)

// QuestionIDLength - длина генерируемого идентификатора вопроса
const QuestionIDLength = 12

// Question представляет вопрос в банке вопросов.
// Каждое изменение вопроса увеличивает Version и фиксируется снапшотом
// и записью в журнале коммитов.
type Question struct {
	// ID - случайный hash из 12 символов, генерируется при создании
	ID string `gorm:"primaryKey;size:64" json:"id"`

	// QuestionStateData - непрозрачный блоб состояния вопроса (контент,
	// варианты ответов, интеракции). Сервис хранения его не интерпретирует.
	QuestionStateData JSONMap `gorm:"type:jsonb;not null" json:"question_state_data"`

	// SchemaVersion - версия схемы question_state_data
	SchemaVersion int `gorm:"not null" json:"question_state_data_schema_version"`

	// LanguageCode - код языка вопроса по ISO 639-1
	LanguageCode string `gorm:"size:8;not null;index" json:"language_code"`

	// LinkedSkillIDs - денормализованный список ID навыков, к которым привязан
	// вопрос. Источник истины — таблица question_skill_links.
	LinkedSkillIDs StringArray `gorm:"type:jsonb;not null" json:"linked_skill_ids"`

	// Version - номер текущей версии, начинается с 1
	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName задает имя таблицы для GORM.
func (Question) TableName() string {
	return "questions"
}

// IsLinkedToSkill проверяет, привязан ли вопрос к навыку (по денормализованному списку)
func (q *Question) IsLinkedToSkill(skillID string) bool {
	return q.LinkedSkillIDs.Contains(skillID)
}
