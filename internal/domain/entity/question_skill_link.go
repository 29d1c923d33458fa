package entity

import (
	"fmt"
	"time"
)

// QuestionSkillLink связывает вопрос с навыком и хранит сложность вопроса
// для этого навыка. Пара (question_id, skill_id) уникальна: один вопрос может
// быть привязан к нескольким навыкам, каждая привязка — со своей сложностью.
type QuestionSkillLink struct {
	// ID имеет вид "{question_id}:{skill_id}" — см. QuestionSkillLinkID
	ID              string    `gorm:"primaryKey;size:128" json:"id"`
	QuestionID      string    `gorm:"size:64;not null;index" json:"question_id"`
	SkillID         string    `gorm:"size:64;not null;index:idx_skill_difficulty,priority:1" json:"skill_id"`
	SkillDifficulty float64   `gorm:"not null;index:idx_skill_difficulty,priority:2" json:"skill_difficulty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `gorm:"index" json:"updated_at"`
}

// TableName задает имя таблицы для GORM.
func (QuestionSkillLink) TableName() string {
	return "question_skill_links"
}

// QuestionSkillLinkID формирует составной идентификатор привязки
func QuestionSkillLinkID(questionID, skillID string) string {
	return fmt.Sprintf("%s:%s", questionID, skillID)
}

// NewQuestionSkillLink создает привязку с вычисленным составным ID
func NewQuestionSkillLink(questionID, skillID string, skillDifficulty float64) *QuestionSkillLink {
	return &QuestionSkillLink{
		ID:              QuestionSkillLinkID(questionID, skillID),
		QuestionID:      questionID,
		SkillID:         skillID,
		SkillDifficulty: skillDifficulty,
	}
}

// IsValidDifficulty проверяет, что сложность находится в допустимом диапазоне [0, 1]
func IsValidDifficulty(difficulty float64) bool {
	return difficulty >= 0 && difficulty <= 1
}
