package entity

import "time"

// AnonymizedCreatorID - значение, которым заменяется creator_id при удалении
// пользователя: сам вопрос сохраняется, а автор обезличивается.
const AnonymizedCreatorID = "anonymous"

// QuestionSummary - облегченное представление вопроса для списков и поиска,
// когда полный блоб состояния не нужен.
type QuestionSummary struct {
	QuestionID string `gorm:"primaryKey;size:64" json:"question_id"`
	CreatorID  string `gorm:"size:64;not null;index" json:"creator_id"`

	// QuestionContent - HTML-контент вопроса для отображения в списках
	QuestionContent string `gorm:"type:text;not null" json:"question_content"`

	// Времена модели вопроса (не путать с CreatedAt/UpdatedAt самой summary)
	QuestionModelCreatedOn   time.Time `gorm:"not null" json:"question_model_created_on"`
	QuestionModelLastUpdated time.Time `gorm:"not null;index" json:"question_model_last_updated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName задает имя таблицы для GORM.
func (QuestionSummary) TableName() string {
	return "question_summaries"
}
