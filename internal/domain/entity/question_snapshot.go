package entity

import "time"

// Типы коммитов, допустимые в истории вопроса
const (
	CommitTypeCreate = "create"
	CommitTypeEdit   = "edit"
	CommitTypeRevert = "revert"
	CommitTypeDelete = "delete"
)

// QuestionSnapshot хранит полное состояние вопроса на момент конкретной версии
// вместе с метаданными коммита. Снапшоты позволяют восстановить любую
// историческую версию вопроса.
type QuestionSnapshot struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID string `gorm:"size:64;not null;index:idx_question_snapshot_version,priority:1,unique" json:"question_id"`
	Version    int    `gorm:"not null;index:idx_question_snapshot_version,priority:2,unique" json:"version"`

	CommitterID   string     `gorm:"size:64;not null;index" json:"committer_id"`
	CommitType    string     `gorm:"size:16;not null" json:"commit_type"`
	CommitMessage string     `gorm:"size:1000" json:"commit_message"`
	CommitCmds    CommitCmds `gorm:"type:jsonb;not null" json:"commit_cmds"`

	// Content - состояние question_state_data на момент этой версии
	Content JSONMap `gorm:"type:jsonb;not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName задает имя таблицы для GORM.
func (QuestionSnapshot) TableName() string {
	return "question_snapshots"
}
