package entity

import (
	"fmt"
	"time"
)

// Статусы вопроса в журнале коммитов
const (
	CommitStatusPublic  = "public"
	CommitStatusPrivate = "private"
)

// QuestionCommitLogEntry - запись журнала коммитов. Создается при каждом
// коммите в модель вопроса: по журналу можно восстановить, кто, когда и
// какими командами менял вопрос.
type QuestionCommitLogEntry struct {
	// ID имеет вид "question-{question_id}-{version}"
	ID                string     `gorm:"primaryKey;size:128" json:"id"`
	QuestionID        string     `gorm:"size:64;not null;index" json:"question_id"`
	Version           int        `gorm:"not null" json:"version"`
	CommitterID       string     `gorm:"size:64;not null;index" json:"committer_id"`
	CommitterUsername string     `gorm:"size:128" json:"committer_username"`
	CommitType        string     `gorm:"size:16;not null" json:"commit_type"`
	CommitMessage     string     `gorm:"size:1000" json:"commit_message"`
	CommitCmds        CommitCmds `gorm:"type:jsonb;not null" json:"commit_cmds"`
	Status            string     `gorm:"size:16;not null;default:public" json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
}

// TableName задает имя таблицы для GORM.
func (QuestionCommitLogEntry) TableName() string {
	return "question_commit_log"
}

// QuestionCommitLogEntryID формирует идентификатор записи журнала коммитов
func QuestionCommitLogEntryID(questionID string, version int) string {
	return fmt.Sprintf("question-%s-%d", questionID, version)
}

// NewQuestionCommitLogEntry создает запись журнала для указанной версии вопроса
func NewQuestionCommitLogEntry(
	questionID string,
	version int,
	committerID, committerUsername string,
	commitType, commitMessage string,
	commitCmds CommitCmds,
) *QuestionCommitLogEntry {
	return &QuestionCommitLogEntry{
		ID:                QuestionCommitLogEntryID(questionID, version),
		QuestionID:        questionID,
		Version:           version,
		CommitterID:       committerID,
		CommitterUsername: committerUsername,
		CommitType:        commitType,
		CommitMessage:     commitMessage,
		CommitCmds:        commitCmds,
		Status:            CommitStatusPublic,
	}
}
