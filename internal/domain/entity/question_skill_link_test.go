package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionSkillLinkID(t *testing.T) {
	// Act & Assert
	assert.Equal(t, "q1:s1", QuestionSkillLinkID("q1", "s1"),
		"ID привязки должен иметь вид questionID:skillID")
}

func TestNewQuestionSkillLink(t *testing.T) {
	// Act
	link := NewQuestionSkillLink("abc123def456", "skill_math", 0.75)

	// Assert
	assert.Equal(t, "abc123def456:skill_math", link.ID)
	assert.Equal(t, "abc123def456", link.QuestionID)
	assert.Equal(t, "skill_math", link.SkillID)
	assert.Equal(t, 0.75, link.SkillDifficulty)
}

func TestIsValidDifficulty(t *testing.T) {
	// Границы диапазона включительно
	assert.True(t, IsValidDifficulty(0), "0 — валидная сложность")
	assert.True(t, IsValidDifficulty(1), "1 — валидная сложность")
	assert.True(t, IsValidDifficulty(0.5), "0.5 — валидная сложность")

	assert.False(t, IsValidDifficulty(-0.01), "Отрицательная сложность невалидна")
	assert.False(t, IsValidDifficulty(1.01), "Сложность больше 1 невалидна")
}

func TestQuestion_IsLinkedToSkill(t *testing.T) {
	// Arrange
	question := &Question{
		ID:             "abc123def456",
		LinkedSkillIDs: StringArray{"skill_a", "skill_b"},
	}

	// Act & Assert
	assert.True(t, question.IsLinkedToSkill("skill_a"))
	assert.True(t, question.IsLinkedToSkill("skill_b"))
	assert.False(t, question.IsLinkedToSkill("skill_c"))
}

func TestStringArray_Remove(t *testing.T) {
	// Arrange
	skills := StringArray{"skill_a", "skill_b", "skill_c"}

	// Act
	result := skills.Remove("skill_b")

	// Assert: порядок оставшихся элементов сохраняется, исходный слайс не меняется
	assert.Equal(t, StringArray{"skill_a", "skill_c"}, result)
	assert.Equal(t, StringArray{"skill_a", "skill_b", "skill_c"}, skills)

	// Удаление отсутствующего элемента не меняет список
	assert.Equal(t, StringArray{"skill_a", "skill_c"}, result.Remove("skill_x"))
}

func TestQuestionCommitLogEntryID(t *testing.T) {
	assert.Equal(t, "question-abc123def456-3", QuestionCommitLogEntryID("abc123def456", 3))
}
