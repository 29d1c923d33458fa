package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
)

func TestLinkSet_FirstOccurrenceWins(t *testing.T) {
	set := newLinkSet()

	first := *entity.NewQuestionSkillLink("q1", "s1", 0.3)
	second := *entity.NewQuestionSkillLink("q1", "s2", 0.8)

	assert.True(t, set.add(first))
	assert.False(t, set.add(second), "повторная вставка того же question_id игнорируется")

	values := set.values()
	assert.Len(t, values, 1)
	assert.Equal(t, "s1", values[0].SkillID, "сохраняется первое вхождение")
}

func TestLinkSet_FilterNewDoesNotMutateInput(t *testing.T) {
	set := newLinkSet()
	set.add(*entity.NewQuestionSkillLink("q1", "s1", 0.3))

	input := []entity.QuestionSkillLink{
		*entity.NewQuestionSkillLink("q1", "s2", 0.5),
		*entity.NewQuestionSkillLink("q2", "s2", 0.6),
		*entity.NewQuestionSkillLink("q3", "s2", 0.7),
	}

	fresh := set.filterNew(input)

	assert.Len(t, fresh, 2)
	assert.Equal(t, "q2", fresh[0].QuestionID)
	assert.Equal(t, "q3", fresh[1].QuestionID)
	assert.Len(t, input, 3, "исходный срез не изменяется")
}

func TestLinkSet_PreservesInsertionOrder(t *testing.T) {
	set := newLinkSet()
	ids := []string{"q3", "q1", "q2"}
	for _, id := range ids {
		set.add(*entity.NewQuestionSkillLink(id, "s1", 0.5))
	}

	values := set.values()
	for i, id := range ids {
		assert.Equal(t, id, values[i].QuestionID)
	}
}
