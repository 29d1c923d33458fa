package selection

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Вспомогательные функции
// ============================================================================

func manySkillIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("skill-%d", i)
	}
	return ids
}

// ============================================================================
// Тесты perSkillQuota
// ============================================================================

func TestPerSkillQuota(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		skillCount int
		expected   int
	}{
		{name: "делится нацело", total: 10, skillCount: 5, expected: 2},
		{name: "округление вверх", total: 10, skillCount: 3, expected: 4},
		{name: "меньше навыков чем вопросов", total: 1, skillCount: 3, expected: 1},
		{name: "ноль вопросов", total: 0, skillCount: 2, expected: 0},
		{name: "один навык", total: 7, skillCount: 1, expected: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, perSkillQuota(tt.total, tt.skillCount))
		})
	}
}

// ============================================================================
// Тесты SelectEquidistributed
// ============================================================================

func TestSelectEquidistributed_QuotaBoundAndDedup(t *testing.T) {
	store := &fakeLinkStore{}
	store.add("q1", "s1", 0.2)
	store.add("q2", "s1", 0.4)
	store.add("q3", "s1", 0.6)
	store.add("q4", "s2", 0.3)
	store.add("q5", "s2", 0.5)
	store.add("q6", "s2", 0.7)

	selector := NewSelector(store)

	// total=4, 2 навыка → квота 2 на навык
	result, err := selector.SelectEquidistributed(4, []string{"s1", "s2"})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result), 4)
	assert.Len(t, result, 4, "по 2 привязки на каждый из 2 навыков")

	seen := make(map[string]bool)
	for _, link := range result {
		assert.False(t, seen[link.QuestionID], "question_id %s встретился дважды", link.QuestionID)
		seen[link.QuestionID] = true
	}
}

func TestSelectEquidistributed_GroupsBySkillInputOrder(t *testing.T) {
	store := &fakeLinkStore{}
	store.add("q1", "s1", 0.2)
	store.add("q2", "s1", 0.4)
	store.add("q3", "s2", 0.3)
	store.add("q4", "s2", 0.5)

	selector := NewSelector(store)

	result, err := selector.SelectEquidistributed(4, []string{"s2", "s1"})
	require.NoError(t, err)
	require.Len(t, result, 4)

	// Все привязки, внесенные первым навыком входного списка (s2),
	// идут раньше привязок второго (s1). Конкретный порядок вопросов
	// внутри навыка не проверяем — он не специфицирован.
	assert.Equal(t, "s2", result[0].SkillID)
	assert.Equal(t, "s2", result[1].SkillID)
	assert.Equal(t, "s1", result[2].SkillID)
	assert.Equal(t, "s1", result[3].SkillID)
}

func TestSelectEquidistributed_SharedQuestionSelectedOnce(t *testing.T) {
	store := &fakeLinkStore{}
	// q-shared привязан к обоим навыкам с разной сложностью
	store.add("q-shared", "s1", 0.2)
	store.add("q-shared", "s2", 0.8)
	store.add("q2", "s2", 0.5)

	selector := NewSelector(store)

	result, err := selector.SelectEquidistributed(4, []string{"s1", "s2"})
	require.NoError(t, err)

	var sharedCount int
	for _, link := range result {
		if link.QuestionID == "q-shared" {
			sharedCount++
			// Выбран должен быть под первым навыком
			assert.Equal(t, "s1", link.SkillID)
		}
	}
	assert.Equal(t, 1, sharedCount, "вопрос, привязанный к двум навыкам, выбирается один раз")
}

func TestSelectEquidistributed_UnderfilledSkillIsNotPadded(t *testing.T) {
	store := &fakeLinkStore{}
	// У s1 только одна привязка при квоте 3; у s2 — пять
	store.add("q1", "s1", 0.5)
	for i := 0; i < 5; i++ {
		store.add(fmt.Sprintf("q2-%d", i), "s2", 0.5)
	}

	selector := NewSelector(store)

	result, err := selector.SelectEquidistributed(6, []string{"s1", "s2"})
	require.NoError(t, err)

	var s1Count, s2Count int
	for _, link := range result {
		switch link.SkillID {
		case "s1":
			s1Count++
		case "s2":
			s2Count++
		}
	}
	assert.Equal(t, 1, s1Count, "недобор по навыку не является ошибкой")
	assert.Equal(t, 3, s2Count, "квота другого навыка не увеличивается для компенсации")
}

func TestSelectEquidistributed_TooManySkills(t *testing.T) {
	store := &fakeLinkStore{}
	selector := NewSelector(store)

	result, err := selector.SelectEquidistributed(10, manySkillIDs(MaxSkillIDs+1))

	assert.ErrorIs(t, err, ErrTooManySkills)
	assert.Nil(t, result)
	assert.Equal(t, 0, store.fetchCalls, "при ошибке валидации хранилище не читается")
}

func TestSelectEquidistributed_AtSkillLimit(t *testing.T) {
	store := &fakeLinkStore{}
	skillIDs := manySkillIDs(MaxSkillIDs)
	for _, id := range skillIDs {
		store.add("q-"+id, id, 0.5)
	}

	selector := NewSelector(store)

	// Ровно 20 навыков — допустимо
	result, err := selector.SelectEquidistributed(20, skillIDs)
	require.NoError(t, err)
	assert.Len(t, result, 20)
}

func TestSelectEquidistributed_EmptySkillIDs(t *testing.T) {
	store := &fakeLinkStore{}
	selector := NewSelector(store)

	_, err := selector.SelectEquidistributed(5, nil)

	assert.ErrorIs(t, err, ErrNoSkills)
	assert.Equal(t, 0, store.fetchCalls)
}

func TestSelectEquidistributed_NegativeCount(t *testing.T) {
	store := &fakeLinkStore{}
	selector := NewSelector(store)

	_, err := selector.SelectEquidistributed(-1, []string{"s1"})

	assert.ErrorIs(t, err, ErrNegativeCount)
	assert.Equal(t, 0, store.fetchCalls)
}

func TestSelectEquidistributed_ZeroCount(t *testing.T) {
	store := &fakeLinkStore{}
	store.add("q1", "s1", 0.5)

	selector := NewSelector(store)

	result, err := selector.SelectEquidistributed(0, []string{"s1"})
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, 0, store.fetchCalls, "при нулевой квоте чтения не нужны")
}

// ============================================================================
// Тесты SelectByDifficulty
// ============================================================================

func TestSelectByDifficulty_DistanceNonDecreasingWithinSkill(t *testing.T) {
	store := &fakeLinkStore{}
	store.add("q1", "s1", 0.1)
	store.add("q2", "s1", 0.4)
	store.add("q3", "s1", 0.45)
	store.add("q4", "s1", 0.9)
	store.add("q5", "s2", 0.3)
	store.add("q6", "s2", 0.6)

	selector := NewSelector(store)

	result, err := selector.SelectByDifficulty(6, []string{"s1", "s2"}, 0.4)
	require.NoError(t, err)
	require.NotEmpty(t, result)

	// Внутри каждого навыка расстояние до запрошенной сложности не убывает
	prevDist := make(map[string]float64)
	for _, link := range result {
		dist := math.Abs(link.SkillDifficulty - 0.4)
		if prev, ok := prevDist[link.SkillID]; ok {
			assert.GreaterOrEqual(t, dist, prev,
				"расстояние внутри навыка %s должно быть неубывающим", link.SkillID)
		}
		prevDist[link.SkillID] = dist
	}
}

func TestSelectByDifficulty_ExactMatchesComeFirst(t *testing.T) {
	store := &fakeLinkStore{}
	store.add("q-near", "s1", 0.5)
	store.add("q-exact", "s1", 0.4)
	store.add("q-far", "s1", 0.9)

	selector := NewSelector(store)

	result, err := selector.SelectByDifficulty(3, []string{"s1"}, 0.4)
	require.NoError(t, err)
	require.Len(t, result, 3)

	// Точное совпадение (расстояние 0) всегда раньше соседних
	assert.Equal(t, "q-exact", result[0].QuestionID)
}

// TestSelectByDifficulty_TwoSkillScenario - сквозной сценарий:
// skills=[s1,s2], total=3 → квота 2; у s1 привязки 0.3 и 0.5, у s2 — 0.1,
// 0.4 и 0.9; запрошенная сложность 0.4.
func TestSelectByDifficulty_TwoSkillScenario(t *testing.T) {
	store := &fakeLinkStore{}
	store.add("a1", "s1", 0.3)
	store.add("a2", "s1", 0.5)
	store.add("b1", "s2", 0.1)
	store.add("b2", "s2", 0.4)
	store.add("b3", "s2", 0.9)

	selector := NewSelector(store)

	result, err := selector.SelectByDifficulty(3, []string{"s1", "s2"}, 0.4)
	require.NoError(t, err)

	require.Len(t, result, 4, "по 2 привязки на навык при квоте ceil(3/2)=2")

	// s1: точных совпадений нет, обе привязки на расстоянии 0.1 — при равном
	// расстоянии порядок ступеней выборки сохраняется (легкие раньше сложных)
	assert.Equal(t, "a1", result[0].QuestionID)
	assert.Equal(t, "a2", result[1].QuestionID)

	// s2: точное совпадение 0.4 первым, затем ближайший сосед 0.1 (dist 0.3
	// против 0.5 у 0.9)
	assert.Equal(t, "b2", result[2].QuestionID)
	assert.Equal(t, "b1", result[3].QuestionID)

	seen := make(map[string]bool)
	for _, link := range result {
		assert.False(t, seen[link.QuestionID])
		seen[link.QuestionID] = true
	}
}

func TestSelectByDifficulty_SharedQuestionNotReselected(t *testing.T) {
	store := &fakeLinkStore{}
	// q-shared: точное совпадение для s1 и единственная привязка s2
	store.add("q-shared", "s1", 0.4)
	store.add("q-shared", "s2", 0.9)
	store.add("q2", "s2", 0.2)

	selector := NewSelector(store)

	result, err := selector.SelectByDifficulty(2, []string{"s1", "s2"}, 0.4)
	require.NoError(t, err)

	var sharedCount int
	for _, link := range result {
		if link.QuestionID == "q-shared" {
			sharedCount++
			assert.Equal(t, "s1", link.SkillID, "вопрос закреплен за первым навыком")
		}
	}
	assert.Equal(t, 1, sharedCount)
}

func TestSelectByDifficulty_FallsBackThroughTiers(t *testing.T) {
	store := &fakeLinkStore{}
	// Точных совпадений нет вообще, только более сложные вопросы
	store.add("q1", "s1", 0.7)
	store.add("q2", "s1", 0.95)

	selector := NewSelector(store)

	result, err := selector.SelectByDifficulty(2, []string{"s1"}, 0.4)
	require.NoError(t, err)
	require.Len(t, result, 2)

	// Ближайший по возрастанию сложности — первым
	assert.Equal(t, "q1", result[0].QuestionID)
	assert.Equal(t, "q2", result[1].QuestionID)
}

func TestSelectByDifficulty_TooManySkills(t *testing.T) {
	store := &fakeLinkStore{}
	selector := NewSelector(store)

	result, err := selector.SelectByDifficulty(10, manySkillIDs(21), 0.5)

	assert.ErrorIs(t, err, ErrTooManySkills)
	assert.Nil(t, result)
	assert.Equal(t, 0, store.fetchCalls, "при ошибке валидации хранилище не читается")
}

func TestSelectByDifficulty_EmptySkillIDs(t *testing.T) {
	store := &fakeLinkStore{}
	selector := NewSelector(store)

	_, err := selector.SelectByDifficulty(5, []string{}, 0.5)

	assert.ErrorIs(t, err, ErrNoSkills)
	assert.Equal(t, 0, store.fetchCalls)
}
