package selection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
)

// LinkStore - узкая query-способность хранилища привязок, которую потребляют
// селекторы. repository.QuestionSkillLinkRepository удовлетворяет этому
// интерфейсу; в тестах используется in-memory реализация.
type LinkStore interface {
	FetchBySkill(skillID string, limit int) ([]entity.QuestionSkillLink, error)
	FetchBySkillAtDifficulty(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error)
	FetchBySkillEasier(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error)
	FetchBySkillHarder(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error)
	FetchBySkillsPage(skillIDs []string, pageSize int, cursor string) ([]entity.QuestionSkillLink, string, error)
}

// MaxSkillIDs - максимальное количество навыков в одном запросе выборки
const MaxSkillIDs = 20

// Ошибки валидации аргументов селекторов. Возвращаются до каких-либо
// обращений к хранилищу.
var (
	ErrTooManySkills = fmt.Errorf("no more than %d skill ids per selection", MaxSkillIDs)
	ErrNoSkills      = errors.New("skill ids list is empty")
	ErrNegativeCount = errors.New("total question count must be non-negative")
)

// Selector выбирает привязки вопрос-навык из хранилища.
// Оба метода выборки read-only: ошибки хранилища пробрасываются вызывающему
// как есть, без ретраев; недобор вопросов по навыку ошибкой не считается.
type Selector struct {
	store LinkStore
}

// NewSelector создает новый селектор поверх хранилища привязок
func NewSelector(store LinkStore) *Selector {
	return &Selector{store: store}
}

// validateArgs проверяет общие ограничения обоих селекторов
func validateArgs(totalQuestionCount int, skillIDs []string) error {
	if len(skillIDs) > MaxSkillIDs {
		return ErrTooManySkills
	}
	// Пустой список навыков отклоняем явно: иначе расчет квоты
	// делил бы на ноль
	if len(skillIDs) == 0 {
		return ErrNoSkills
	}
	if totalQuestionCount < 0 {
		return ErrNegativeCount
	}
	return nil
}

// perSkillQuota вычисляет целевое количество вопросов на навык:
// ceil(total / len(skillIDs))
func perSkillQuota(totalQuestionCount, skillCount int) int {
	return int(math.Ceil(float64(totalQuestionCount) / float64(skillCount)))
}

// SelectEquidistributed равномерно распределяет выборку по навыкам: для
// каждого навыка (в порядке входного списка) берется до quota привязок,
// вопросы дедуплицируются между навыками. Порядок вопросов внутри навыка
// не специфицирован — какой вернуло хранилище. Если у навыка недостаточно
// привязок, возвращается сколько есть, без добора из других навыков.
func (s *Selector) SelectEquidistributed(totalQuestionCount int, skillIDs []string) ([]entity.QuestionSkillLink, error) {
	if err := validateArgs(totalQuestionCount, skillIDs); err != nil {
		return nil, err
	}

	quota := perSkillQuota(totalQuestionCount, len(skillIDs))
	picked := newLinkSet()
	if quota == 0 {
		return picked.values(), nil
	}

	for _, skillID := range skillIDs {
		// Берем с запасом (2x квоты), чтобы компенсировать потери
		// от дедупликации между навыками
		links, err := s.store.FetchBySkill(skillID, quota*2)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch links for skill %s: %w", skillID, err)
		}

		fresh := picked.filterNew(links)
		if len(fresh) > quota {
			fresh = fresh[:quota]
		}
		picked.addAll(fresh)
	}

	return picked.values(), nil
}

// SelectByDifficulty работает как SelectEquidistributed, но внутри квоты
// навыка кандидаты ранжируются по близости к запрошенной сложности.
// Стратегия выборки трехступенчатая: сначала точное совпадение сложности,
// затем более легкие вопросы (ближайшие первыми), затем более сложные.
// Итоговый порядок внутри навыка — по возрастанию |difficulty - requested|.
func (s *Selector) SelectByDifficulty(totalQuestionCount int, skillIDs []string, requestedDifficulty float64) ([]entity.QuestionSkillLink, error) {
	if err := validateArgs(totalQuestionCount, skillIDs); err != nil {
		return nil, err
	}

	quota := perSkillQuota(totalQuestionCount, len(skillIDs))
	picked := newLinkSet()
	if quota == 0 {
		return picked.values(), nil
	}

	for _, skillID := range skillIDs {
		candidates, err := s.collectCandidates(skillID, requestedDifficulty, quota, picked)
		if err != nil {
			return nil, err
		}

		// Стабильная сортировка по расстоянию до запрошенной сложности:
		// при равном расстоянии сохраняется порядок ступеней выборки
		// (точные совпадения — первыми, затем соседние по мере добавления)
		sort.SliceStable(candidates, func(i, j int) bool {
			di := math.Abs(candidates[i].SkillDifficulty - requestedDifficulty)
			dj := math.Abs(candidates[j].SkillDifficulty - requestedDifficulty)
			return di < dj
		})

		if len(candidates) > quota {
			candidates = candidates[:quota]
		}
		picked.addAll(candidates)
	}

	return picked.values(), nil
}

// collectCandidates собирает кандидатов одного навыка по трем ступеням,
// отбрасывая вопросы, уже выбранные для предыдущих навыков
func (s *Selector) collectCandidates(
	skillID string,
	requestedDifficulty float64,
	quota int,
	picked *linkSet,
) ([]entity.QuestionSkillLink, error) {
	// Ступень 1: точное совпадение сложности, с запасом 2x на дедупликацию
	equal, err := s.store.FetchBySkillAtDifficulty(skillID, requestedDifficulty, quota*2)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch equal-difficulty links for skill %s: %w", skillID, err)
	}
	candidates := picked.filterNew(equal)

	// Ступень 2: более легкие вопросы, по убыванию сложности
	if len(candidates) < quota {
		easier, err := s.store.FetchBySkillEasier(skillID, requestedDifficulty, quota)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch easier links for skill %s: %w", skillID, err)
		}
		candidates = append(candidates, picked.filterNew(easier)...)
	}

	// Ступень 3: более сложные вопросы, по возрастанию сложности
	if len(candidates) < quota {
		harder, err := s.store.FetchBySkillHarder(skillID, requestedDifficulty, quota)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch harder links for skill %s: %w", skillID, err)
		}
		candidates = append(candidates, picked.filterNew(harder)...)
	}

	return candidates, nil
}
