package selection

import (
	"github.com/yourusername/question-bank-api/internal/domain/entity"
)

// linkSet - накопитель выбранных привязок с дедупликацией по question_id.
// Сохраняет порядок вставки; повторная вставка того же question_id
// игнорируется (первое вхождение выигрывает). Состояние локально для одного
// вызова селектора и не разделяется между вызовами.
type linkSet struct {
	seen  map[string]struct{}
	links []entity.QuestionSkillLink
}

func newLinkSet() *linkSet {
	return &linkSet{seen: make(map[string]struct{})}
}

// has проверяет, выбран ли уже вопрос
func (s *linkSet) has(questionID string) bool {
	_, ok := s.seen[questionID]
	return ok
}

// add вставляет привязку, если вопрос еще не выбран.
// Возвращает true, если привязка была добавлена.
func (s *linkSet) add(link entity.QuestionSkillLink) bool {
	if s.has(link.QuestionID) {
		return false
	}
	s.seen[link.QuestionID] = struct{}{}
	s.links = append(s.links, link)
	return true
}

// addAll вставляет привязки по порядку, пропуская уже выбранные вопросы
func (s *linkSet) addAll(links []entity.QuestionSkillLink) {
	for _, link := range links {
		s.add(link)
	}
}

// filterNew строит новый срез из привязок, чьи вопросы еще не выбраны.
// Исходный срез не изменяется: фильтрация через построение нового среза
// исключает пропуск элементов, неизбежный при удалении во время итерации.
func (s *linkSet) filterNew(links []entity.QuestionSkillLink) []entity.QuestionSkillLink {
	result := make([]entity.QuestionSkillLink, 0, len(links))
	for _, link := range links {
		if !s.has(link.QuestionID) {
			result = append(result, link)
		}
	}
	return result
}

// values возвращает выбранные привязки в порядке вставки
func (s *linkSet) values() []entity.QuestionSkillLink {
	return s.links
}
