package selection

import (
	"sort"
	"strconv"

	"github.com/yourusername/question-bank-api/internal/domain/entity"
)

// fakeLinkStore - in-memory реализация LinkStore для тестов селекторов.
// Привязки хранятся в порядке добавления; этот порядок играет роль
// "неспецифицированного" порядка реального хранилища.
type fakeLinkStore struct {
	links []entity.QuestionSkillLink

	// fetchCalls считает все обращения к хранилищу — для проверки того,
	// что валидация аргументов отрабатывает до каких-либо чтений
	fetchCalls int
}

func (f *fakeLinkStore) add(questionID, skillID string, difficulty float64) {
	f.links = append(f.links, *entity.NewQuestionSkillLink(questionID, skillID, difficulty))
}

func (f *fakeLinkStore) bySkill(skillID string) []entity.QuestionSkillLink {
	var result []entity.QuestionSkillLink
	for _, link := range f.links {
		if link.SkillID == skillID {
			result = append(result, link)
		}
	}
	return result
}

func truncate(links []entity.QuestionSkillLink, limit int) []entity.QuestionSkillLink {
	if limit < 0 {
		limit = 0
	}
	if len(links) > limit {
		return links[:limit]
	}
	return links
}

func (f *fakeLinkStore) FetchBySkill(skillID string, limit int) ([]entity.QuestionSkillLink, error) {
	f.fetchCalls++
	return truncate(f.bySkill(skillID), limit), nil
}

func (f *fakeLinkStore) FetchBySkillAtDifficulty(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error) {
	f.fetchCalls++
	var result []entity.QuestionSkillLink
	for _, link := range f.bySkill(skillID) {
		if link.SkillDifficulty == difficulty {
			result = append(result, link)
		}
	}
	return truncate(result, limit), nil
}

func (f *fakeLinkStore) FetchBySkillEasier(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error) {
	f.fetchCalls++
	var result []entity.QuestionSkillLink
	for _, link := range f.bySkill(skillID) {
		if link.SkillDifficulty < difficulty {
			result = append(result, link)
		}
	}
	// По убыванию сложности: ближайшие к запрошенной — первыми
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SkillDifficulty > result[j].SkillDifficulty
	})
	return truncate(result, limit), nil
}

func (f *fakeLinkStore) FetchBySkillHarder(skillID string, difficulty float64, limit int) ([]entity.QuestionSkillLink, error) {
	f.fetchCalls++
	var result []entity.QuestionSkillLink
	for _, link := range f.bySkill(skillID) {
		if link.SkillDifficulty > difficulty {
			result = append(result, link)
		}
	}
	// По возрастанию сложности: ближайшие к запрошенной — первыми
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SkillDifficulty < result[j].SkillDifficulty
	})
	return truncate(result, limit), nil
}

func (f *fakeLinkStore) FetchBySkillsPage(skillIDs []string, pageSize int, cursor string) ([]entity.QuestionSkillLink, string, error) {
	f.fetchCalls++
	inSet := make(map[string]struct{}, len(skillIDs))
	for _, id := range skillIDs {
		inSet[id] = struct{}{}
	}

	var matched []entity.QuestionSkillLink
	for _, link := range f.links {
		if _, ok := inSet[link.SkillID]; ok {
			matched = append(matched, link)
		}
	}

	offset := 0
	if cursor != "" {
		offset, _ = strconv.Atoi(cursor)
	}
	if offset >= len(matched) {
		return nil, "", nil
	}

	end := offset + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	next := ""
	if end < len(matched) {
		next = strconv.Itoa(end)
	}
	return matched[offset:end], next, nil
}
