package textmatch

import (
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Matcher ищет вхождения набора подстрок за один проход по тексту.
// Сравнение регистронезависимое: и шаблоны, и текст приводятся к нижнему регистру.
type Matcher struct {
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	terms    []string
	patterns []string
	// owners[i] хранит индексы исходных терминов, которые дают шаблон patterns[i].
	owners [][]int
}

// New строит автомат Ахо-Корасик по списку терминов.
func New(terms []string) *Matcher {
	m := &Matcher{terms: append([]string(nil), terms...)}
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		pattern := strings.ToLower(term)
		if pattern == "" {
			continue
		}
		pos, ok := index[pattern]
		if !ok {
			pos = len(m.patterns)
			index[pattern] = pos
			m.patterns = append(m.patterns, pattern)
			m.owners = append(m.owners, nil)
		}
		m.owners[pos] = append(m.owners[pos], i)
	}
	if len(m.patterns) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(m.patterns)
	}
	return m
}

// Match возвращает индексы исходных терминов, найденных в тексте, по возрастанию.
func (m *Matcher) Match(text string) []int {
	if m.matcher == nil || text == "" {
		return nil
	}
	lowered := strings.ToLower(text)

	// Автомат хранит счётчик вызовов внутри себя.
	m.mu.Lock()
	hits := m.matcher.Match([]byte(lowered))
	m.mu.Unlock()

	found := make([]bool, len(m.terms))
	for _, hit := range hits {
		if hit < 0 || hit >= len(m.owners) {
			continue
		}
		for _, owner := range m.owners[hit] {
			found[owner] = true
		}
	}
	out := make([]int, 0, len(hits))
	for i, ok := range found {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// MatchTerms возвращает найденные термины в порядке исходного списка.
func (m *Matcher) MatchTerms(text string) []string {
	idx := m.Match(text)
	if len(idx) == 0 {
		return nil
	}
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, m.terms[i])
	}
	return out
}

// Contains сообщает, встречается ли в тексте хотя бы один термин.
func (m *Matcher) Contains(text string) bool {
	return len(m.Match(text)) > 0
}
