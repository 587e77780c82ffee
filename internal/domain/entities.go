package domain

import (
	"sort"
	"time"
)

// DeletedAuthor подставляется, если автор поста неизвестен или удалён.
const DeletedAuthor = "[deleted]"

// MaxKeywords ограничивает размер расширенного набора ключевых слов.
const MaxKeywords = 50

// CandidatePost представляет пост Reddit до скоринга.
type CandidatePost struct {
	URL       string
	Title     string
	Body      string
	Subreddit string
	Author    string
	CreatedAt time.Time
	Upvotes   int
}

// AuthorOrDeleted возвращает автора или сентинел для удалённых аккаунтов.
func (p CandidatePost) AuthorOrDeleted() string {
	if p.Author == "" {
		return DeletedAuthor
	}
	return p.Author
}

// KeywordSet хранит неизменяемый упорядоченный набор уникальных ключевых слов.
type KeywordSet struct {
	terms []string
}

// NewKeywordSet создаёт набор, отбрасывая пустые строки и дубликаты.
// Порядок первого вхождения сохраняется, размер ограничен MaxKeywords.
func NewKeywordSet(terms []string) KeywordSet {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, min(len(terms), MaxKeywords))
	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
		if len(out) == MaxKeywords {
			break
		}
	}
	return KeywordSet{terms: out}
}

// Terms возвращает копию ключевых слов в порядке набора.
func (s KeywordSet) Terms() []string {
	return append([]string(nil), s.terms...)
}

// Len возвращает размер набора.
func (s KeywordSet) Len() int {
	return len(s.terms)
}

// Head возвращает первые n ключевых слов.
func (s KeywordSet) Head(n int) []string {
	if n <= 0 || n >= len(s.terms) {
		return s.Terms()
	}
	return append([]string(nil), s.terms[:n]...)
}

// Intent описывает грубую классификацию намерения автора поста.
type Intent string

const (
	IntentToolSeeking    Intent = "Tool seeking"
	IntentHowTo          Intent = "How to"
	IntentProblemSolving Intent = "Problem solving"
	IntentShowAndTell    Intent = "Show and tell"
	IntentGeneral        Intent = "General discussion"
)

// ScoreBreakdown содержит итоговую оценку и её составляющие.
type ScoreBreakdown struct {
	Intent          Intent
	IntentScore     int
	KeywordScore    int
	ContextScore    int
	FreshnessScore  int
	SubredditScore  int
	TotalScore      int
	MatchedKeywords []string
}

// RiskFlag помечает причину ограничить или изменить ответ.
type RiskFlag string

const (
	RiskSelfPromoRestricted RiskFlag = "self-promo-restricted"
	RiskLowQualityThread    RiskFlag = "low-quality-thread"
	RiskOffTopic            RiskFlag = "off-topic"
	// RiskVendorBanned зарезервирован, текущие правила его не выставляют.
	RiskVendorBanned RiskFlag = "vendor-banned"
)

// RiskFlagSet хранит множество флагов риска.
type RiskFlagSet map[RiskFlag]struct{}

// NewRiskFlagSet создаёт множество из перечисленных флагов.
func NewRiskFlagSet(flags ...RiskFlag) RiskFlagSet {
	set := make(RiskFlagSet, len(flags))
	for _, f := range flags {
		set.Add(f)
	}
	return set
}

// Add добавляет флаг.
func (s RiskFlagSet) Add(flag RiskFlag) {
	s[flag] = struct{}{}
}

// Has проверяет наличие флага.
func (s RiskFlagSet) Has(flag RiskFlag) bool {
	_, ok := s[flag]
	return ok
}

// Intersects сообщает, есть ли у множеств общий флаг.
func (s RiskFlagSet) Intersects(other RiskFlagSet) bool {
	for flag := range other {
		if s.Has(flag) {
			return true
		}
	}
	return false
}

// Sorted возвращает флаги в стабильном порядке для вывода.
func (s RiskFlagSet) Sorted() []RiskFlag {
	out := make([]RiskFlag, 0, len(s))
	for flag := range s {
		out = append(out, flag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ReplyDraft описывает один вариант ответа.
type ReplyDraft struct {
	Variant string
	Text    string
}

// Opportunity описывает пост, прошедший все фильтры и готовый к ручной проверке.
type Opportunity struct {
	RunID       string
	URL         string
	Type        string
	Subreddit   string
	Title       string
	Author      string
	CreatedAt   time.Time
	Upvotes     int
	Score       ScoreBreakdown
	RiskFlags   RiskFlagSet
	FitReasons  []string
	ReplyDrafts []ReplyDraft
	IncludeLink bool
	ReplyNotes  string
}

// TimeWindow задаёт окно свежести для поиска на площадке.
type TimeWindow string

const (
	WindowDay   TimeWindow = "day"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
)

// WindowForDays подбирает минимальное окно поиска, покрывающее days дней.
func WindowForDays(days int) TimeWindow {
	switch {
	case days <= 1:
		return WindowDay
	case days <= 7:
		return WindowWeek
	default:
		return WindowMonth
	}
}

// Run описывает один запуск поиска.
type Run struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	Opportunities []Opportunity
}
