package search

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"reddit-lead-finder/internal/domain"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	posts  map[string][]domain.CandidatePost
	fail   map[string]bool
	calls  []string
	window domain.TimeWindow
}

func (f *fakeSource) SearchPosts(_ context.Context, subreddit, query string, window domain.TimeWindow) ([]domain.CandidatePost, error) {
	key := subreddit + "/" + query
	f.calls = append(f.calls, key)
	f.window = window
	if f.fail[key] {
		return nil, errors.New("403 forbidden")
	}
	return f.posts[key], nil
}

type memCache struct {
	data map[string][]byte
}

func (m *memCache) Once(key string, ttl time.Duration, fn func() error) error { return fn() }
func (m *memCache) Set(key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}
func (m *memCache) Get(key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func TestSelectSubreddits(t *testing.T) {
	got := SelectSubreddits(nil, []string{"r/stocks", "options"})
	for _, sub := range got {
		if sub == "stocks" || sub == "options" {
			t.Fatalf("сабреддит %s должен быть исключён", sub)
		}
	}
	if len(got) != len(DefaultSubreddits)-2 {
		t.Fatalf("ожидали %d сабреддитов, получили %d", len(DefaultSubreddits)-2, len(got))
	}

	got = SelectSubreddits([]string{"r/algotrading", " forex ", ""}, nil)
	if !reflect.DeepEqual(got, []string{"algotrading", "forex"}) {
		t.Fatalf("unexpected subreddits: %v", got)
	}
}

func TestCandidatesSkipsFailuresAndOldPosts(t *testing.T) {
	src := &fakeSource{
		posts: map[string][]domain.CandidatePost{
			"algotrading/bot": {
				{URL: "https://reddit.com/1", CreatedAt: now.Add(-time.Hour)},
				{URL: "https://reddit.com/old", CreatedAt: now.Add(-10 * 24 * time.Hour)},
			},
			"forex/bot": {{URL: "https://reddit.com/2", CreatedAt: now}},
		},
		fail: map[string]bool{"algotrading/scanner": true},
	}
	svc := NewService(src, nil, zerolog.Nop())
	svc.SetClock(func() time.Time { return now })

	var urls []string
	for post := range svc.Candidates(context.Background(), Request{
		Subreddits:    []string{"algotrading", "forex"},
		Queries:       []string{"bot", "scanner"},
		DateRangeDays: 7,
	}) {
		urls = append(urls, post.URL)
	}
	if !reflect.DeepEqual(urls, []string{"https://reddit.com/1", "https://reddit.com/2"}) {
		t.Fatalf("unexpected posts: %v", urls)
	}
	if len(src.calls) != 4 {
		t.Fatalf("ожидали 4 запроса, получили %d", len(src.calls))
	}
	if src.window != domain.WindowWeek {
		t.Fatalf("ожидали окно week, получили %s", src.window)
	}
}

func TestCandidatesIsLazy(t *testing.T) {
	src := &fakeSource{posts: map[string][]domain.CandidatePost{
		"a/q": {{URL: "https://reddit.com/1", CreatedAt: now}},
		"b/q": {{URL: "https://reddit.com/2", CreatedAt: now}},
	}}
	svc := NewService(src, nil, zerolog.Nop())
	svc.SetClock(func() time.Time { return now })
	for range svc.Candidates(context.Background(), Request{Subreddits: []string{"a", "b"}, Queries: []string{"q"}}) {
		break
	}
	if len(src.calls) != 1 {
		t.Fatalf("ожидали ленивый обход, выполнено запросов: %d", len(src.calls))
	}
}

func TestCandidatesSkipsSeen(t *testing.T) {
	src := &fakeSource{posts: map[string][]domain.CandidatePost{
		"a/q": {{URL: "https://reddit.com/1", CreatedAt: now}, {URL: "https://reddit.com/2", CreatedAt: now}},
	}}
	cache := &memCache{data: map[string][]byte{}}
	svc := NewService(src, cache, zerolog.Nop())
	svc.SetClock(func() time.Time { return now })
	if err := svc.MarkSeen([]domain.Opportunity{{URL: "https://reddit.com/1", RunID: "run"}}, time.Hour); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	var urls []string
	for post := range svc.Candidates(context.Background(), Request{Subreddits: []string{"a"}, Queries: []string{"q"}}) {
		urls = append(urls, post.URL)
	}
	if !reflect.DeepEqual(urls, []string{"https://reddit.com/2"}) {
		t.Fatalf("unexpected posts: %v", urls)
	}
}
