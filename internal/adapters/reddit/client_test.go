package reddit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"reddit-lead-finder/internal/domain"
)

const listingJSON = `{"data":{"children":[
	{"data":{"title":"Any good AI trading tool?","selftext":"need a scanner","subreddit":"algotrading","author":"trader","permalink":"/r/algotrading/comments/abc/any_good/","created_utc":1760700000.5,"score":12}},
	{"data":{"title":"gone","selftext":"","subreddit":"algotrading","author":"[deleted]","permalink":"/r/algotrading/comments/def/gone/","created_utc":1760600000,"score":4}}
]}}`

func newServer(t *testing.T, tokenCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/r/algotrading/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		q := r.URL.Query()
		if q.Get("q") != "trading bot" || q.Get("t") != "week" || q.Get("restrict_sr") != "1" || q.Get("limit") != "10" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(listingJSON))
	})
	mux.HandleFunc("/r/private/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	return httptest.NewServer(mux)
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Options{
		ClientID:     "id",
		ClientSecret: "secret",
		UserAgent:    "test-agent",
		AuthURL:      srv.URL + "/token",
		APIURL:       srv.URL,
	})
}

func TestSearchPostsMapsListing(t *testing.T) {
	var tokenCalls int32
	srv := newServer(t, &tokenCalls)
	defer srv.Close()
	client := newTestClient(srv)

	posts, err := client.SearchPosts(context.Background(), "algotrading", "trading bot", domain.WindowWeek)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("ожидали 2 поста, получили %d", len(posts))
	}
	first := posts[0]
	if first.URL != "https://reddit.com/r/algotrading/comments/abc/any_good/" {
		t.Fatalf("unexpected url: %s", first.URL)
	}
	if first.Body != "need a scanner" || first.Upvotes != 12 || first.Author != "trader" || first.Subreddit != "algotrading" {
		t.Fatalf("unexpected post: %+v", first)
	}
	if first.CreatedAt.Unix() != 1760700000 {
		t.Fatalf("unexpected created_at: %v", first.CreatedAt)
	}
	if posts[1].Author != "" || posts[1].AuthorOrDeleted() != domain.DeletedAuthor {
		t.Fatalf("удалённый автор должен стать пустым, получили %q", posts[1].Author)
	}

	if _, err := client.SearchPosts(context.Background(), "algotrading", "trading bot", domain.WindowWeek); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if atomic.LoadInt32(&tokenCalls) != 1 {
		t.Fatalf("токен должен кешироваться, запросов: %d", tokenCalls)
	}
}

func TestSearchPostsRefreshesExpiredToken(t *testing.T) {
	var tokenCalls int32
	srv := newServer(t, &tokenCalls)
	defer srv.Close()
	client := newTestClient(srv)
	current := time.Now()
	client.now = func() time.Time { return current }

	if _, err := client.Token(context.Background()); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	current = current.Add(2 * time.Hour)
	if _, err := client.Token(context.Background()); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if atomic.LoadInt32(&tokenCalls) != 2 {
		t.Fatalf("ожидали обновление токена, запросов: %d", tokenCalls)
	}
}

func TestSearchPostsErrors(t *testing.T) {
	var tokenCalls int32
	srv := newServer(t, &tokenCalls)
	defer srv.Close()

	if _, err := newTestClient(srv).SearchPosts(context.Background(), "private", "bot", domain.WindowWeek); err == nil {
		t.Fatal("ожидали ошибку для 403")
	}

	noCreds := NewClient(Options{AuthURL: srv.URL + "/token", APIURL: srv.URL})
	if _, err := noCreds.SearchPosts(context.Background(), "algotrading", "bot", domain.WindowWeek); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("ожидали ErrNoCredentials, получили %v", err)
	}

	badCreds := NewClient(Options{ClientID: "id", ClientSecret: "wrong", AuthURL: srv.URL + "/token", APIURL: srv.URL})
	if _, err := badCreds.Token(context.Background()); err == nil {
		t.Fatal("ожидали ошибку авторизации")
	}
}
