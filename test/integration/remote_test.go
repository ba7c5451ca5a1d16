//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

type remotePost struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// fakeRemote is an in-memory stand-in for the JSONPlaceholder posts API.
type fakeRemote struct {
	mu      sync.Mutex
	posts   []remotePost
	created []remotePost
	down    bool
	hold    chan struct{}

	server *httptest.Server
}

func newFakeRemote() *fakeRemote {
	f := &fakeRemote{}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))

	return f
}

func (f *fakeRemote) URL() string { return f.server.URL }

func (f *fakeRemote) Close() {
	f.release()
	f.server.Close()
}

func (f *fakeRemote) seed(title, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.posts = append(f.posts, remotePost{ID: len(f.posts) + 1, UserID: 1, Title: title, Body: body})
}

func (f *fakeRemote) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.down = down
}

// holdListings makes listing requests block until release is called.
func (f *fakeRemote) holdListings() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hold = make(chan struct{})
}

func (f *fakeRemote) release() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hold != nil {
		close(f.hold)
		f.hold = nil
	}
}

func (f *fakeRemote) createdTitles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	titles := make([]string, 0, len(f.created))
	for _, p := range f.created {
		titles = append(titles, p.Title)
	}

	return titles
}

func (f *fakeRemote) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	down := f.down
	hold := f.hold
	f.mu.Unlock()

	if down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodPost:
		var p remotePost
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		// JSONPlaceholder always answers 101 and never stores the post.
		p.ID = 101
		f.created = append(f.created, p)
		f.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)

	case http.MethodGet:
		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		f.mu.Lock()
		posts := append([]remotePost(nil), f.posts...)
		f.mu.Unlock()

		if limit, err := strconv.Atoi(r.URL.Query().Get("_limit")); err == nil && limit < len(posts) {
			posts = posts[:limit]
		}

		_ = json.NewEncoder(w).Encode(posts)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
