package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/maheshrc27/content-planner/internal/models"
)

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]models.Post
	order []string
}

func newFakePostRepo(posts ...models.Post) *fakePostRepo {
	r := &fakePostRepo{posts: make(map[string]models.Post)}
	for _, p := range posts {
		r.put(p)
	}
	return r
}

func (r *fakePostRepo) put(p models.Post) {
	if _, ok := r.posts[p.ID]; !ok {
		r.order = append([]string{p.ID}, r.order...)
	}
	r.posts[p.ID] = p.Clone()
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	p = p.Clone()
	return &p, nil
}

func (r *fakePostRepo) Create(_ context.Context, _ *sql.Tx, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(*post)
	return nil
}

func (r *fakePostRepo) Update(_ context.Context, _ *sql.Tx, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(*post)
	return nil
}

func (r *fakePostRepo) ListByPageID(_ context.Context, pageID string) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Post{}
	for _, id := range r.order {
		if p := r.posts[id]; p.PageID == pageID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListByDateRange(ctx context.Context, pageID, from, to string) ([]models.Post, error) {
	all, _ := r.ListByPageID(ctx, pageID)
	out := []models.Post{}
	for _, p := range all {
		if p.PostDate >= from && p.PostDate <= to {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PostDate < out[j].PostDate })
	return out, nil
}

func (r *fakePostRepo) UpdatePostStatus(_ context.Context, status models.PostStatus, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.posts[postID]
	p.Status = status
	r.posts[postID] = p
	return nil
}

func (r *fakePostRepo) MarkPublished(_ context.Context, postID, postLink string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.posts[postID]
	p.Status = models.PostStatusPublished
	p.PostLink = postLink
	r.posts[postID] = p
	return nil
}

func (r *fakePostRepo) CheckByPageID(_ context.Context, postID, pageID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.posts[postID].PageID == pageID, nil
}

func (r *fakePostRepo) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

type fakePageRepo struct {
	mu    sync.Mutex
	pages map[string]models.Page
}

func newFakePageRepo(pages ...models.Page) *fakePageRepo {
	r := &fakePageRepo{pages: make(map[string]models.Page)}
	for _, p := range pages {
		r.pages[p.ID] = p
	}
	return r
}

func (r *fakePageRepo) Create(_ context.Context, page *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[page.ID] = *page
	return nil
}

func (r *fakePageRepo) GetByID(_ context.Context, id string) (*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePageRepo) List(_ context.Context) ([]models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Page{}
	for _, p := range r.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePageRepo) Update(_ context.Context, page *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[page.ID] = *page
	return nil
}

func (r *fakePageRepo) SetConnection(_ context.Context, id, targetID, encryptedToken string, connected bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pages[id]
	p.ExternalTargetID = targetID
	p.AccessToken = encryptedToken
	p.IsConnected = connected
	r.pages[id] = p
	return nil
}

func (r *fakePageRepo) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, id)
	return nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	records []models.PostingHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, ph *models.PostingHistory) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ph.ID = int64(len(r.records) + 1)
	r.records = append(r.records, *ph)
	return ph.ID, nil
}

func (r *fakeHistoryRepo) ListByPostID(_ context.Context, postID string) ([]models.PostingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.PostingHistory{}
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].PostID == postID {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

type fakeCredentialRepo struct {
	cred *models.OperatorCredential
}

func (r *fakeCredentialRepo) Upsert(_ context.Context, c *models.OperatorCredential) error {
	cp := *c
	r.cred = &cp
	return nil
}

func (r *fakeCredentialRepo) GetByProvider(_ context.Context, provider string) (*models.OperatorCredential, error) {
	if r.cred == nil || r.cred.Provider != provider {
		return nil, nil
	}
	cp := *r.cred
	return &cp, nil
}

func (r *fakeCredentialRepo) Remove(_ context.Context, _ string) error {
	r.cred = nil
	return nil
}

type fakeStore struct {
	keys []string
	err  error
}

func (s *fakeStore) Upload(_ context.Context, key string, _ []byte, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.keys = append(s.keys, key)
	return nil
}

func (s *fakeStore) PublicURL(key string) string {
	return "https://media.example.com/" + key
}

type fakeSuggester struct {
	calls []string
}

func (f *fakeSuggester) SuggestTopic(_ context.Context, _ models.Page, date string) (string, error) {
	f.calls = append(f.calls, date)
	return "Topic for " + strings.TrimSpace(date), nil
}
