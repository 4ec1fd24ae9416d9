package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/planner"
	"github.com/maheshrc27/content-planner/internal/publisher"
	"github.com/maheshrc27/content-planner/internal/transfer"
	"github.com/maheshrc27/content-planner/pkg/utils"
)

const testSecret = "test-secret"

var (
	fixedNow = time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
	taxiPage = models.Page{ID: "fp-123go", Name: "123 GO", Niche: "Taxi"}
)

type harness struct {
	posts     *fakePostRepo
	pages     *fakePageRepo
	history   *fakeHistoryRepo
	postSvc   *postService
	pageSvc   PageService
	publish   PublishService
	publisher publisher.Publisher
}

func newHarness(t *testing.T, posts ...models.Post) *harness {
	t.Helper()

	h := &harness{
		posts:   newFakePostRepo(posts...),
		pages:   newFakePageRepo(taxiPage),
		history: &fakeHistoryRepo{},
	}
	h.publisher = publisher.New(publisher.Settings{Mode: models.PublishModeSimulated}, nil, publisher.Options{
		Now: func() time.Time { return fixedNow },
	})

	ps := NewPostService(h.posts, h.pages, nil, time.UTC).(*postService)
	ps.now = func() time.Time { return fixedNow }
	h.postSvc = ps
	h.pageSvc = NewPageService(h.pages, h.publisher, testSecret)
	h.publish = NewPublishService(ps, h.pageSvc, h.posts, h.history, h.publisher, time.UTC)
	return h
}

func (h *harness) connect(t *testing.T) {
	t.Helper()
	_, err := h.pageSvc.Connect(context.Background(), taxiPage.ID, "sim-page-123go")
	require.NoError(t, err)
}

func TestCreatePostDefaults(t *testing.T) {
	h := newHarness(t)

	post, err := h.postSvc.CreatePost(context.Background(), taxiPage.ID, planner.PostSeed{Topic: "Launch"})
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "2024-05-10", post.PostDate)
	assert.Equal(t, "09:00", post.TimeSlot)
	assert.Equal(t, models.PostStatusIdea, post.Status)
	assert.Equal(t, models.PostFormatImage, post.Format)
	assert.Equal(t, models.PlatformFacebook, post.Platform)
	assert.Equal(t, models.PostGoalAwareness, post.Goal)
	assert.Empty(t, post.Assets)

	stored, err := h.postSvc.PostInfo(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch", stored.Topic)
}

func TestCreatePostRejections(t *testing.T) {
	h := newHarness(t)

	_, err := h.postSvc.CreatePost(context.Background(), "missing", planner.PostSeed{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = h.postSvc.CreatePost(context.Background(), taxiPage.ID, planner.PostSeed{PostDate: "2024-02-30"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateFromTemplate(t *testing.T) {
	h := newHarness(t)

	post, err := h.postSvc.CreateFromTemplate(context.Background(), taxiPage.ID, "tpl-2")
	require.NoError(t, err)

	assert.Equal(t, "[Draft] Meme / Humor", post.Topic)
	assert.Equal(t, "Structure: Everyday situation -> Brand twist -> Question/CTA", post.MainIdea)
	assert.Contains(t, post.CaptionDraft, "123 GO")

	_, err = h.postSvc.CreateFromTemplate(context.Background(), taxiPage.ID, "tpl-9")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateFromIdeaDefaultTopic(t *testing.T) {
	h := newHarness(t)

	post, err := h.postSvc.CreateFromIdea(context.Background(), taxiPage.ID, "Compare fares", " ")
	require.NoError(t, err)
	assert.Equal(t, DefaultIdeaTopic, post.Topic)
	assert.Equal(t, "Compare fares", post.MainIdea)
}

func TestListFilters(t *testing.T) {
	h := newHarness(t,
		models.Post{ID: "a", PageID: taxiPage.ID, PostDate: "2024-05-01", Format: models.PostFormatVideo, Status: models.PostStatusIdea},
		models.Post{ID: "b", PageID: taxiPage.ID, PostDate: "2024-06-01", Format: models.PostFormatVideo, Status: models.PostStatusDraft},
		models.Post{ID: "c", PageID: taxiPage.ID, PostDate: "2024-05-20", Format: models.PostFormatImage, Status: models.PostStatusIdea},
		models.Post{ID: "d", PageID: "other", PostDate: "2024-05-20", Format: models.PostFormatImage},
	)
	ctx := context.Background()

	all, err := h.postSvc.List(ctx, taxiPage.ID, PostFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	may, err := h.postSvc.List(ctx, taxiPage.ID, PostFilter{Month: "2024-05"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, postIDs(may))

	videos, err := h.postSvc.List(ctx, taxiPage.ID, PostFilter{Format: models.PostFormatVideo, Status: models.PostStatusDraft})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, postIDs(videos))

	_, err = h.postSvc.List(ctx, taxiPage.ID, PostFilter{Month: "May"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	cal, err := h.postSvc.Calendar(ctx, taxiPage.ID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, postIDs(cal))
}

func postIDs(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestUpdateReplacesAssets(t *testing.T) {
	h := newHarness(t, models.Post{
		ID:       "p-1",
		PageID:   taxiPage.ID,
		PostDate: "2024-05-10",
		Status:   models.PostStatusIdea,
		Assets:   []models.Asset{{ID: "keep", PageID: taxiPage.ID, RelatedPostID: "p-1", Type: models.AssetTypeLink, URLOrPath: "https://example.com"}},
	})

	topic := "New topic"
	badDate := "2024-13-01"
	assets := []transfer.AssetInput{
		{Type: "IMAGE", URLOrPath: "https://cdn.example.com/a.png"},
		{ID: "keep", Type: "LINK", URLOrPath: "https://example.com"},
	}

	post, err := h.postSvc.Update(context.Background(), "p-1", &transfer.PostUpdate{Topic: &topic, Assets: &assets})
	require.NoError(t, err)

	assert.Equal(t, "New topic", post.Topic)
	require.Len(t, post.Assets, 2)
	assert.NotEmpty(t, post.Assets[0].ID)
	assert.Equal(t, "keep", post.Assets[1].ID)
	for i, a := range post.Assets {
		assert.Equal(t, "p-1", a.RelatedPostID)
		assert.Equal(t, i, a.Position)
	}

	_, err = h.postSvc.Update(context.Background(), "p-1", &transfer.PostUpdate{PostDate: &badDate})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateRejectsForeignAsset(t *testing.T) {
	foreign := models.Asset{ID: "a-b", PageID: "other-page", RelatedPostID: "p-2", Type: models.AssetTypeImage, URLOrPath: "https://cdn.example.com/b.png"}
	h := newHarness(t,
		models.Post{ID: "p-1", PageID: taxiPage.ID, PostDate: "2024-05-10", Status: models.PostStatusIdea},
		models.Post{ID: "p-2", PageID: "other-page", PostDate: "2024-05-11", Status: models.PostStatusIdea, Assets: []models.Asset{foreign}},
	)

	assets := []transfer.AssetInput{{ID: "a-b", Type: "IMAGE", URLOrPath: "https://cdn.example.com/b.png"}}
	_, err := h.postSvc.Update(context.Background(), "p-1", &transfer.PostUpdate{Assets: &assets})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	mine, err := h.postSvc.PostInfo(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Empty(t, mine.Assets)

	theirs, err := h.postSvc.PostInfo(context.Background(), "p-2")
	require.NoError(t, err)
	assert.Equal(t, []models.Asset{foreign}, theirs.Assets)
}

func TestSetStatusKeepsLink(t *testing.T) {
	h := newHarness(t, models.Post{
		ID: "p-1", PageID: taxiPage.ID, Status: models.PostStatusPublished, PostLink: "https://facebook.com/1",
	})

	post, err := h.postSvc.SetStatus(context.Background(), "p-1", models.PostStatusDraft)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Equal(t, "https://facebook.com/1", post.PostLink)

	_, err = h.postSvc.SetStatus(context.Background(), "p-1", "ARCHIVED")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = h.postSvc.SetStatus(context.Background(), "nope", models.PostStatusDraft)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConnectStoresEncryptedToken(t *testing.T) {
	h := newHarness(t)
	h.connect(t)

	page, err := h.pageSvc.PageInfo(context.Background(), taxiPage.ID)
	require.NoError(t, err)
	assert.True(t, page.IsConnected)
	assert.Equal(t, "sim-page-123go", page.ExternalTargetID)
	assert.NotEqual(t, "sim_token_123go", page.AccessToken)

	token, err := h.pageSvc.Credential(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "sim_token_123go", token)

	_, err = h.pageSvc.Connect(context.Background(), taxiPage.ID, "unknown")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	page, err = h.pageSvc.Disconnect(context.Background(), taxiPage.ID)
	require.NoError(t, err)
	assert.False(t, page.IsConnected)
}

func TestPublishSimulated(t *testing.T) {
	h := newHarness(t, models.Post{
		ID: "p-1", PageID: taxiPage.ID, Status: models.PostStatusReview, CaptionDraft: "Hello",
	})
	h.connect(t)

	post, err := h.publish.Publish(context.Background(), "p-1")
	require.NoError(t, err)

	id := "sim_p-1_" + "1715355000000"
	assert.Equal(t, models.PostStatusPublished, post.Status)
	assert.Equal(t, "https://facebook.com/simulated/posts/"+id, post.PostLink)

	stored, _ := h.posts.GetByID(context.Background(), "p-1")
	assert.Equal(t, models.PostStatusPublished, stored.Status)
	assert.Equal(t, post.PostLink, stored.PostLink)

	history, err := h.publish.History(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Succeeded())
	assert.Equal(t, id, history[0].ExternalPostID)
	assert.Equal(t, models.PublishModeSimulated, history[0].Mode)
}

func TestPublishRequiresConnection(t *testing.T) {
	h := newHarness(t, models.Post{ID: "p-1", PageID: taxiPage.ID, Status: models.PostStatusReview})

	_, err := h.publish.Publish(context.Background(), "p-1")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.Len(t, h.history.records, 1)
	assert.Equal(t, "validation", h.history.records[0].ErrorKind)
}

func TestPublishLocalImageLeavesPostUnchanged(t *testing.T) {
	h := newHarness(t, models.Post{
		ID: "p-1", PageID: taxiPage.ID, Status: models.PostStatusReview,
		Assets: []models.Asset{{ID: "a", Type: models.AssetTypeImage, URLOrPath: "blob:http://localhost/123"}},
	})
	h.connect(t)

	_, err := h.publish.Publish(context.Background(), "p-1")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	stored, _ := h.posts.GetByID(context.Background(), "p-1")
	assert.Equal(t, models.PostStatusReview, stored.Status)
	assert.Empty(t, stored.PostLink)
	require.Len(t, h.history.records, 1)
	assert.False(t, h.history.records[0].Succeeded())
}

func TestPublishSurvivesCancelledCaller(t *testing.T) {
	h := newHarness(t, models.Post{ID: "p-1", PageID: taxiPage.ID, Status: models.PostStatusDraft})
	h.connect(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	post, err := h.publish.Publish(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, post.Status)
}

func TestPublishAt(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	s := NewPublishService(nil, nil, nil, nil, nil, loc)

	at, err := s.PublishAt(models.Post{PostDate: "2024-05-11", TimeSlot: "19:30"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 11, 19, 30, 0, 0, loc), at)

	at, err = s.PublishAt(models.Post{PostDate: "2024-05-11", TimeSlot: "evening"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 11, 9, 0, 0, 0, loc), at)

	_, err = s.PublishAt(models.Post{PostDate: "tomorrow"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDashboardOverviewAndAcceptGap(t *testing.T) {
	h := newHarness(t,
		models.Post{ID: "ready", PageID: taxiPage.ID, PostDate: "2024-05-10", Status: models.PostStatusDraft},
		models.Post{ID: "idea", PageID: taxiPage.ID, PostDate: "2024-05-12", Status: models.PostStatusIdea},
		models.Post{ID: "done", PageID: taxiPage.ID, PostDate: "2024-05-08", Status: models.PostStatusPublished},
	)
	suggester := &fakeSuggester{}
	d := NewDashboardService(h.pages, h.posts, planner.NewAdvisors(suggester), h.postSvc,
		models.PublishModeSimulated, 5, time.UTC).(*dashboardService)
	d.now = func() time.Time { return fixedNow }

	overview, err := d.Overview(context.Background(), taxiPage.ID)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-10", overview.Today)
	assert.Equal(t, []string{"ready"}, postIDs(overview.Buckets.ReadyToPost))
	assert.Equal(t, []string{"idea"}, postIDs(overview.Buckets.NeedsContent))
	assert.Equal(t, []string{"2024-05-11", "2024-05-13", "2024-05-14", "2024-05-15", "2024-05-16", "2024-05-17"},
		overview.Buckets.CalendarGaps)
	assert.Equal(t, 20.0, overview.Buckets.WeeklyProgress)
	assert.Equal(t, "Topic for 2024-05-11", overview.GapSuggestions["2024-05-11"])
	assert.Len(t, suggester.calls, 6)

	_, err = d.Overview(context.Background(), taxiPage.ID)
	require.NoError(t, err)
	assert.Len(t, suggester.calls, 6)

	post, err := d.AcceptGap(context.Background(), taxiPage.ID, "2024-05-11")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-11", post.PostDate)
	assert.Equal(t, "Topic for 2024-05-11", post.Topic)
	assert.Equal(t, models.PostStatusIdea, post.Status)
}

func TestPlatformTokenLifecycle(t *testing.T) {
	creds := &fakeCredentialRepo{}
	s := NewPlatformService(publisher.Settings{Mode: models.PublishModeLive, GraphAPIVersion: "v19.0"}, testSecret, creds).(*platformService)
	s.now = func() time.Time { return fixedNow }

	token, err := s.UserAccessToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)

	sealed, err := utils.Encrypt([]byte("user-token"), utils.DeriveKey(testSecret))
	require.NoError(t, err)
	creds.cred = &models.OperatorCredential{Provider: ProviderFacebook, AccessToken: sealed, TokenExpiresAt: fixedNow.Add(time.Hour)}

	token, err = s.UserAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-token", token)

	creds.cred.TokenExpiresAt = fixedNow.Add(-time.Hour)
	_, err = s.UserAccessToken(context.Background())
	assert.ErrorIs(t, err, apperr.ErrAuthentication)

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestPlatformCallbackRejections(t *testing.T) {
	s := NewPlatformService(publisher.Settings{Mode: models.PublishModeLive}, testSecret, &fakeCredentialRepo{})

	_, err := s.Callback(context.Background(), "", "", "user_denied")
	assert.ErrorIs(t, err, apperr.ErrAuthentication)

	_, err = s.Callback(context.Background(), "code", "forged-state", "")
	assert.ErrorIs(t, err, apperr.ErrAuthentication)

	session, err := utils.GenerateToken(testSecret, SessionSubject, SessionPurpose, time.Hour)
	require.NoError(t, err)
	_, err = s.Callback(context.Background(), "code", session, "")
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
}

func TestAuthURLOnlyInLiveMode(t *testing.T) {
	sim := NewPlatformService(publisher.Settings{Mode: models.PublishModeSimulated}, testSecret, &fakeCredentialRepo{})
	_, err := sim.GetAuthURL(context.Background())
	assert.ErrorIs(t, err, apperr.ErrConfiguration)

	live := NewPlatformService(publisher.Settings{
		Mode: models.PublishModeLive, AppID: "1234", RedirectURL: "https://planner.example.com/auth/facebook/callback",
	}, testSecret, &fakeCredentialRepo{})
	u, err := live.GetAuthURL(context.Background())
	require.NoError(t, err)
	assert.Contains(t, u, "client_id=1234")
	assert.Contains(t, u, "pages_manage_posts")
	assert.Contains(t, u, "state=")
}

func TestOperatorLogin(t *testing.T) {
	s := NewAuthService(testSecret, "hunter2")

	token, err := s.Login(context.Background(), "hunter2")
	require.NoError(t, err)
	claims, err := utils.ValidateToken(testSecret, token, SessionPurpose)
	require.NoError(t, err)
	assert.Equal(t, SessionSubject, claims.Subject)

	_, err = s.Login(context.Background(), "wrong")
	assert.ErrorIs(t, err, apperr.ErrAuthentication)

	_, err = NewAuthService(testSecret, "").Login(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestAssetUpload(t *testing.T) {
	h := newHarness(t, models.Post{ID: "p-1", PageID: taxiPage.ID, Status: models.PostStatusDraft})
	store := &fakeStore{}
	s := NewAssetService(h.postSvc, store)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	post, err := s.Upload(context.Background(), "p-1", "Hero shot", formFile(t, "hero.png", png))
	require.NoError(t, err)

	require.Len(t, post.Assets, 1)
	a := post.Assets[0]
	assert.Equal(t, models.AssetTypeImage, a.Type)
	assert.Equal(t, "Hero shot", a.Description)
	assert.Equal(t, "https://media.example.com/"+store.keys[0], a.URLOrPath)
	assert.True(t, publisher.IsPublicReference(a.URLOrPath))

	_, err = s.Upload(context.Background(), "p-1", "", formFile(t, "notes.txt", []byte("plain text")))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func formFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}
