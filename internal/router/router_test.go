package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/handler"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	cronSecret = "cron-secret"
	userToken  = "user-token"
)

type fixture struct {
	feeds     *MockFeedService
	posts     *MockPostService
	users     *MockUserService
	bookmarks *MockBookmarkService
	history   *MockHistoryService
	features  *MockFeatureService
	ingest    *MockIngestService
	proxy     *MockImageProxy
	debug     *MockDebugService
	router    *chi.Mux
}

func allSections() map[string]bool {
	return map[string]bool{
		"categories": true, "trending": true, "breaking": true, "home": true, "articles": true,
		"jobs": true, "bookmarks": true, "profile": true, "search": true,
	}
}

func newFixture(t *testing.T, configure func(*Options)) *fixture {
	t.Helper()
	logger := zap.NewNop()
	f := &fixture{
		feeds:     new(MockFeedService),
		posts:     new(MockPostService),
		users:     new(MockUserService),
		bookmarks: new(MockBookmarkService),
		history:   new(MockHistoryService),
		features:  new(MockFeatureService),
		ingest:    new(MockIngestService),
		proxy:     new(MockImageProxy),
		debug:     new(MockDebugService),
	}
	opts := Options{
		Sections:   allSections(),
		CronSecret: cronSecret,
		Tokens:     f.users,
		Logger:     logger,
	}
	if configure != nil {
		configure(&opts)
	}
	f.users.On("ParseToken", mock.Anything, userToken).Return(&usecase.Claims{UserID: "u1", Role: entity.RoleReader}, nil).Maybe()

	f.router = NewRouter(Handlers{
		Content:  handler.NewContentHandler(f.feeds, nil, opts.Sections, logger),
		Post:     handler.NewPostHandler(f.posts, logger),
		User:     handler.NewUserHandler(f.users, logger),
		Bookmark: handler.NewBookmarkHandler(f.bookmarks, f.history, logger),
		Cron:     handler.NewCronHandler(f.features, f.ingest, logger),
		Debug:    handler.NewDebugHandler(f.debug, logger),
		Proxy:    handler.NewProxyHandler(f.proxy, logger),
	}, opts)
	return f
}

func (f *fixture) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestArticlesRoutes(t *testing.T) {
	items := []*entity.FeedItem{{ID: "a", Title: "First"}}

	t.Run("latest with limit", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("FetchAllContent", mock.Anything, 5).Return(items, nil).Once()

		rec := f.do(http.MethodGet, "/api/articles?limit=5", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		articles := decode(t, rec)["articles"].([]interface{})
		assert.Equal(t, "a", articles[0].(map[string]interface{})["id"])
		f.feeds.AssertExpectations(t)
	})

	t.Run("single category", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("FetchByCategory", mock.Anything, "Sports", 10).Return(items, nil).Once()

		rec := f.do(http.MethodGet, "/api/articles?category=Sports", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		f.feeds.AssertExpectations(t)
	})

	t.Run("several categories", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("FetchByCategories", mock.Anything, []string{"Tech", "Science"}, 10).Return(items).Once()

		rec := f.do(http.MethodGet, "/api/articles?categories=Tech,%20Science,", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		f.feeds.AssertExpectations(t)
	})

	t.Run("article with related", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("FetchSingleArticle", mock.Anything, "a").Return(items[0], nil).Once()
		f.feeds.On("RelatedArticles", mock.Anything, items[0], usecase.DefaultRelatedLimit).Return([]*entity.FeedItem{{ID: "b"}}).Once()

		rec := f.do(http.MethodGet, "/api/articles/a", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "First", body["article"].(map[string]interface{})["title"])
		assert.Len(t, body["related"], 1)
	})

	t.Run("missing article", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("FetchSingleArticle", mock.Anything, "nope").Return(nil, fmt.Errorf("wrapped: %w", repository.ErrNotFound)).Once()

		rec := f.do(http.MethodGet, "/api/articles/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
	})

	t.Run("store rejects credentials", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("FetchSingleArticle", mock.Anything, "a1").Return(nil, fmt.Errorf("wrapped: %w", repository.ErrUnauthenticated)).Once()

		rec := f.do(http.MethodGet, "/api/articles/a1", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("store denies access", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("FetchSingleArticle", mock.Anything, "a1").Return(nil, fmt.Errorf("wrapped: %w", repository.ErrPermissionDenied)).Once()

		rec := f.do(http.MethodGet, "/api/articles/a1", "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("store failure is hidden", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("FetchAllContent", mock.Anything, 10).Return(nil, fmt.Errorf("mongo: connection reset")).Once()

		rec := f.do(http.MethodGet, "/api/articles", "", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "mongo")
	})
}

func TestFeedRoutes(t *testing.T) {
	tests := []struct {
		path   string
		method string
		limit  int
	}{
		{"/api/feeds/breaking", "FetchBreakingNews", usecase.DefaultBreakingLimit},
		{"/api/feeds/trending?limit=7", "FetchTrendingNews", 7},
		{"/api/feeds/home?limit=abc", "FetchHomeFeed", usecase.DefaultHomeLimit},
		{"/api/feeds/best-of-week?limit=5000", "FetchBestOfWeek", 100},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFixture(t, nil)
			f.feeds.On(tt.method, mock.Anything, tt.limit).Return([]*entity.FeedItem{}).Once()

			rec := f.do(http.MethodGet, tt.path, "", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"articles":[]}`, rec.Body.String())
			f.feeds.AssertExpectations(t)
		})
	}
}

func TestCategoryAndSearchRoutes(t *testing.T) {
	t.Run("known slug", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("FetchByCategory", mock.Anything, "Sports", usecase.DefaultCategoryLimit).Return([]*entity.FeedItem{}, nil).Once()

		rec := f.do(http.MethodGet, "/api/categories/sports", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Sports", decode(t, rec)["category"].(map[string]interface{})["name"])
	})

	t.Run("unknown slug", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(http.MethodGet, "/api/categories/astrology", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("catalogue", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(http.MethodGet, "/api/categories", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec)["categories"], len(entity.Categories().All()))
	})

	t.Run("search", func(t *testing.T) {
		f := newFixture(t, nil)
		f.feeds.On("SearchArticles", mock.Anything, "rates", 20).Return([]*entity.FeedItem{}, nil).Once()

		rec := f.do(http.MethodGet, "/api/search?q=rates", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "rates", decode(t, rec)["query"])
	})

	t.Run("disabled section", func(t *testing.T) {
		f := newFixture(t, func(o *Options) {
			o.Sections = allSections()
			o.Sections["search"] = false
		})
		rec := f.do(http.MethodGet, "/api/search?q=rates", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		f.feeds.AssertNotCalled(t, "SearchArticles", mock.Anything, mock.Anything, mock.Anything)

		rec = f.do(http.MethodGet, "/api/features", "", nil)
		assert.Equal(t, false, decode(t, rec)["features"].(map[string]interface{})["search"])
	})
}

func TestPostRoutes(t *testing.T) {
	body := `{"title":"Council approves budget","content":"...","category":"politics"}`

	t.Run("requires a token", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(http.MethodPost, "/api/posts", body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		f := newFixture(t, nil)
		f.posts.On("CreatePost", mock.Anything, usecase.CreatePostInput{
			UserID: "u1", Title: "Council approves budget", Content: "...", Category: "politics",
		}).Return(&entity.FeedItem{ID: "p1"}, nil).Once()

		rec := f.do(http.MethodPost, "/api/posts", body, bearer(userToken))
		assert.Equal(t, http.StatusCreated, rec.Code)
		f.posts.AssertExpectations(t)
	})

	t.Run("validation problems listed", func(t *testing.T) {
		f := newFixture(t, nil)
		verr := &entity.ValidationError{Problems: []string{"Title too short (minimum 10 characters)", "Content contains banned word: spam"}}
		f.posts.On("CreatePost", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: %w", usecase.ErrValidation, verr)).Once()

		rec := f.do(http.MethodPost, "/api/posts", body, bearer(userToken))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Len(t, decode(t, rec)["errors"], 2)
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(http.MethodPost, "/api/posts", "{", bearer(userToken))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthRoutes(t *testing.T) {
	t.Run("register conflict", func(t *testing.T) {
		f := newFixture(t, nil)
		f.users.On("Register", mock.Anything, usecase.RegisterInput{Email: "a@b.io", Password: "longpassword"}).
			Return(nil, fmt.Errorf("wrapped: %w", repository.ErrDuplicate)).Once()

		rec := f.do(http.MethodPost, "/api/auth/register", `{"email":"a@b.io","password":"longpassword"}`, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("login failure", func(t *testing.T) {
		f := newFixture(t, nil)
		f.users.On("Login", mock.Anything, "a@b.io", "nope").Return(nil, usecase.ErrInvalidCredentials).Once()

		rec := f.do(http.MethodPost, "/api/auth/login", `{"email":"a@b.io","password":"nope"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout revokes the presented token", func(t *testing.T) {
		f := newFixture(t, nil)
		f.users.On("Logout", mock.Anything, mock.MatchedBy(func(c *usecase.Claims) bool { return c.UserID == "u1" })).Return(nil).Once()

		rec := f.do(http.MethodPost, "/api/auth/logout", "", bearer(userToken))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.users.AssertExpectations(t)
	})

	t.Run("profile", func(t *testing.T) {
		f := newFixture(t, nil)
		f.users.On("GetProfile", mock.Anything, "u1").Return(&usecase.Profile{
			User:  &entity.User{ID: "u1"},
			Stats: entity.ProfileStats{Bookmarks: 2, History: 5},
		}, nil).Once()

		rec := f.do(http.MethodGet, "/api/profile", "", bearer(userToken))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2.0, decode(t, rec)["stats"].(map[string]interface{})["bookmarks"])
	})
}

func TestBookmarkRoutes(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		f := newFixture(t, nil)
		f.bookmarks.On("AddBookmark", mock.Anything, "u1", "c1").Return(nil).Once()

		rec := f.do(http.MethodPost, "/api/bookmarks", `{"article_id":"c1"}`, bearer(userToken))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("remove missing", func(t *testing.T) {
		f := newFixture(t, nil)
		f.bookmarks.On("RemoveBookmark", mock.Anything, "u1", "c9").Return(repository.ErrNotFound).Once()

		rec := f.do(http.MethodDelete, "/api/bookmarks/c9", "", bearer(userToken))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("history", func(t *testing.T) {
		f := newFixture(t, nil)
		f.history.On("ListHistory", mock.Anything, "u1", usecase.DefaultHistoryLimit).Return([]*entity.FeedItem{{ID: "c1"}}, nil).Once()
		f.history.On("RecordRead", mock.Anything, "u1", "c1").Return(nil).Once()

		rec := f.do(http.MethodGet, "/api/history", "", bearer(userToken))
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = f.do(http.MethodPost, "/api/history", `{"article_id":"c1"}`, bearer(userToken))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.history.AssertExpectations(t)
	})
}

func TestCronRoutes(t *testing.T) {
	cronPaths := []struct{ method, path string }{
		{http.MethodGet, "/api/update-features"},
		{http.MethodPost, "/api/update-features"},
		{http.MethodGet, "/api/cron/update-features"},
		{http.MethodPost, "/api/cron"},
		{http.MethodGet, "/api/automation"},
		{http.MethodPost, "/api/migrate-features"},
	}
	for _, p := range cronPaths {
		t.Run("unauthorized "+p.method+" "+p.path, func(t *testing.T) {
			f := newFixture(t, nil)
			rec := f.do(p.method, p.path, "", bearer("wrong"))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}

	t.Run("refresh", func(t *testing.T) {
		f := newFixture(t, nil)
		f.features.On("Refresh", mock.Anything, mock.Anything).Return(&events.FeaturesUpdated{Scanned: 12, Updated: 3, BreakingSet: 2}, nil).Once()

		rec := f.do(http.MethodGet, "/api/cron/update-features", "", bearer(cronSecret))
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, 3.0, body["updated"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("refresh failure", func(t *testing.T) {
		f := newFixture(t, nil)
		f.features.On("Refresh", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("bulk write failed")).Once()

		rec := f.do(http.MethodGet, "/api/update-features", "", bearer(cronSecret))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, false, decode(t, rec)["success"])
	})

	t.Run("set features", func(t *testing.T) {
		f := newFixture(t, nil)
		f.features.On("SetFeatures", mock.Anything, "x", map[string]bool{"Breaking News": true}).
			Return(map[string]bool{"breaking_news": true}, nil).Once()

		rec := f.do(http.MethodPost, "/api/update-features", `{"id":"x","features":{"Breaking News":true}}`, bearer(cronSecret))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]interface{}{"breaking_news": true}, decode(t, rec)["features"])
	})

	t.Run("migrate dry run", func(t *testing.T) {
		f := newFixture(t, nil)
		f.features.On("Migrate", mock.Anything, usecase.MigrateInput{DryRun: true}).
			Return(&events.FeaturesMigrated{Scanned: 10, Migrated: 4, DryRun: true}, nil).Once()

		rec := f.do(http.MethodPost, "/api/migrate-features?dry_run=true", "", bearer(cronSecret))
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, 4.0, body["migrated_count"])
		assert.Equal(t, true, body["dry_run"])
	})

	t.Run("ingest", func(t *testing.T) {
		f := newFixture(t, nil)
		f.ingest.On("Run", mock.Anything).Return(&usecase.IngestResult{Processed: 5, Created: 2, Skipped: 3}, nil).Once()

		rec := f.do(http.MethodPost, "/api/cron", "", bearer(cronSecret))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2.0, decode(t, rec)["data"].(map[string]interface{})["created"])
	})
}

func TestProxyRoute(t *testing.T) {
	t.Run("image", func(t *testing.T) {
		f := newFixture(t, nil)
		f.proxy.On("Fetch", mock.Anything, "https://cdn.example/a.png").
			Return(&usecase.ProxyResult{Status: http.StatusOK, ContentType: "image/png", Body: []byte("png")}).Once()

		rec := f.do(http.MethodGet, "/api/proxy-image?url=https%3A%2F%2Fcdn.example%2Fa.png", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, usecase.ImageCacheControl, rec.Header().Get("Cache-Control"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "png", rec.Body.String())
	})

	t.Run("placeholder redirect", func(t *testing.T) {
		f := newFixture(t, nil)
		f.proxy.On("Fetch", mock.Anything, "https://site.example/page").
			Return(&usecase.ProxyResult{Status: http.StatusTemporaryRedirect, Redirect: usecase.PlaceholderImage}).Once()

		rec := f.do(http.MethodGet, "/api/proxy-image?url=https://site.example/page", "", nil)
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, usecase.PlaceholderImage, rec.Header().Get("Location"))
	})

	t.Run("missing url", func(t *testing.T) {
		f := newFixture(t, nil)
		f.proxy.On("Fetch", mock.Anything, "").
			Return(&usecase.ProxyResult{Status: http.StatusBadRequest, Message: "Missing image URL"}).Once()

		rec := f.do(http.MethodGet, "/api/proxy-image", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing image URL")
	})
}

func TestDebugRoutes(t *testing.T) {
	t.Run("not mounted by default", func(t *testing.T) {
		f := newFixture(t, nil)
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/debug", "", nil).Code)
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/debug-content", "", nil).Code)
	})

	t.Run("mounted when enabled", func(t *testing.T) {
		f := newFixture(t, func(o *Options) { o.DebugEnabled = true })
		f.debug.On("Content", mock.Anything, usecase.DefaultDebugLimit).Return(&usecase.DebugContent{
			TotalDocuments: 1,
			Documents:      []usecase.ContentSummary{{ID: "a", Features: map[string]bool{"home": true}}},
		}, nil).Once()

		rec := f.do(http.MethodGet, "/api/debug-content", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1.0, decode(t, rec)["total_documents"])
	})
}
