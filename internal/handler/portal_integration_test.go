//go:build integration

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"ir-portal/internal/auth"
	"ir-portal/internal/cache"
	"ir-portal/internal/config"
	"ir-portal/internal/data"
	"ir-portal/internal/data/datatest"
	"ir-portal/internal/favorites"
	"ir-portal/internal/logger"
	"ir-portal/internal/middleware"
	"ir-portal/internal/service"
	"ir-portal/internal/session"
	"ir-portal/internal/upload"
	"ir-portal/internal/view"
	"ir-portal/web"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@example.org"
	testAdminPassword = "s3cret-pass"
)

// setupIntegrationTest initializes a full application stack for testing.
func setupIntegrationTest(t *testing.T) *chi.Mux {
	t.Helper()
	db := datatest.NewDB(t)
	log := logger.Nop()

	sm := session.New(sqlite3store.New(db.DB), session.Options{Lifetime: 3 * time.Minute})

	enforcer, err := auth.NewEnforcer(nil)
	require.NoError(t, err)
	auth.SeedDefaultPolicies(enforcer, log)

	viewService, err := view.New(web.TemplateFS)
	require.NoError(t, err)

	searchCache, err := cache.New(config.CacheConfig{FilePath: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { searchCache.Close() })

	authService := service.NewAuthService(data.NewAdminRepository(db))
	_, err = authService.EnsureAdmin(context.Background(), testAdminEmail, testAdminPassword, "Admin")
	require.NoError(t, err)

	articles := data.NewArticleRepository(db)
	analyses := data.NewAnalysisRepository(db)
	news := data.NewNewsRepository(db)
	podcasts := data.NewPodcastRepository(db)
	modules := data.NewModuleRepository(db)
	search := service.NewSearchService(articles, analyses, podcasts, news, modules, searchCache, time.Minute, log)
	renderer := service.NewRenderer()
	content := ContentServices{
		Articles:  service.NewArticleService(articles, search),
		Analyses:  service.NewAnalysisService(analyses, renderer, search),
		News:      service.NewNewsService(news, analyses, search),
		Podcasts:  service.NewPodcastService(podcasts, search),
		Concepts:  service.NewConceptService(data.NewConceptRepository(db), search),
		Resources: service.NewResourceService(data.NewResourceRepository(db), search),
		Modules:   service.NewModuleService(modules, renderer, search),
	}
	stats := service.NewStatsService(data.NewStatsRepository(db), articles, analyses, podcasts)
	uploads := upload.NewStore(afero.NewMemMapFs(), "public", 5)

	handlers := Handlers{
		Content:   NewContentHandler(content),
		Discovery: NewDiscoveryHandler(search, service.NewTaxonomyService(news), stats),
		Favorites: NewFavoritesHandler(favorites.NewStore(sm)),
		Upload:    NewUploadHandler(uploads),
		Auth:      NewAuthHandler(authService, sm, nil, log),
		Admin:     NewAdminHandler(viewService, authService, stats, content, sm, false, log),
		Seo:       NewSeoHandler(content, "https://portal.example.org"),
	}
	return NewRouter(handlers, uploads, sm, middleware.Authorizer(enforcer, sm, log), viewService, log)
}

// client replays the session cookie the way a browser would.
type client struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, router http.Handler) *client {
	return &client{t: t, router: router, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	for _, ck := range rr.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rr
}

func (c *client) json(method, path string, body interface{}) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	if dst != nil {
		require.NoError(t, json.Unmarshal(resp.Data, dst))
	}
	return resp
}

type listPage struct {
	Items []struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Published bool   `json:"published"`
	} `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func loginAdmin(t *testing.T, c *client) {
	t.Helper()
	rr := c.json(http.MethodPost, "/api/auth/login", map[string]string{"email": testAdminEmail, "password": testAdminPassword})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func createArticle(t *testing.T, c *client, title string, published bool) string {
	t.Helper()
	rr := c.json(http.MethodPost, "/api/articles", map[string]interface{}{
		"title":     title,
		"authors":   "Kenneth Waltz",
		"summary":   "Structural realism and the balance of power.",
		"tags":      "realism, security",
		"published": published,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var a data.Article
	decode(t, rr, &a)
	return a.ID
}

func TestPortal_ContentVisibility(t *testing.T) {
	router := setupIntegrationTest(t)
	admin := newClient(t, router)
	visitor := newClient(t, router)

	rr := visitor.json(http.MethodPost, "/api/articles", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, decode(t, rr, nil).Success)

	rr = admin.json(http.MethodPost, "/api/auth/login", map[string]string{"email": testAdminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	loginAdmin(t, admin)
	publishedID := createArticle(t, admin, "Theory of International Politics", true)
	draftID := createArticle(t, admin, "Unfinished Realism Notes", false)

	t.Run("visitors only see published rows", func(t *testing.T) {
		var page listPage
		decode(t, visitor.json(http.MethodGet, "/api/articles?published=false", nil), &page)
		require.Len(t, page.Items, 1)
		assert.Equal(t, publishedID, page.Items[0].ID)

		rr := visitor.json(http.MethodGet, "/api/articles/"+draftID, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Article not found", decode(t, rr, nil).Error)
	})

	t.Run("admins can narrow to drafts", func(t *testing.T) {
		var page listPage
		decode(t, admin.json(http.MethodGet, "/api/articles?published=false", nil), &page)
		require.Len(t, page.Items, 1)
		assert.Equal(t, draftID, page.Items[0].ID)

		decode(t, admin.json(http.MethodGet, "/api/articles", nil), &page)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("bad paging is rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, visitor.json(http.MethodGet, "/api/articles?page=0", nil).Code)
		assert.Equal(t, http.StatusBadRequest, visitor.json(http.MethodGet, "/api/articles?year=abc", nil).Code)
	})

	t.Run("search", func(t *testing.T) {
		var res map[string][]json.RawMessage
		decode(t, visitor.json(http.MethodGet, "/api/search?q=r", nil), &res)
		assert.Empty(t, res["articles"])

		decode(t, visitor.json(http.MethodGet, "/api/search?q=realism", nil), &res)
		assert.Len(t, res["articles"], 1, "drafts never show up in search")

		admin.json(http.MethodPut, "/api/articles/"+draftID, map[string]interface{}{
			"title": "Unfinished Realism Notes", "authors": "Kenneth Waltz", "summary": "Now public.", "published": true,
		})
		decode(t, visitor.json(http.MethodGet, "/api/search?q=realism", nil), &res)
		assert.Len(t, res["articles"], 2, "writes invalidate cached results")
	})

	t.Run("update and delete", func(t *testing.T) {
		rr := admin.json(http.MethodPut, "/api/articles/does-not-exist", map[string]interface{}{
			"title": "t", "authors": "a", "summary": "s",
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = admin.json(http.MethodPut, "/api/articles/"+publishedID, map[string]interface{}{"title": ""})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = admin.json(http.MethodDelete, "/api/articles/"+draftID, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Article deleted", decode(t, rr, nil).Message)
		assert.Equal(t, http.StatusNotFound, admin.json(http.MethodGet, "/api/articles/"+draftID, nil).Code)
	})

	t.Run("sitemap lists published content", func(t *testing.T) {
		rr := visitor.do(httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "https://portal.example.org/articles/"+publishedID)
		assert.NotContains(t, rr.Body.String(), draftID)
	})

	t.Run("logout drops admin rights", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, admin.json(http.MethodPost, "/api/auth/logout", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, admin.json(http.MethodGet, "/api/stats", nil).Code)
	})
}

func TestPortal_Favorites(t *testing.T) {
	router := setupIntegrationTest(t)
	visitor := newClient(t, router)

	var toggled struct {
		Favorited bool             `json:"favorited"`
		Items     []favorites.Item `json:"items"`
	}
	decode(t, visitor.json(http.MethodPost, "/api/favorites/toggle", map[string]string{
		"id": "a1", "type": favorites.TypeArticle, "title": "Anarchy",
	}), &toggled)
	assert.True(t, toggled.Favorited)

	var items []favorites.Item
	decode(t, visitor.json(http.MethodGet, "/api/favorites", nil), &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Anarchy", items[0].Title)

	assert.Equal(t, http.StatusBadRequest, visitor.json(http.MethodGet, "/api/favorites?type=video", nil).Code)

	decode(t, visitor.json(http.MethodDelete, "/api/favorites/article/a1", nil), &items)
	assert.Empty(t, items)

	// A fresh visitor has their own list.
	decode(t, newClient(t, router).json(http.MethodGet, "/api/favorites", nil), &items)
	assert.Empty(t, items)
}

func TestPortal_AdminPages(t *testing.T) {
	router := setupIntegrationTest(t)
	visitor := newClient(t, router)

	rr := visitor.do(httptest.NewRequest(http.MethodGet, "/admin/articles", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin%2Farticles", rr.Header().Get("Location"))

	admin := newClient(t, router)
	form := strings.NewReader(fmt.Sprintf("email=%s&password=%s&next=/admin/articles", testAdminEmail, "wrong"))
	req := httptest.NewRequest(http.MethodPost, "/admin/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = admin.do(req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid credentials")

	form = strings.NewReader(fmt.Sprintf("email=%s&password=%s&next=/admin/articles", testAdminEmail, testAdminPassword))
	req = httptest.NewRequest(http.MethodPost, "/admin/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = admin.do(req)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin/articles", rr.Header().Get("Location"))

	id := createArticle(t, admin, "Power and Interdependence", false)

	rr = admin.do(httptest.NewRequest(http.MethodGet, "/admin/articles", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Power and Interdependence")

	rr = admin.do(httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = admin.do(httptest.NewRequest(http.MethodGet, "/admin/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = admin.do(httptest.NewRequest(http.MethodPost, "/admin/articles/"+id+"/delete", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, http.StatusNotFound, admin.json(http.MethodGet, "/api/articles/"+id, nil).Code)
}

func TestPortal_UploadAndHealth(t *testing.T) {
	router := setupIntegrationTest(t)
	admin := newClient(t, router)
	loginAdmin(t, admin)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="map.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, mw.WriteField("type", "images"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := admin.do(req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var f upload.File
	decode(t, rr, &f)
	assert.True(t, strings.HasPrefix(f.URL, "/uploads/images/"))
	assert.Equal(t, "map.png", f.OriginalName)

	rr = newClient(t, router).do(httptest.NewRequest(http.MethodGet, f.URL, nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = newClient(t, router).do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestPortal_TagsHideDrafts(t *testing.T) {
	router := setupIntegrationTest(t)
	admin := newClient(t, router)
	visitor := newClient(t, router)
	loginAdmin(t, admin)

	publishedID := createArticle(t, admin, "Man, the State and War", true)
	draftArticleID := createArticle(t, admin, "Realism draft", false)
	analysis := map[string]interface{}{
		"title":        "Offshore balancing revisited",
		"shortSummary": "A realist grand strategy.",
		"content":      "Body.",
		"author":       "Stephen Walt",
		"tags":         "Realism",
		"published":    false,
	}
	rr := admin.json(http.MethodPost, "/api/analyses", analysis)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created data.Analysis
	decode(t, rr, &created)

	type tagged struct {
		Tag      string `json:"tag"`
		Articles []struct {
			ID string `json:"id"`
		} `json:"articles"`
		Analyses []struct {
			ID string `json:"id"`
		} `json:"analyses"`
	}

	var res tagged
	rr = visitor.json(http.MethodGet, "/api/tags/REALISM", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &res)
	assert.Equal(t, "REALISM", res.Tag)
	require.Len(t, res.Articles, 1)
	assert.Equal(t, publishedID, res.Articles[0].ID)
	assert.NotContains(t, rr.Body.String(), draftArticleID)
	assert.Empty(t, res.Analyses, "draft analyses stay hidden")

	analysis["published"] = true
	rr = admin.json(http.MethodPut, "/api/analyses/"+created.ID, analysis)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	decode(t, visitor.json(http.MethodGet, "/api/tags/realism", nil), &res)
	require.Len(t, res.Analyses, 1, "publishing invalidates cached tag results")
	assert.Equal(t, created.ID, res.Analyses[0].ID)
}
