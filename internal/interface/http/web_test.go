package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// browser replays cookies between requests the way a user agent would.
type browser struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func newBrowser(app *testApp) *browser {
	return &browser{app: app, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return b.send(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(t, req)
}

func (b *browser) send(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	b.app.server.Handler.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
	return rec
}

func (b *browser) signup(t *testing.T) {
	t.Helper()
	rec := b.post(t, "/auth/signup/", url.Values{
		"username":  {"editor"},
		"email":     {"editor@example.com"},
		"password1": {"Secret123"},
		"password2": {"Secret123"},
	})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	require.Equal(t, homePath, rec.Header().Get("Location"))
	require.Contains(t, b.cookies, "faq_session")
}

func TestWebList_IgnoresLang(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(app)

	rec := b.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = b.get(t, "/?lang=hi")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.get(t, "/?lang=xx")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.get(t, "/faqs/?lang=bn")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/?lang=bn", rec.Header().Get("Location"))
}

func TestWebManagePagesRequireLogin(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(app)

	rec := b.get(t, createPath)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/auth/login/?next=%2Fcreate%2F", rec.Header().Get("Location"))

	rec = b.post(t, "/1/delete/", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), loginPath))
}

func TestWebCreateEditDelete(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(app)
	b.signup(t)

	rec := b.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Welcome, editor!")

	rec = b.get(t, createPath)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Cache-Control"), "no-store")

	rec = b.post(t, createPath, url.Values{"question": {""}, "answer": {"<p>Orphan answer</p>"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "This field may not be blank.")

	rec = b.post(t, createPath, url.Values{"answer": {"<p>Orphan answer</p>"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "This field is required.")

	rec = b.post(t, createPath, url.Values{"question": {"<p>How do refunds work?</p>"}, "answer": {"<p>Within 30 days.</p>"}})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, homePath, rec.Header().Get("Location"))

	rec = b.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "How do refunds work?")
	require.Contains(t, body, "FAQ created successfully.")

	rec = b.get(t, "/1/edit/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Edit FAQ")

	rec = b.post(t, "/1/edit/", url.Values{"question": {"<p>How do returns work?</p>"}, "answer": {"<p>Within 14 days.</p>"}})
	require.Equal(t, http.StatusFound, rec.Code)

	rec = b.get(t, "/?search=returns")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "How do returns work?")

	rec = b.get(t, "/99/edit/")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = b.get(t, "/1/delete/")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.post(t, "/1/delete/", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)

	rec = b.get(t, "/")
	require.NotContains(t, rec.Body.String(), "How do returns work?")
	require.Contains(t, rec.Body.String(), "FAQ deleted successfully.")
}

func TestWebSignupValidation(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(app)

	rec := b.post(t, "/auth/signup/", url.Values{
		"username":  {"editor"},
		"email":     {"editor@example.com"},
		"password1": {"Secret123"},
		"password2": {"Secret124"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "didn&#39;t match")

	rec = b.post(t, "/auth/signup/", url.Values{
		"username":  {"editor"},
		"email":     {"editor@example.com"},
		"password1": {"short"},
		"password2": {"short"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotContains(t, b.cookies, "faq_session")
}

func TestWebLoginLogout(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(app)
	b.signup(t)

	rec := b.post(t, "/auth/logout/", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, loginPath, rec.Header().Get("Location"))
	require.NotContains(t, b.cookies, "faq_session")

	rec = b.post(t, loginPath, url.Values{"email": {"editor@example.com"}, "password": {"Wrong1234"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid email or password.")

	rec = b.post(t, loginPath, url.Values{
		"email":       {"editor@example.com"},
		"password":    {"Secret123"},
		"next":        {createPath},
		"remember_me": {"on"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, createPath, rec.Header().Get("Location"))
	session := b.cookies["faq_session"]
	require.NotNil(t, session)
	require.True(t, session.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, session.SameSite)
	require.Positive(t, session.MaxAge)

	rec = b.get(t, loginPath)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, homePath, rec.Header().Get("Location"))

	rec = b.get(t, "/auth/profile/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "editor@example.com")
}

func TestWebSessionWorksForAPIWrites(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(app)
	b.signup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/faqs/", strings.NewReader(`{"question":"q","answer":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := b.send(t, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestWebDeleteAccountEndsSession(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(app)
	b.signup(t)
	stale := b.cookies["faq_session"]

	rec := b.post(t, "/auth/delete-account/", url.Values{"password": {"Secret123"}})
	require.Equal(t, http.StatusFound, rec.Code)
	require.NotContains(t, b.cookies, "faq_session")

	b.cookies["faq_session"] = stale
	rec = b.get(t, createPath)
	require.Equal(t, http.StatusFound, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), loginPath))
	require.NotContains(t, b.cookies, "faq_session")

	req := httptest.NewRequest(http.MethodPost, "/api/faqs/", strings.NewReader(`{"question":"q","answer":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(stale)
	rec = httptest.NewRecorder()
	app.server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSafeNext(t *testing.T) {
	require.Equal(t, "/create/", safeNext("/create/"))
	require.Equal(t, "", safeNext("https://evil.example"))
	require.Equal(t, "", safeNext("//evil.example"))
	require.Equal(t, "", safeNext(""))
}
