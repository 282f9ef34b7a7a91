package handlers_test

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"blog/config"
	"blog/db"
	"blog/handlers"
	"blog/models"
	"blog/repos"
	"blog/storage"
)

type testApp struct {
	server   *httptest.Server
	db       *gorm.DB
	posts    repos.PostRepository
	groups   repos.GroupRepository
	comments repos.CommentRepository
	users    repos.UserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Open(config.DatabaseConfig{
		SQLiteFile: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(database))

	app := &testApp{
		db:       database,
		posts:    repos.NewPostRepository(database, 10),
		groups:   repos.NewGroupRepository(database),
		comments: repos.NewCommentRepository(database),
		users:    repos.NewUserRepository(database),
	}

	router := gin.New()
	router.LoadHTMLGlob("../templates/*.tmpl")
	store := gormsessions.NewStore(database, true, []byte("test-session-key"))
	router.Use(sessions.Sessions("token", store))
	handlers.SetupRoutes(router, &handlers.Handlers{
		Log:       zap.NewNop(),
		Media:     storage.NewDiskStorage(t.TempDir()),
		Posts:     app.posts,
		Groups:    app.groups,
		Comments:  app.comments,
		Users:     app.users,
		ThumbSize: 300,
	})

	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)
	return app
}

func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// noRedirectClient stops at the first response so redirects can be asserted
func (a *testApp) noRedirectClient(t *testing.T) *http.Client {
	t.Helper()
	client := a.client(t)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}

func (a *testApp) signup(t *testing.T, client *http.Client, username string) *models.User {
	t.Helper()
	resp, err := client.PostForm(a.server.URL+"/auth/signup/", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"secret123"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	user, err := a.users.GetByUsername(username)
	require.NoError(t, err)
	return user
}

func (a *testApp) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	user.SetPassword("secret123")
	require.NoError(t, a.users.Create(user))
	return user
}

func (a *testApp) seedPost(t *testing.T, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: author.ID, Text: text}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, a.posts.Create(post))
	return post
}

func login(t *testing.T, a *testApp, client *http.Client, username string) {
	t.Helper()
	resp, err := client.PostForm(a.server.URL+"/auth/login/", url.Values{
		"username": {username},
		"password": {"secret123"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func multipartForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if withImage {
		fw, err := writer.CreateFormFile("image", "small.png")
		require.NoError(t, err)
		require.NoError(t, png.Encode(fw, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestCreatePostWithImage(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)
	author := app.signup(t, client, "author1")

	before, err := app.posts.List(1)
	require.NoError(t, err)

	body, contentType := multipartForm(t, map[string]string{"text": "hello", "group": "0"}, true)
	resp, err := client.Post(app.server.URL+"/create/", contentType, body)
	require.NoError(t, err)
	page := readBody(t, resp)
	// Redirected to the author's profile
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Posts by author1")

	after, err := app.posts.List(1)
	require.NoError(t, err)
	require.Equal(t, before.TotalItems+1, after.TotalItems)

	created := after.Items[0]
	assert.Equal(t, "hello", created.Text)
	assert.Equal(t, author.ID, created.AuthorID)
	assert.NotEmpty(t, created.ImagePath)
	assert.NotEmpty(t, created.ThumbPath)

	// The stored reference resolves through the media route
	resp, err = client.Get(app.server.URL + "/media/" + created.ThumbPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreatePostRejectsEmptyText(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)
	app.signup(t, client, "author1")

	before, err := app.posts.List(1)
	require.NoError(t, err)

	resp, err := client.PostForm(app.server.URL+"/create/", url.Values{"text": {"   "}, "group": {"0"}})
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Contains(t, page, "Text cannot be empty")

	after, err := app.posts.List(1)
	require.NoError(t, err)
	assert.Equal(t, before.TotalItems, after.TotalItems)
}

func TestCreatePostRejectsUnknownGroup(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)
	app.signup(t, client, "author1")

	resp, err := client.PostForm(app.server.URL+"/create/", url.Values{"text": {"hello"}, "group": {"999"}})
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Contains(t, page, "Unknown group")

	after, err := app.posts.List(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.TotalItems)
}

func TestAnonymousCreateRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	client := app.noRedirectClient(t)

	resp, err := client.PostForm(app.server.URL+"/create/", url.Values{"text": {"any text4"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/", resp.Header.Get("Location"))

	after, err := app.posts.List(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.TotalItems)
}

func TestAnonymousEditRedirectsAndDoesNotMutate(t *testing.T) {
	app := newTestApp(t)
	author := app.seedUser(t, "auth")
	post := app.seedPost(t, author, nil, "original")

	client := app.noRedirectClient(t)
	editURL := fmt.Sprintf("%s/posts/%d/edit/", app.server.URL, post.ID)

	resp, err := client.Get(editURL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/", resp.Header.Get("Location"))

	resp, err = client.PostForm(editURL, url.Values{"text": {"any text3"}, "group": {"0"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/", resp.Header.Get("Location"))

	got, err := app.posts.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)
}

func TestNonAuthorEditKeepsPostUnchanged(t *testing.T) {
	app := newTestApp(t)
	author := app.seedUser(t, "auth")
	group := &models.Group{Title: "Test group", Slug: "test_slug"}
	require.NoError(t, app.groups.Create(group))
	post := app.seedPost(t, author, group, "original")

	client := app.client(t)
	app.signup(t, client, "intruder")
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	editURL := fmt.Sprintf("%s/posts/%d/edit/", app.server.URL, post.ID)
	resp, err := client.PostForm(editURL, url.Values{"text": {"changed"}, "group": {"0"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), resp.Header.Get("Location"))

	got, err := app.posts.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, group.ID, *got.GroupID)
}

func TestAuthorEditChangesTextAndKeepsImage(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)
	app.signup(t, client, "auth")
	author, err := app.users.GetByUsername("auth")
	require.NoError(t, err)

	post := &models.Post{AuthorID: author.ID, Text: "before", ImagePath: "posts/x.png", ThumbPath: "thumbs/x.jpg"}
	require.NoError(t, app.posts.Create(post))

	editURL := fmt.Sprintf("%s/posts/%d/edit/", app.server.URL, post.ID)
	resp, err := client.PostForm(editURL, url.Values{"text": {"after"}, "group": {"0"}})
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Contains(t, page, "after")

	got, err := app.posts.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Text)
	// No new file was supplied, the image reference is untouched
	assert.Equal(t, "posts/x.png", got.ImagePath)
	assert.Equal(t, "thumbs/x.jpg", got.ThumbPath)
}

func TestAnonymousCommentRejected(t *testing.T) {
	app := newTestApp(t)
	author := app.seedUser(t, "auth")
	post := app.seedPost(t, author, nil, "post")

	client := app.noRedirectClient(t)
	resp, err := client.PostForm(fmt.Sprintf("%s/posts/%d/comment/", app.server.URL, post.ID),
		url.Values{"text": {"bad comment"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/", resp.Header.Get("Location"))

	count, err := app.comments.CountByPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAuthenticatedComment(t *testing.T) {
	app := newTestApp(t)
	author := app.seedUser(t, "auth")
	post := app.seedPost(t, author, nil, "post")

	client := app.client(t)
	app.signup(t, client, "reader")

	resp, err := client.PostForm(fmt.Sprintf("%s/posts/%d/comment/", app.server.URL, post.ID),
		url.Values{"text": {"nice one"}})
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Contains(t, page, "nice one")
	assert.Contains(t, page, "reader")

	count, err := app.comments.CountByPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCommentOnMissingPostIs404(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)
	app.signup(t, client, "reader")

	resp, err := client.PostForm(app.server.URL+"/posts/12345/comment/", url.Values{"text": {"hello"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGroupPage(t *testing.T) {
	app := newTestApp(t)
	author := app.seedUser(t, "auth")
	group := &models.Group{Title: "Test group", Slug: "test_slug", Description: "about it"}
	require.NoError(t, app.groups.Create(group))
	app.seedPost(t, author, group, "in the group")

	resp, err := http.Get(app.server.URL + "/group/test_slug/")
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Test group")
	assert.Contains(t, page, "in the group")

	resp, err = http.Get(app.server.URL + "/group/unknown/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProfilePage(t *testing.T) {
	app := newTestApp(t)
	author := app.seedUser(t, "auth")
	app.seedPost(t, author, nil, "my post")

	resp, err := http.Get(app.server.URL + "/profile/auth/")
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Posts by auth")
	assert.Contains(t, page, "my post")

	resp, err = http.Get(app.server.URL + "/profile/nobody/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotFoundPage(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Get(app.server.URL + "/nonexist-page/")
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, page, "Page not found")
	assert.Contains(t, page, "/nonexist-page/")
}

func TestSignupDuplicateUsername(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, app.client(t), "taken")

	client := app.client(t)
	resp, err := client.PostForm(app.server.URL+"/auth/signup/", url.Values{
		"username": {"taken"},
		"password": {"secret123"},
	})
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Contains(t, page, "already taken")
}

func TestLoginLogout(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "auth")

	client := app.client(t)
	login(t, app, client, "auth")

	resp, err := client.Get(app.server.URL + "/")
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Contains(t, page, "New post")

	resp, err = client.PostForm(app.server.URL+"/auth/logout/", url.Values{})
	require.NoError(t, err)
	page = readBody(t, resp)
	assert.NotContains(t, page, "New post")
	assert.True(t, strings.Contains(page, "Log in"))
}

func TestBadLogin(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "auth")

	client := app.client(t)
	resp, err := client.PostForm(app.server.URL+"/auth/login/", url.Values{
		"username": {"auth"},
		"password": {"wrong-password"},
	})
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Contains(t, page, "Invalid username or password")
}
