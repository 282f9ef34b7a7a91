package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog/auth"
	"blog/repos"
	"blog/storage"
)

// Handlers serves every page of the site. Repositories and storage are
// injected, nothing is looked up globally.
type Handlers struct {
	Log       *zap.Logger
	Media     storage.Storage
	Posts     repos.PostRepository
	Groups    repos.GroupRepository
	Comments  repos.CommentRepository
	Users     repos.UserRepository
	ThumbSize uint
}

func SetupRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/", h.Index)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/posts/:id/", h.PostDetail)
	r.GET("/posts/:id/edit/", h.PostEditForm)
	r.POST("/posts/:id/edit/", h.PostEdit)
	r.GET("/create/", h.PostCreateForm)
	r.POST("/create/", h.PostCreate)
	r.POST("/posts/:id/comment/", h.AddComment)
	r.GET("/media/*path", h.ServeMedia)
	r.GET("/auth/signup/", h.SignupPage)
	r.POST("/auth/signup/", h.Signup)
	r.GET("/auth/login/", h.LoginPage)
	r.POST("/auth/login/", h.Login)
	r.POST("/auth/logout/", h.Logout)
	r.NoRoute(h.NotFound)
}

// actor resolves the requesting identity from the session. A stale session
// pointing at a deleted user degrades to anonymous.
func (h *Handlers) actor(c *gin.Context) auth.Actor {
	id := auth.LoadSession(c).UserID()
	if id == 0 {
		return auth.Anonymous
	}
	user, err := h.Users.GetByID(id)
	if err != nil {
		return auth.Anonymous
	}
	return auth.Actor{ID: user.ID, Username: user.Username}
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}

func (h *Handlers) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.tmpl", gin.H{
		"Path": c.Request.URL.Path,
	})
}

func (h *Handlers) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/auth/login/")
}
