package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog/forms"
	"blog/models"
	"blog/policy"
	"blog/repos"
	"blog/utils"
)

// maxImageSize caps uploaded post images at 10 MB
const maxImageSize = 10 << 20

func (h *Handlers) Index(c *gin.Context) {
	page, err := h.Posts.List(pageParam(c))
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Page":  page,
		"Actor": h.actor(c),
	})
}

func (h *Handlers) GroupPosts(c *gin.Context) {
	slug := c.Param("slug")
	group, err := h.Groups.GetBySlug(slug)
	if errors.Is(err, repos.ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	page, err := h.Posts.ListByGroup(slug, pageParam(c))
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "group_list.tmpl", gin.H{
		"Group": group,
		"Page":  page,
		"Actor": h.actor(c),
	})
}

func (h *Handlers) Profile(c *gin.Context) {
	username := c.Param("username")
	author, err := h.Users.GetByUsername(username)
	if errors.Is(err, repos.ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	page, err := h.Posts.ListByAuthor(username, pageParam(c))
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "profile.tmpl", gin.H{
		"Author": author,
		"Page":   page,
		"Actor":  h.actor(c),
	})
}

func (h *Handlers) PostDetail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.NotFound(c)
		return
	}
	post, err := h.Posts.GetByID(id)
	if errors.Is(err, repos.ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.renderPostDetail(c, http.StatusOK, post, forms.CommentForm{}, forms.Errors{})
}

func (h *Handlers) renderPostDetail(c *gin.Context, status int, post *models.Post, form forms.CommentForm, errs forms.Errors) {
	comments, err := h.Comments.ListByPost(post.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(status, "post_detail.tmpl", gin.H{
		"Post":     post,
		"Comments": comments,
		"Form":     form,
		"Errors":   errs,
		"Actor":    h.actor(c),
	})
}

func (h *Handlers) PostCreateForm(c *gin.Context) {
	actor := h.actor(c)
	if !policy.CanCreatePost(actor) {
		redirectToLogin(c)
		return
	}
	h.renderPostForm(c, http.StatusOK, nil, forms.PostForm{}, forms.Errors{})
}

func (h *Handlers) PostCreate(c *gin.Context) {
	actor := h.actor(c)
	if !policy.CanCreatePost(actor) {
		redirectToLogin(c)
		return
	}

	var form forms.PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostForm(c, http.StatusOK, nil, form, forms.Errors{"text": "Invalid input"})
		return
	}
	errs := form.Validate()
	groupID := h.resolveGroup(form.Group, errs)

	var imagePath, thumbPath string
	if file, err := c.FormFile("image"); err == nil && file != nil {
		imagePath, thumbPath, err = h.saveImage(file)
		if err != nil {
			errs["image"] = "Could not read the image file"
		}
	}

	if errs.Any() {
		h.renderPostForm(c, http.StatusOK, nil, form, errs)
		return
	}

	post := models.Post{
		AuthorID:  actor.ID,
		GroupID:   groupID,
		Text:      form.Text,
		ImagePath: imagePath,
		ThumbPath: thumbPath,
	}
	if err := h.Posts.Create(&post); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+actor.Username+"/")
}

func (h *Handlers) PostEditForm(c *gin.Context) {
	post, ok := h.loadPostForEdit(c)
	if !ok {
		return
	}
	form := forms.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = *post.GroupID
	}
	h.renderPostForm(c, http.StatusOK, post, form, forms.Errors{})
}

func (h *Handlers) PostEdit(c *gin.Context) {
	post, ok := h.loadPostForEdit(c)
	if !ok {
		return
	}

	var form forms.PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostForm(c, http.StatusOK, post, form, forms.Errors{"text": "Invalid input"})
		return
	}
	errs := form.Validate()
	groupID := h.resolveGroup(form.Group, errs)

	// The image is only replaced when a new file was supplied
	imagePath, thumbPath := post.ImagePath, post.ThumbPath
	if file, err := c.FormFile("image"); err == nil && file != nil {
		imagePath, thumbPath, err = h.saveImage(file)
		if err != nil {
			errs["image"] = "Could not read the image file"
		}
	}

	if errs.Any() {
		h.renderPostForm(c, http.StatusOK, post, form, errs)
		return
	}

	post.Text = form.Text
	post.GroupID = groupID
	post.ImagePath = imagePath
	post.ThumbPath = thumbPath
	if err := h.Posts.Update(post); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

// loadPostForEdit loads the post and applies the edit policy: anonymous
// visitors go to the login page, authenticated non-authors back to the post.
func (h *Handlers) loadPostForEdit(c *gin.Context) (*models.Post, bool) {
	id, ok := idParam(c)
	if !ok {
		h.NotFound(c)
		return nil, false
	}
	post, err := h.Posts.GetByID(id)
	if errors.Is(err, repos.ErrNotFound) {
		h.NotFound(c)
		return nil, false
	}
	if err != nil {
		h.serverError(c, err)
		return nil, false
	}
	actor := h.actor(c)
	if !policy.CanEditPost(actor, post) {
		if !actor.IsAuthenticated() {
			redirectToLogin(c)
		} else {
			c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
		}
		return nil, false
	}
	return post, true
}

func (h *Handlers) renderPostForm(c *gin.Context, status int, post *models.Post, form forms.PostForm, errs forms.Errors) {
	groups, err := h.Groups.List()
	if err != nil {
		h.serverError(c, err)
		return
	}
	data := gin.H{
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
		"IsEdit": post != nil,
		"Actor":  h.actor(c),
	}
	if post != nil {
		data["Post"] = post
	}
	c.HTML(status, "create_post.tmpl", data)
}

// resolveGroup maps the submitted group ID to a reference, recording a field
// error when the group does not exist. Zero means no group.
func (h *Handlers) resolveGroup(id uint64, errs forms.Errors) *uint64 {
	if id == 0 {
		return nil
	}
	group, err := h.Groups.GetByID(id)
	if errors.Is(err, repos.ErrNotFound) {
		errs["group"] = "Unknown group"
		return nil
	}
	if err != nil {
		errs["group"] = "Unknown group"
		return nil
	}
	return &group.ID
}

// saveImage stores the original upload and a JPEG thumbnail, returning the
// two storage references. Decoding the thumbnail doubles as validation that
// the upload really is an image.
func (h *Handlers) saveImage(file *multipart.FileHeader) (string, string, error) {
	if file.Size > maxImageSize {
		return "", "", fmt.Errorf("image too large: %d bytes", file.Size)
	}
	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxImageSize))
	if err != nil {
		return "", "", err
	}

	thumb, err := utils.Thumbnail(bytes.NewReader(data), h.ThumbSize)
	if err != nil {
		return "", "", err
	}

	name := uuid.New().String()
	now := time.Now()
	ext := strings.ToLower(filepath.Ext(file.Filename))
	imagePath := fmt.Sprintf("posts/%d/%02d/%s%s", now.Year(), int(now.Month()), name, ext)
	thumbPath := fmt.Sprintf("thumbs/%d/%02d/%s.jpg", now.Year(), int(now.Month()), name)

	if _, err = h.Media.Save(imagePath, bytes.NewReader(data)); err != nil {
		return "", "", err
	}
	if _, err = h.Media.Save(thumbPath, bytes.NewReader(thumb)); err != nil {
		return "", "", err
	}
	return imagePath, thumbPath, nil
}
