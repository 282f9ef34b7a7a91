package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog/forms"
	"blog/models"
	"blog/policy"
	"blog/repos"
)

func (h *Handlers) AddComment(c *gin.Context) {
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

	actor := h.actor(c)
	if !policy.CanCreateComment(actor) {
		redirectToLogin(c)
		return
	}

	var form forms.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostDetail(c, http.StatusOK, post, form, forms.Errors{"text": "Invalid input"})
		return
	}
	if errs := form.Validate(); errs.Any() {
		h.renderPostDetail(c, http.StatusOK, post, form, errs)
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: actor.ID,
		Text:     form.Text,
	}
	if err := h.Comments.Create(&comment); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}
