package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog/auth"
	"blog/forms"
	"blog/models"
	"blog/repos"
)

func (h *Handlers) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.tmpl", gin.H{
		"Form":   forms.SignupForm{},
		"Errors": forms.Errors{},
	})
}

func (h *Handlers) Signup(c *gin.Context) {
	var form forms.SignupForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "signup.tmpl", gin.H{
			"Form":   form,
			"Errors": forms.Errors{"username": "Invalid input"},
		})
		return
	}
	errs := form.Validate()
	if !errs.Any() {
		user := models.User{Username: form.Username, Email: form.Email}
		user.SetPassword(form.Password)
		err := h.Users.Create(&user)
		switch {
		case errors.Is(err, repos.ErrUsernameTaken):
			errs["username"] = "This username is already taken"
		case err != nil:
			h.serverError(c, err)
			return
		default:
			if err = auth.LoadSession(c).LoginUser(user.ID); err != nil {
				h.serverError(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/")
			return
		}
	}
	c.HTML(http.StatusOK, "signup.tmpl", gin.H{
		"Form":   form,
		"Errors": errs,
	})
}

func (h *Handlers) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Form":   forms.LoginForm{},
		"Errors": forms.Errors{},
	})
}

func (h *Handlers) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "login.tmpl", gin.H{
			"Form":   form,
			"Errors": forms.Errors{"username": "Invalid input"},
		})
		return
	}
	errs := form.Validate()
	if !errs.Any() {
		user, err := h.Users.GetByUsername(form.Username)
		switch {
		case errors.Is(err, repos.ErrNotFound):
			errs["password"] = "Invalid username or password"
		case err != nil:
			h.serverError(c, err)
			return
		case !user.CheckPassword(form.Password):
			errs["password"] = "Invalid username or password"
		default:
			if err = auth.LoadSession(c).LoginUser(user.ID); err != nil {
				h.serverError(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/")
			return
		}
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Form":   form,
		"Errors": errs,
	})
}

func (h *Handlers) Logout(c *gin.Context) {
	auth.LoadSession(c).LogoutUser()
	c.Redirect(http.StatusFound, "/")
}
