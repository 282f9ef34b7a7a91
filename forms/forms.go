// Package forms validates user input. Validation is pure, the result is a
// field -> message map the templates re-display, nothing here knows about
// rendering or storage.
package forms

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()
	slugRx   = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)
)

func init() {
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRx.MatchString(fl.Field().String())
	})
}

type Errors map[string]string

func (e Errors) Any() bool {
	return len(e) > 0
}

func (e Errors) Get(field string) string {
	return e[field]
}

// PostForm carries the create/edit post input. Group is a group ID, zero
// means no group. Whether the group actually exists is checked by the
// handler against the repository and reported on the "group" field.
type PostForm struct {
	Text  string `form:"text"`
	Group uint64 `form:"group"`
}

func (f *PostForm) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(f.Text) == "" {
		errs["text"] = "Text cannot be empty"
	}
	return errs
}

type CommentForm struct {
	Text string `form:"text"`
}

func (f *CommentForm) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(f.Text) == "" {
		errs["text"] = "Text cannot be empty"
	}
	return errs
}

type GroupForm struct {
	Title       string `validate:"required,max=200"`
	Slug        string `validate:"required,max=100,slug"`
	Description string
}

func (f *GroupForm) Validate() Errors {
	errs := Errors{}
	err := validate.Struct(f)
	if err == nil {
		return errs
	}
	for _, fe := range err.(validator.ValidationErrors) {
		errs[strings.ToLower(fe.Field())] = messageFor(fe)
	}
	return errs
}

type SignupForm struct {
	Username string `form:"username" validate:"required,max=150,slug"`
	Email    string `form:"email" validate:"omitempty,email"`
	Password string `form:"password" validate:"required,min=6"`
}

func (f *SignupForm) Validate() Errors {
	errs := Errors{}
	err := validate.Struct(f)
	if err == nil {
		return errs
	}
	for _, fe := range err.(validator.ValidationErrors) {
		errs[strings.ToLower(fe.Field())] = messageFor(fe)
	}
	return errs
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (f *LoginForm) Validate() Errors {
	errs := Errors{}
	if f.Username == "" {
		errs["username"] = "Username is required"
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "email":
		return "Must be a valid email address"
	case "slug":
		return "Only lowercase letters, digits, '-' and '_' are allowed"
	}
	return "Invalid value"
}
