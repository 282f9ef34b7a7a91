package forms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blog/forms"
)

func TestPostFormRejectsEmptyText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{"empty", "", false},
		{"whitespace only", "  \t\n ", false},
		{"valid", "hello", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := forms.PostForm{Text: tt.text}
			errs := form.Validate()
			if tt.valid {
				assert.False(t, errs.Any())
			} else {
				assert.True(t, errs.Any())
				assert.NotEmpty(t, errs.Get("text"))
			}
		})
	}
}

func TestCommentFormRejectsEmptyText(t *testing.T) {
	form := forms.CommentForm{Text: " "}
	errs := form.Validate()
	assert.True(t, errs.Any())
	assert.NotEmpty(t, errs.Get("text"))
}

func TestGroupFormSlug(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		valid bool
	}{
		{"simple", "travel", true},
		{"with dash", "city-trips", true},
		{"with underscore", "test_slug", true},
		{"empty", "", false},
		{"uppercase", "Travel", false},
		{"spaces", "city trips", false},
		{"leading dash", "-travel", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := forms.GroupForm{Title: "A group", Slug: tt.slug}
			errs := form.Validate()
			assert.Equal(t, tt.valid, !errs.Any(), "errors: %v", errs)
		})
	}
}

func TestGroupFormTitleLength(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	form := forms.GroupForm{Title: string(long), Slug: "ok"}
	errs := form.Validate()
	assert.NotEmpty(t, errs.Get("title"))
}

func TestSignupForm(t *testing.T) {
	form := forms.SignupForm{Username: "new_user", Email: "user@example.com", Password: "secret123"}
	assert.False(t, form.Validate().Any())

	form = forms.SignupForm{Username: "bad name", Password: "secret123"}
	assert.NotEmpty(t, form.Validate().Get("username"))

	form = forms.SignupForm{Username: "ok", Password: "short"}
	assert.NotEmpty(t, form.Validate().Get("password"))

	form = forms.SignupForm{Username: "ok", Email: "not-an-email", Password: "secret123"}
	assert.NotEmpty(t, form.Validate().Get("email"))
}
