package repos

import "errors"

var (
	// ErrNotFound signals a missing post, group or user. It is distinct from
	// an existing scope that happens to contain no posts.
	ErrNotFound = errors.New("record not found")
	// ErrSlugTaken is returned when a group slug collides with an existing one
	ErrSlugTaken = errors.New("slug is already taken")
	// ErrUsernameTaken is returned when a username collides with an existing one
	ErrUsernameTaken = errors.New("username is already taken")
)
