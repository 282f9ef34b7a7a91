// Package policy holds the authorization rules as pure predicates. They
// never touch storage, callers load the target first and gate the mutation
// on the result.
package policy

import (
	"blog/auth"
	"blog/models"
)

func CanCreatePost(actor auth.Actor) bool {
	return actor.IsAuthenticated()
}

func CanEditPost(actor auth.Actor, post *models.Post) bool {
	return actor.IsAuthenticated() && actor.ID == post.AuthorID
}

func CanCreateComment(actor auth.Actor) bool {
	return actor.IsAuthenticated()
}
