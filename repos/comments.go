package repos

import (
	"time"

	"gorm.io/gorm"

	"blog/models"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	// ListByPost returns all comments of a post, newest first
	ListByPost(postID uint64) ([]models.Comment, error)
	CountByPost(postID uint64) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	if comment.Created == 0 {
		comment.Created = time.Now().Unix()
	}
	return r.db.Create(comment).Error
}

func (r *commentRepository) ListByPost(postID uint64) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByPost(postID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
