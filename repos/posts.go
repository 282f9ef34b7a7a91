package repos

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"blog/models"
)

// PostRepository is the single read/write surface for posts. Listings are
// reverse chronological and paginated; a page past the end is empty, not an
// error, but an unknown group slug or username is ErrNotFound.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint64) (*models.Post, error)
	// Update persists text, group and image references only. PubDate and
	// AuthorID are immutable.
	Update(post *models.Post) error
	// Delete removes the post and all of its comments
	Delete(id uint64) error
	List(page int) (*PostPage, error)
	ListByGroup(slug string, page int) (*PostPage, error)
	ListByAuthor(username string, page int) (*PostPage, error)
}

type postRepository struct {
	db       *gorm.DB
	pageSize int
}

func NewPostRepository(db *gorm.DB, pageSize int) PostRepository {
	return &postRepository{db: db, pageSize: pageSize}
}

func (r *postRepository) Create(post *models.Post) error {
	if post.PubDate == 0 {
		post.PubDate = time.Now().Unix()
	}
	return r.db.Create(post).Error
}

func (r *postRepository) GetByID(id uint64) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Group").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(post *models.Post) error {
	result := r.db.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"text":       post.Text,
		"group_id":   post.GroupID,
		"image_path": post.ImagePath,
		"thumb_path": post.ThumbPath,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(id uint64) error {
	// Comments belong to their post, the delete cascades to them
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) List(page int) (*PostPage, error) {
	return r.list(page, "", nil)
}

func (r *postRepository) ListByGroup(slug string, page int) (*PostPage, error) {
	var group models.Group
	err := r.db.Where("slug = ?", slug).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.list(page, "group_id = ?", group.ID)
}

func (r *postRepository) ListByAuthor(username string, page int) (*PostPage, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.list(page, "author_id = ?", user.ID)
}

func (r *postRepository) list(page int, cond string, arg interface{}) (*PostPage, error) {
	if page < 1 {
		page = 1
	}

	counter := r.db.Model(&models.Post{})
	if cond != "" {
		counter = counter.Where(cond, arg)
	}
	var total int64
	if err := counter.Count(&total).Error; err != nil {
		return nil, err
	}

	query := r.db.Preload("Author").Preload("Group")
	if cond != "" {
		query = query.Where(cond, arg)
	}
	items := []models.Post{}
	err := query.
		Order("pub_date DESC, id DESC").
		Limit(r.pageSize).
		Offset((page - 1) * r.pageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Items:      items,
		Number:     page,
		Size:       r.pageSize,
		TotalItems: total,
		TotalPages: int((total + int64(r.pageSize) - 1) / int64(r.pageSize)),
	}, nil
}
