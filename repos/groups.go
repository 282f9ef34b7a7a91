package repos

import (
	"errors"

	"gorm.io/gorm"

	"blog/models"
)

type GroupRepository interface {
	// Create returns ErrSlugTaken when the slug is already in use
	Create(group *models.Group) error
	GetByID(id uint64) (*models.Group, error)
	GetBySlug(slug string) (*models.Group, error)
	List() ([]models.Group, error)
	// Delete clears the group reference on dependent posts, it never deletes them
	Delete(id uint64) error
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(group *models.Group) error {
	err := r.db.Create(group).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

func (r *groupRepository) GetByID(id uint64) (*models.Group, error) {
	var group models.Group
	err := r.db.First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(slug string) (*models.Group, error) {
	var group models.Group
	err := r.db.Where("slug = ?", slug).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List() ([]models.Group, error) {
	groups := []models.Group{}
	err := r.db.Order("title ASC").Find(&groups).Error
	return groups, err
}

func (r *groupRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Group{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
