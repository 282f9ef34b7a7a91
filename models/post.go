package models

import "time"

type Post struct {
	ID uint64 `gorm:"primaryKey"`
	// PubDate is set once at creation and never updated
	PubDate  int64   `gorm:"index:post_feed,priority:2"`
	AuthorID uint64  `gorm:"index"`
	Author   User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupID  *uint64 `gorm:"index:post_feed,priority:1"`
	Group    *Group  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Text     string  `gorm:"type:text"`
	// ImagePath and ThumbPath are storage references, empty when no image was attached
	ImagePath string `gorm:"type:varchar(300)"`
	ThumbPath string `gorm:"type:varchar(300)"`
}

func (p *Post) PubTime() time.Time {
	return time.Unix(p.PubDate, 0)
}

func (p *Post) HasImage() bool {
	return p.ImagePath != ""
}
