package models

import "time"

type Comment struct {
	ID       uint64 `gorm:"primaryKey"`
	Created  int64  `gorm:"index:comment_order,priority:2"`
	PostID   uint64 `gorm:"index:comment_order,priority:1"`
	Post     Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID uint64
	Author   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text     string `gorm:"type:text"`
}

func (c *Comment) CreatedTime() time.Time {
	return time.Unix(c.Created, 0)
}
