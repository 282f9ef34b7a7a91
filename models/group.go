package models

// Group is a read-only collection of posts. Groups are provisioned by the
// operator and never change through the web interface.
type Group struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	Title       string `gorm:"type:varchar(200)"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex"`
	Description string `gorm:"type:text"`
}
