package models

import (
	"blog/utils"
)

const saltSize = 60

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Username  string `gorm:"type:varchar(150);uniqueIndex"`
	Email     string `gorm:"type:varchar(150)"`
	Password  string `gorm:"type:varchar(128)"`
	PassSalt  string `gorm:"type:varchar(200)"`
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return u.Password == utils.Sha512String(plainTextPassword+u.PassSalt)
}
