package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIDKey = "id"

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) UserID() uint64 {
	id := s.Get(userIDKey)
	if id == nil {
		return 0
	}
	v, ok := id.(uint64)
	if !ok {
		return 0
	}
	return v
}

func (s *Session) LoginUser(id uint64) error {
	s.Set(userIDKey, id)
	return s.Save()
}

func (s *Session) LogoutUser() {
	s.Delete(userIDKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = s.Save()
}
