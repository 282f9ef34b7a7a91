package auth

// Actor is the identity performing a request. The zero value is an anonymous
// visitor. Handlers receive the actor explicitly, there is no ambient
// current-user state.
type Actor struct {
	ID       uint64
	Username string
}

var Anonymous = Actor{}

func (a Actor) IsAuthenticated() bool {
	return a.ID != 0
}
