package identity

// Actor is the explicit identity handed to every workflow operation.
// The zero value is an anonymous visitor.
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// IsAuthenticated reports whether the actor is a logged in user
func (a Actor) IsAuthenticated() bool {
	return a.UserID != 0
}

// CanModify applies the owner-or-admin rule to an entity owned by ownerID.
func (a Actor) CanModify(ownerID uint) bool {
	if !a.IsAuthenticated() {
		return false
	}
	return a.UserID == ownerID || a.IsAdmin
}
