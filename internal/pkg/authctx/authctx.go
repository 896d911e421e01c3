package authctx

import "github.com/google/uuid"

// Context identifies the authenticated actor. It is built by the session
// middleware and threaded explicitly into every service call that needs
// authorization, so the dependency is visible in the signature.
type Context struct {
	UserID           uuid.UUID
	Name             string
	Email            string
	Role             string
	UserType         string
	ProfileCompleted bool
}

func (c Context) IsAdmin() bool {
	return c.Role == "admin"
}

func (c Context) IsZero() bool {
	return c.UserID == uuid.Nil
}
