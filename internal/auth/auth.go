package auth

import "github.com/google/uuid"

// User is the authenticated identity the storefront holds after login.
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	LoyaltyPoints int64  `json:"loyalty_points"`
}

// Interface is the auth collaborator the cart core consumes. The
// authentication protocol itself belongs to an external service that hands
// the storefront a bearer token; this interface only answers who, if
// anyone, is logged in.
type Interface interface {
	IsLoggedIn() bool
	CurrentUser() *User
	Token() string
	GuestSession() string
}

// Session holds the bearer token and user returned by the auth service,
// plus the guest session id that identifies the anonymous cart. It is an
// explicit object owned by whoever owns the request flow, not an ambient
// global: populated on login, reset on logout.
type Session struct {
	token   string
	user    *User
	guestID string
}

func NewSession() *Session {
	return &Session{guestID: uuid.NewString()}
}

func (s *Session) Login(token string, u User) {
	s.token = token
	s.user = &u
}

// Logout drops the token and rotates the guest session id, so the next
// anonymous cart starts from a fresh identity.
func (s *Session) Logout() {
	s.token = ""
	s.user = nil
	s.guestID = uuid.NewString()
}

func (s *Session) IsLoggedIn() bool {
	return s.token != "" && s.user != nil
}

func (s *Session) CurrentUser() *User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) GuestSession() string {
	return s.guestID
}
