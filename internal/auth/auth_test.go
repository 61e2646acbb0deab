package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLoginLogout(t *testing.T) {
	s := NewSession()
	require.False(t, s.IsLoggedIn())
	firstGuest := s.GuestSession()
	require.NotEmpty(t, firstGuest)

	s.Login("tok-1", User{ID: 7, Username: "ada", LoyaltyPoints: 250})

	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, "tok-1", s.Token())
	user := s.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, int64(250), user.LoyaltyPoints)
	assert.Equal(t, firstGuest, s.GuestSession(), "login keeps the guest session for cart association")

	s.Logout()

	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.CurrentUser())
	assert.NotEqual(t, firstGuest, s.GuestSession(), "logout rotates the guest identity")
}

func TestCurrentUserReturnsCopy(t *testing.T) {
	s := NewSession()
	s.Login("tok-1", User{ID: 7, LoyaltyPoints: 100})

	u := s.CurrentUser()
	u.LoyaltyPoints = 0

	assert.Equal(t, int64(100), s.CurrentUser().LoyaltyPoints)
}
