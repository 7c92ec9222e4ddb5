package auth

import "context"

// LoginTestChecker maps tokens straight to user ids, for tests and local runs.
type LoginTestChecker struct {
	LoggedSessions map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		map[string]string{},
	}
}

func (c *LoginTestChecker) UserID(_ context.Context, token string) (string, error) {
	if userID, ok := c.LoggedSessions[token]; ok {
		return userID, nil
	}
	return "", ErrNotLoggedIn
}
