package api

import "context"

// Credentials are the email/password pair for the login and register endpoints.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo is the signed-in account as reported by the backend.
type UserInfo struct {
	ID         int    `json:"id"`
	Email      string `json:"email"`
	ProfilePic string `json:"profile_pic"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.postNoAuth(ctx, "/auth/login", creds, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	return c.postNoAuth(ctx, "/auth/register", creds, nil)
}

// MyInfo returns the signed-in account.
func (c *Client) MyInfo(ctx context.Context) (UserInfo, error) {
	var info UserInfo
	if err := c.get(ctx, "/auth/myInfo", &info); err != nil {
		return UserInfo{}, err
	}
	return info, nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, password string) error {
	body := struct {
		Password string `json:"password"`
	}{Password: password}
	return c.post(ctx, "/auth/change_password", body, nil)
}

// UpdateProfilePic stores a base64-encoded profile picture.
func (c *Client) UpdateProfilePic(ctx context.Context, picB64 string) error {
	body := struct {
		ProfilePic string `json:"profile_pic"`
	}{ProfilePic: picB64}
	return c.post(ctx, "/auth/update_profile_pic", body, nil)
}
