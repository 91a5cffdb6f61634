package apiclient

import (
	"context"
	"errors"
	"net/http"
)

// Login exchanges first-party credentials for a bearer token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (string, User, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", User{}, err
	}
	return c.decodeAuth(env)
}

// Register creates an account and returns a bearer token and profile, so a
// fresh registration is immediately signed in.
func (c *Client) Register(ctx context.Context, params RegisterParams) (string, User, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/register", params)
	if err != nil {
		return "", User{}, err
	}
	return c.decodeAuth(env)
}

// Federated exchanges a federated identity assertion for a first-party
// bearer token and profile. The backend creates the account on first sight.
func (c *Client) Federated(ctx context.Context, assertion string) (string, User, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/federated", map[string]string{
		"assertion": assertion,
	})
	if err != nil {
		return "", User{}, err
	}
	return c.decodeAuth(env)
}

// Me fetches the authenticated user's profile. Returns ErrUnauthorized when
// the attached credential is missing, invalid or expired.
func (c *Client) Me(ctx context.Context) (User, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return User{}, err
	}
	return env.decodeUser()
}

// Logout notifies the backend that the session is over. Best-effort: the
// caller is expected to discard the credential regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}

// UpdateProfileParams carries profile edits; zero-valued fields are omitted
// from the request so the backend keeps their current values.
type UpdateProfileParams struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Bio       string
	Avatar    *FileUpload
}

// UpdateProfile submits profile edits as multipart form data, with an
// optional avatar image, and returns the refreshed profile.
func (c *Client) UpdateProfile(ctx context.Context, params UpdateProfileParams) (User, error) {
	fields := map[string]string{
		"firstName": params.FirstName,
		"lastName":  params.LastName,
		"phone":     params.Phone,
		"address":   params.Address,
		"bio":       params.Bio,
	}
	files := map[string]FileUpload{}
	if params.Avatar != nil {
		files["avatar"] = *params.Avatar
	}

	env, err := c.doMultipart(ctx, http.MethodPut, "/users/me", fields, files)
	if err != nil {
		return User{}, err
	}
	return env.decodeUser()
}

func (c *Client) decodeAuth(env *envelope) (string, User, error) {
	if env.Token == "" {
		return "", User{}, errors.Join(ErrTransient, errors.New("apiclient: envelope missing token"))
	}
	user, err := env.decodeUser()
	if err != nil {
		return "", User{}, err
	}
	return env.Token, user, nil
}
