package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mdoering/marquee/internal/domain"
)

// Register creates a new account via POST users/signup. The endpoint is
// unauthenticated. Field validation failures come back as
// {"errors": [...]} and are surfaced as a *domain.ValidationError.
func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	body, err := json.Marshal(map[string]string{
		"Username": reg.Username,
		"Password": reg.Password,
		"Email":    reg.Email,
		"Birthday": reg.Birthday,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	_, err = c.doRequest(ctx, http.MethodPost, "users/signup", body, false)
	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) {
			var resp signupErrorResponse
			if json.Unmarshal([]byte(remote.Body), &resp) == nil && len(resp.Errors) > 0 {
				return &domain.ValidationError{Messages: resp.Errors}
			}
		}
		return err
	}

	c.logger.Info("account registered", "username", reg.Username)
	return nil
}

// Login exchanges credentials for a session via POST users/login. Bad
// credentials surface as ErrAuthFailed regardless of the exact status
// the server picked; the caller shows a generic message either way.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	body, err := json.Marshal(map[string]string{
		"Username": creds.Username,
		"Password": creds.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, "users/login", body, false)
	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) && remote.Status == http.StatusBadRequest {
			return nil, domain.ErrAuthFailed
		}
		return nil, err
	}

	var resp loginResponse
	if err := decode(respBody, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &domain.DataShapeError{Field: "user"}
	}
	if resp.Token == "" {
		return nil, &domain.DataShapeError{Field: "token"}
	}

	c.logger.Info("logged in", "username", resp.User.Username)
	return &domain.Session{User: *resp.User.toDomain(), Token: resp.Token}, nil
}

// GetUser fetches the current user's record via GET users/{username}.
func (c *Client) GetUser(ctx context.Context) (*domain.User, error) {
	username := c.tokens.Username()
	if username == "" {
		return nil, domain.ErrNoSession
	}

	respBody, err := c.doRequest(ctx, http.MethodGet, "users/"+username, nil, true)
	if err != nil {
		return nil, err
	}

	var dto userDTO
	if err := decode(respBody, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

// UpdateProfile applies changes via PUT users/update/{username} and
// returns the updated record. Empty fields are omitted so the server
// keeps its current values.
func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	username := c.tokens.Username()
	if username == "" {
		return nil, domain.ErrNoSession
	}

	fields := map[string]string{}
	if update.Username != "" {
		fields["Username"] = update.Username
	}
	if update.Password != "" {
		fields["Password"] = update.Password
	}
	if update.Email != "" {
		fields["Email"] = update.Email
	}
	if update.Birthday != "" {
		fields["Birthday"] = update.Birthday
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := c.doRequest(ctx, http.MethodPut, "users/update/"+username, body, true)
	if err != nil {
		return nil, err
	}

	var dto userDTO
	if err := decode(respBody, &dto); err != nil {
		return nil, err
	}

	c.logger.Info("profile updated", "username", dto.Username)
	return dto.toDomain(), nil
}

// DeleteAccount removes the account via DELETE users/deregister/{username}.
func (c *Client) DeleteAccount(ctx context.Context) error {
	username := c.tokens.Username()
	if username == "" {
		return domain.ErrNoSession
	}

	if _, err := c.doRequest(ctx, http.MethodDelete, "users/deregister/"+username, nil, true); err != nil {
		return err
	}

	c.logger.Info("account deleted", "username", username)
	return nil
}
