package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"auraz-storefront/internal/domain"
)

type LoginResult struct {
	User    domain.User `json:"user"`
	IsAdmin bool        `json:"isAdmin"`
	Token   string      `json:"token"`
}

// Registration is the sign-up form posted to the auth endpoint.
type Registration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	Gender       string `json:"gender,omitempty"`
}

type RegisterResult struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/api/auth", nil, body)
	if err != nil {
		return LoginResult{}, err
	}
	var res LoginResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return LoginResult{}, fmt.Errorf("decode login: %w", err)
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, in Registration) (RegisterResult, error) {
	body := struct {
		Action string `json:"action"`
		Registration
	}{Action: "register", Registration: in}
	raw, err := c.do(ctx, http.MethodPost, "/api/auth", nil, body)
	if err != nil {
		return RegisterResult{}, err
	}
	var res RegisterResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return RegisterResult{}, fmt.Errorf("decode register: %w", err)
	}
	return res, nil
}
