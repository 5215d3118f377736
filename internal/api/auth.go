package api

import (
	"context"
	"net/http"

	"fintrack/internal/apiclient"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse accepts both the bare {token} body and a result envelope.
type tokenResponse struct {
	Token  string `json:"token"`
	Result *struct {
		Token string `json:"token"`
	} `json:"result"`
}

func (r tokenResponse) token() string {
	if r.Token != "" {
		return r.Token
	}
	if r.Result != nil {
		return r.Result.Token
	}
	return ""
}

type AuthAPI struct {
	client *apiclient.Client
}

func NewAuthAPI(client *apiclient.Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// Login exchanges credentials for a bearer token.
func (a *AuthAPI) Login(ctx context.Context, req LoginRequest) (string, error) {
	return a.exchange(ctx, "/auth/login", req)
}

// Register creates a user and returns its bearer token.
func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (string, error) {
	return a.exchange(ctx, "/auth/register", req)
}

func (a *AuthAPI) exchange(ctx context.Context, path string, body any) (string, error) {
	var resp tokenResponse
	if err := a.client.Do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return "", err
	}
	token := resp.token()
	if token == "" {
		return "", &apiclient.SerializationError{Op: "decode", Err: errMissingToken}
	}
	return token, nil
}

func (a *AuthAPI) User(ctx context.Context, id string) (UserDTO, error) {
	return apiclient.Get[UserDTO](ctx, a.client, apiclient.PathOf("users", id), nil)
}
