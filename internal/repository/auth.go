package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/apierr"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/result"
	"fintrack/internal/session"
	"fintrack/internal/tokenstore"
)

// AuthRepository owns the session: it stores the token issued on login or
// registration and resolves the current user from it.
type AuthRepository struct {
	api    *api.AuthAPI
	tokens tokenstore.Store
	logger *log.Logger
	now    func() time.Time
}

func NewAuthRepository(authAPI *api.AuthAPI, tokens tokenstore.Store, logger *log.Logger) *AuthRepository {
	return &AuthRepository{
		api:    authAPI,
		tokens: tokens,
		logger: logger.WithComponent(log.ComponentAuth),
		now:    time.Now,
	}
}

func (r *AuthRepository) Login(ctx context.Context, email, password string) (result.Result[core.User], error) {
	return call(ctx, r.logger, log.OpLogin, func(ctx context.Context) (core.User, error) {
		token, err := r.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
		if err != nil {
			return core.User{}, err
		}
		return r.establish(ctx, token)
	})
}

func (r *AuthRepository) Register(ctx context.Context, name, email, password string) (result.Result[core.User], error) {
	return call(ctx, r.logger, log.OpRegister, func(ctx context.Context) (core.User, error) {
		token, err := r.api.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
		if err != nil {
			return core.User{}, err
		}
		return r.establish(ctx, token)
	})
}

// Logout forgets the stored token.
func (r *AuthRepository) Logout(ctx context.Context) (result.Result[none], error) {
	return call(ctx, r.logger, log.OpLogout, func(ctx context.Context) (none, error) {
		if err := r.tokens.Clear(ctx); err != nil {
			return none{}, fmt.Errorf("clear token: %w", err)
		}
		r.logger.InfoContext(ctx, "Logged out")
		return none{}, nil
	})
}

// CurrentUser resolves the user named by the stored token.
func (r *AuthRepository) CurrentUser(ctx context.Context) (result.Result[core.User], error) {
	return call(ctx, r.logger, log.OpRead, func(ctx context.Context) (core.User, error) {
		return r.user(ctx, r.tokens.Token())
	})
}

func (r *AuthRepository) IsLoggedIn() bool {
	return r.tokens.Token() != ""
}

// WatchLoggedIn emits whether a token is stored, now and on every change.
func (r *AuthRepository) WatchLoggedIn(ctx context.Context) <-chan bool {
	tokens := r.tokens.Watch(ctx)
	out := make(chan bool, 1)
	go func() {
		defer close(out)
		for token := range tokens {
			select {
			case out <- token != "":
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (r *AuthRepository) establish(ctx context.Context, token string) (core.User, error) {
	if err := r.tokens.Save(ctx, token); err != nil {
		return core.User{}, fmt.Errorf("save token: %w", err)
	}
	user, err := r.user(ctx, token)
	if err != nil {
		return core.User{}, err
	}
	r.logger.InfoContext(ctx, "Session established", log.FieldUserID, user.ID)
	return user, nil
}

func (r *AuthRepository) user(ctx context.Context, token string) (core.User, error) {
	claims, err := session.ParseClaims(token)
	switch {
	case errors.Is(err, session.ErrNoToken):
		return core.User{}, apierr.New(apierr.Unauthorized, "not logged in")
	case err != nil:
		return core.User{}, &apierr.Error{Kind: apierr.InvalidState, Message: "unreadable session token", Err: err}
	case claims.Expired(r.now()):
		return core.User{}, apierr.New(apierr.Unauthorized, "session expired")
	}

	dto, err := r.api.User(ctx, claims.UserID)
	if err != nil {
		return core.User{}, err
	}
	return dto.ToDomain(), nil
}
