package viewmodel

import (
	"context"

	"fintrack/internal/apierr"
	"fintrack/internal/core"
	"fintrack/internal/repository"
	"fintrack/internal/result"
	"fintrack/internal/stream"
)

// ErrLoggedOut is the Session error after a successful Logout.
var ErrLoggedOut = apierr.New(apierr.Unauthorized, "logged out")

type AuthViewModel struct {
	*scope
	repo     *repository.AuthRepository
	session  *stream.Value[result.Result[core.User]]
	loggedIn *stream.Value[bool]
}

// NewAuthViewModel mirrors the stored token into LoggedIn until ctx ends.
// Session stays Loading until an action or RefreshUser settles it.
func NewAuthViewModel(ctx context.Context, repo *repository.AuthRepository) *AuthViewModel {
	vm := &AuthViewModel{
		scope:    newScope(ctx),
		repo:     repo,
		session:  stream.New(result.Loading[core.User]()),
		loggedIn: stream.New(repo.IsLoggedIn()),
	}
	go func() {
		for in := range repo.WatchLoggedIn(vm.ctx) {
			vm.loggedIn.Set(in)
		}
	}()
	return vm
}

// Session holds the signed-in user.
func (vm *AuthViewModel) Session() *stream.Value[result.Result[core.User]] { return vm.session }

// LoggedIn is true while a token is stored.
func (vm *AuthViewModel) LoggedIn() *stream.Value[bool] { return vm.loggedIn }

func (vm *AuthViewModel) Login(email, password string) {
	vm.session.Set(result.Loading[core.User]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Login(ctx, email, password)
		publish(vm.session, res, err)
	})
}

func (vm *AuthViewModel) Register(name, email, password string) {
	vm.session.Set(result.Loading[core.User]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Register(ctx, name, email, password)
		publish(vm.session, res, err)
	})
}

// Logout clears the token; Session then reports Unauthorized.
func (vm *AuthViewModel) Logout() {
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Logout(ctx)
		if err != nil {
			return
		}
		if res.IsError() {
			vm.session.Set(result.Error[core.User](res.Err()))
			return
		}
		vm.session.Set(result.Error[core.User](ErrLoggedOut))
	})
}

func (vm *AuthViewModel) RefreshUser() {
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.CurrentUser(ctx)
		publish(vm.session, res, err)
	})
}
