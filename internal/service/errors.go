package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/cache"
	"babyboss-sales/internal/repository"
	"babyboss-sales/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInvalidOwner       = errors.New("new owner is not a user you manage")
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrUnknownPrice       = errors.New("no price for this product line and size")
	ErrGiftNotAllowed     = errors.New("gift toppings are only allowed on the first order of a customer")
	ErrDepositTooLarge    = errors.New("deposit cannot exceed the total payment")
	ErrSyncDisabled       = errors.New("sheet sync is not configured")
)

// fieldError reports a single failed field the way the validator does.
func fieldError(field, tag string) error {
	return fmt.Errorf("%w: Field '%s' failed on tag '%s'", validator.ErrValidation, field, tag)
}

// loadScope resolves the records actorID may see.
func loadScope(users repository.UserRepository, actorID string) (*access.Scope, error) {
	actor, err := users.FindByID(actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	all, err := users.FindAll()
	if err != nil {
		return nil, err
	}
	return access.Resolve(actor, all), nil
}

// invalidateReports drops cached dashboards after a write. Failures only
// delay freshness until the cache TTL, so they are logged.
func invalidateReports(ctx context.Context, c cache.ReportCache, log *zap.Logger) {
	if err := c.Invalidate(ctx); err != nil {
		log.Warn("invalidate report cache", zap.Error(err))
	}
}
