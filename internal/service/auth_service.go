package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"babyboss-sales/internal/events"
	"babyboss-sales/internal/model"
	"babyboss-sales/internal/repository"
	"babyboss-sales/pkg/jwt"
	"babyboss-sales/pkg/validator"
)

// SessionIdleTimeout ends sessions without a heartbeat for this long.
const SessionIdleTimeout = 5 * time.Minute

// SeedAdminID is the id of the admin created on an empty store.
const SeedAdminID = "admin_init"

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ChangePassword(userID string, req *ChangePasswordRequest) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID string) error
	SeedAdmin(password string) (bool, error)
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       model.Role         `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       model.Role         `json:"role"`
	Privileges []string           `json:"privileges"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type authService struct {
	userRepo repository.UserRepository
	puller   Puller
	notifier events.Notifier
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthService builds the auth service. puller may be nil.
func NewAuthService(userRepo repository.UserRepository, puller Puller, notifier events.Notifier, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		puller:   puller,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	// 1. Refresh users from the sheet; login never waits on a broken sync
	if s.puller != nil {
		if _, err := s.puller.Pull(ctx); err != nil && !errors.Is(err, ErrSyncDisabled) {
			s.log.Warn("pull before login failed", zap.Error(err))
		}
	}

	// 2. Find user by username
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Single session: a new token version invalidates older tokens
	now := s.now()
	user.TokenVersion = uuid.NewString()
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	// 5. Generate JWT token with TokenVersion
	privileges := user.Privileges()
	token, err := jwt.GenerateToken(user.ID, user.Username, user.FullName, string(user.Role), string(user.Branch), privileges, user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: privileges,
	}, nil
}

func (s *authService) ChangePassword(userID string, req *ChangePasswordRequest) error {
	// 1. Validate request
	if err := validator.Error(req); err != nil {
		return err
	}

	// 2. Find user
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	// 3. Verify old password
	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}

	// 4. Set new password
	if err := user.SetPassword(req.NewPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	user.UpdatedBy = userID

	return s.userRepo.Update(user)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	// 1. Validate JWT token
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 2. Find user by ID from token claims
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 3. Strict session check
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	// 4. Inactivity; a user who never sent a heartbeat has to log in again
	if user.LastSeenAt == nil || s.now().Sub(*user.LastSeenAt) > SessionIdleTimeout {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.Privileges(),
	}, nil
}

func (s *authService) Heartbeat(userID string) error {
	// 1. Update timestamp
	now := s.now()
	if err := s.userRepo.UpdateLastSeen(userID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// 2. Tell every client the user is online
	s.notifier.Notify(events.UserStatusUpdate, map[string]interface{}{
		"userId":     userID,
		"status":     "online",
		"lastSeenAt": now,
	})
	return nil
}

// SeedAdmin creates the default admin when no user exists yet.
func (s *authService) SeedAdmin(password string) (bool, error) {
	n, err := s.userRepo.Count()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	admin := &model.User{
		FullName: "System Admin",
		Phone:    "0909000000",
		Position: "Administrator",
		Username: "admin",
		Role:     model.RoleAdmin,
		Branch:   model.BranchHeadOffice,
	}
	admin.ID = SeedAdminID
	if err := admin.SetPassword(password); err != nil {
		return false, err
	}
	if err := s.userRepo.Create(admin); err != nil {
		return false, err
	}
	s.log.Info("seeded default admin", zap.String("username", admin.Username))
	return true, nil
}
