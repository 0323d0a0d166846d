package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/cache"
	"babyboss-sales/internal/events"
	"babyboss-sales/internal/model"
	"babyboss-sales/internal/repository"
	"babyboss-sales/internal/sheets"
	"babyboss-sales/pkg/validator"
)

// DefaultPosition is given to users created without one.
const DefaultPosition = "Nhân viên kinh doanh"

type UserService interface {
	GetAllUsers(actorID string) ([]model.UserResponse, error)
	GetUserByID(actorID, id string) (*model.UserResponse, error)
	CreateUser(ctx context.Context, actorID string, req *CreateUserRequest) (*model.UserResponse, SyncOutcome, error)
	UpdateUser(ctx context.Context, actorID, id string, req *UpdateUserRequest) (*model.UserResponse, SyncOutcome, error)
	FilterOptions(actorID string) (*FilterOptions, error)
}

type CreateUserRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,role"`
	Branch   string `json:"branch" validate:"omitempty,branch"`
}

// UpdateUserRequest has no username: it cannot change after creation.
type UpdateUserRequest struct {
	FullName string  `json:"fullName" validate:"required"`
	Phone    string  `json:"phone"`
	Position string  `json:"position"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	Role     string  `json:"role" validate:"omitempty,role"`
	Branch   string  `json:"branch" validate:"omitempty,branch"`
}

// FilterOptions feeds the branch and user pickers of the report screens.
type FilterOptions struct {
	Branches []model.Branch `json:"branches"`
	Users    []UserOption   `json:"users"`
}

type UserOption struct {
	ID       string       `json:"id"`
	FullName string       `json:"fullName"`
	Role     model.Role   `json:"role"`
	Branch   model.Branch `json:"branch"`
}

type userService struct {
	userRepo repository.UserRepository
	pusher   Pusher
	reports  cache.ReportCache
	notifier events.Notifier
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, pusher Pusher, reports cache.ReportCache, notifier events.Notifier, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		pusher:   pusher,
		reports:  reports,
		notifier: notifier,
		log:      log,
	}
}

func withManager(u *model.User, users []model.User) model.UserResponse {
	resp := u.ToResponse()
	resp.DirectManager = access.DirectManager(u, users)
	return resp
}

func (s *userService) GetAllUsers(actorID string) ([]model.UserResponse, error) {
	scope, err := loadScope(s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	users := scope.Users()
	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		if scope.CanSeeUser(users[i].ID) {
			out = append(out, withManager(&users[i], users))
		}
	}
	return out, nil
}

func (s *userService) GetUserByID(actorID, id string) (*model.UserResponse, error) {
	scope, err := loadScope(s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	u, ok := scope.User(id)
	if !ok || !scope.CanSeeUser(id) {
		return nil, ErrUserNotFound
	}
	resp := withManager(u, scope.Users())
	return &resp, nil
}

func (s *userService) CreateUser(ctx context.Context, actorID string, req *CreateUserRequest) (*model.UserResponse, SyncOutcome, error) {
	// 1. Validate request
	if err := validator.Error(req); err != nil {
		return nil, "", err
	}
	if err := s.requireAdmin(actorID); err != nil {
		return nil, "", err
	}

	// 2. Check if username already exists
	username := strings.TrimSpace(req.Username)
	if existing, _ := s.userRepo.FindByUsername(username); existing != nil {
		return nil, "", ErrUsernameTaken
	}

	// 3. Build user with defaults
	user := &model.User{
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
		Position: strings.TrimSpace(req.Position),
		Username: username,
		Role:     model.ParseRole(req.Role),
		Branch:   model.Branch(req.Branch),
	}
	if user.Position == "" {
		user.Position = DefaultPosition
	}
	if user.Branch == "" {
		user.Branch = model.BranchHeadOffice
	}
	user.CreatedBy = actorID
	if err := user.SetPassword(req.Password); err != nil {
		return nil, "", errors.New("failed to hash password")
	}

	// 4. Save locally, then push
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}
	synced := s.pusher.Push(ctx, model.ActionAddUser, user.ID, sheets.UserFromModel(user))

	resp, err := s.GetUserByID(actorID, user.ID)
	if err != nil {
		return nil, synced, err
	}
	invalidateReports(ctx, s.reports, s.log)
	s.notifier.Notify(events.UserCreated, resp)
	return resp, synced, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID, id string, req *UpdateUserRequest) (*model.UserResponse, SyncOutcome, error) {
	// 1. Validate request
	if err := validator.Error(req); err != nil {
		return nil, "", err
	}
	if err := s.requireAdmin(actorID); err != nil {
		return nil, "", err
	}

	// 2. Find user
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, "", ErrUserNotFound
	}

	// 3. Apply changes
	user.FullName = strings.TrimSpace(req.FullName)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Position = strings.TrimSpace(req.Position)
	if req.Role != "" {
		user.Role = model.ParseRole(req.Role)
	}
	if req.Branch != "" {
		user.Branch = model.Branch(req.Branch)
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, "", errors.New("failed to hash password")
		}
	}
	user.UpdatedBy = actorID

	// 4. Save locally, then push
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", err
	}
	synced := s.pusher.Push(ctx, model.ActionUpdateUser, user.ID, sheets.UserFromModel(user))

	resp, err := s.GetUserByID(actorID, user.ID)
	if err != nil {
		return nil, synced, err
	}
	invalidateReports(ctx, s.reports, s.log)
	s.notifier.Notify(events.UserUpdated, resp)
	return resp, synced, nil
}

// FilterOptions lists the branches and users the actor may filter reports by.
func (s *userService) FilterOptions(actorID string) (*FilterOptions, error) {
	scope, err := loadScope(s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	opts := &FilterOptions{Branches: []model.Branch{}, Users: []UserOption{}}
	actor := scope.Actor()
	if actor.Role.CanViewAll() {
		opts.Branches = append(opts.Branches, model.Branches...)
	}
	if !actor.Role.Supervises() {
		return opts, nil
	}
	for _, u := range scope.Users() {
		if !scope.CanSeeUser(u.ID) {
			continue
		}
		opts.Users = append(opts.Users, UserOption{ID: u.ID, FullName: u.FullName, Role: u.Role, Branch: u.Branch})
	}
	return opts, nil
}

func (s *userService) requireAdmin(actorID string) error {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return ErrUserNotFound
	}
	if !actor.Role.CanViewAll() {
		return ErrForbidden
	}
	return nil
}

