package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/hospital_scheduler/internal/auth"
	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository"
	"go.uber.org/zap"
)

// TokenIssuer выпускает токен доступа
type TokenIssuer interface {
	IssueToken(userID int64, roles []model.Role) (string, error)
}

type UserService struct {
	store       Store
	tokens      TokenIssuer
	adminEmails map[string]bool
	logger      *zap.Logger
}

func NewUserService(store Store, tokens TokenIssuer, adminEmails []string, logger *zap.Logger) *UserService {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[normalizeEmail(email)] = true
	}
	return &UserService{
		store:       store,
		tokens:      tokens,
		adminEmails: admins,
		logger:      logger,
	}
}

// RegisterUser регистрирует пользователя с ролью user.
// Адреса из ADMIN_EMAILS дополнительно получают роль admin.
func (s *UserService) RegisterUser(ctx context.Context, email, firstName, lastName, password string) (*model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        normalizeEmail(email),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PasswordHash: hash,
		Roles:        []model.Role{model.RoleUser},
	}
	if s.adminEmails[user.Email] {
		user.Roles = append(user.Roles, model.RoleAdmin)
	}

	err = s.store.InTx(ctx, func(tx Repos) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return Conflict(MsgEmailExists)
			}
			return fmt.Errorf("create user: %w", err)
		}
		for _, role := range user.Roles {
			if err := tx.Users.AddRole(ctx, user.ID, role); err != nil {
				return fmt.Errorf("add role: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Bool("admin", user.HasRole(model.RoleAdmin)),
	)

	return user, nil
}

// Login проверяет email и пароль и выпускает токен
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.Repos().Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return "", Unauthorized(MsgInvalidCredentials)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.Warn("Failed login attempt", zap.Int64("user_id", user.ID))
		return "", Unauthorized(MsgInvalidCredentials)
	}

	token, err := s.tokens.IssueToken(user.ID, user.Roles)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.store.Repos().Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, NotFound(MsgUserNotFound)
	}
	return user, nil
}

// AssignRole выдаёт роль пользователю
func (s *UserService) AssignRole(ctx context.Context, userID int64, roleName string) error {
	role, ok := model.ParseRole(roleName)
	if !ok {
		return Invalid(fmt.Sprintf("unknown role %q", roleName))
	}

	repos := s.store.Repos()

	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return NotFound(MsgUserNotFound)
	}

	if err := repos.Users.AddRole(ctx, userID, role); err != nil {
		return fmt.Errorf("add role: %w", err)
	}

	s.logger.Info("Role assigned",
		zap.Int64("user_id", userID),
		zap.String("role", string(role)),
	)

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
