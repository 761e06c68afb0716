package services

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserService interface {
	// Register creates a customer account
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	// Authenticate checks email and password. Locked accounts are refused.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, input models.UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, input models.UserInput) (*models.User, error)
	// ToggleActive locks or unlocks an account. actorID may not lock itself.
	ToggleActive(ctx context.Context, id, actorID uint) (*models.User, error)
	// DeleteUser removes an account with its orders and clients. actorID may not delete itself.
	DeleteUser(ctx context.Context, id, actorID uint) error
}

type userService struct {
	db        *gorm.DB
	sanitizer Sanitizer
}

func NewUserService(db *gorm.DB, sanitizer Sanitizer) UserService {
	return &userService{db: db, sanitizer: sanitizer}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return s.CreateUser(ctx, models.UserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Address:     req.Address,
		DateOfBirth: req.DateOfBirth,
		Role:        models.RoleCustomer,
	})
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		log.WithField("user_id", user.ID).Warn("Login with wrong password")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, errors.Wrapf(ErrAccountLocked, "user %d", user.ID)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFound(err, "user %s", email)
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user %d", id)
	}
	return &user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, input models.UserInput) (*models.User, error) {
	if input.Password == "" {
		return nil, errors.Wrap(ErrValidation, "password is required")
	}
	user := models.User{IsActive: true}
	if err := s.apply(ctx, &user, input); err != nil {
		return nil, err
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User created")
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, input models.UserInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, user, input); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"username":      user.Username,
		"email":         user.Email,
		"full_name":     user.FullName,
		"phone":         user.Phone,
		"address":       user.Address,
		"date_of_birth": user.DateOfBirth,
		"role":          user.Role,
	}
	if input.Password != "" {
		if err := user.SetPassword(input.Password); err != nil {
			return nil, errors.Wrap(err, "hash password")
		}
		updates["password_hash"] = user.PasswordHash
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, errors.Wrapf(err, "update user %d", id)
	}
	return s.GetUserByID(ctx, id)
}

// apply validates input and copies it onto user, keeping the role when none is given
func (s *userService) apply(ctx context.Context, user *models.User, input models.UserInput) error {
	email := normalizeEmail(input.Email)
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count).Error; err != nil {
		return errors.Wrap(err, "check email")
	}
	if count > 0 {
		return errors.Wrapf(ErrAlreadyExists, "email %s", email)
	}

	user.Username = s.sanitizer.Sanitize(input.Username)
	user.FullName = s.sanitizer.Sanitize(input.FullName)
	user.Phone = s.sanitizer.Sanitize(input.Phone)
	user.Address = s.sanitizer.Sanitize(input.Address)
	user.Email = email
	user.DateOfBirth = input.DateOfBirth
	if user.Username == "" || user.FullName == "" {
		return errors.Wrap(ErrValidation, "username and full name are required")
	}
	switch {
	case input.Role != "" && !input.Role.IsValid():
		return errors.Wrapf(ErrValidation, "unknown role %q", input.Role)
	case input.Role != "":
		user.Role = input.Role
	case user.Role == "":
		user.Role = models.RoleCustomer
	}
	return nil
}

func (s *userService) ToggleActive(ctx context.Context, id, actorID uint) (*models.User, error) {
	if id == actorID {
		return nil, errors.Wrap(ErrForbidden, "cannot lock your own account")
	}
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", !user.IsActive).Error; err != nil {
		return nil, errors.Wrapf(err, "toggle user %d", id)
	}
	user.IsActive = !user.IsActive
	log.WithFields(logrus.Fields{"user_id": id, "is_active": user.IsActive, "actor_id": actorID}).Info("User lock changed")
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return errors.Wrap(ErrForbidden, "cannot delete your own account")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user %d", id)
		}
		orders := tx.Model(&models.Order{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("order_id IN (?)", orders).Delete(&models.OrderStatusChange{}).Error; err != nil {
			return errors.Wrap(err, "delete status history")
		}
		if err := tx.Where("order_id IN (?)", orders).Delete(&models.OrderItem{}).Error; err != nil {
			return errors.Wrap(err, "delete order items")
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Order{}).Error; err != nil {
			return errors.Wrap(err, "delete orders")
		}
		clients := tx.Unscoped().Model(&models.OAuthClient{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("client_id IN (?)", clients).Delete(&models.OAuthToken{}).Error; err != nil {
			return errors.Wrap(err, "delete client tokens")
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&models.OAuthClient{}).Error; err != nil {
			return errors.Wrap(err, "delete clients")
		}
		if err := tx.Delete(&user).Error; err != nil {
			return errors.Wrapf(err, "delete user %d", id)
		}
		log.WithFields(logrus.Fields{"user_id": id, "actor_id": actorID}).Info("User deleted")
		return nil
	})
}
