package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/graalonline/support-service/internal/errs"
	"github.com/graalonline/support-service/internal/model"
)

// UserServicer covers user lookup, implicit creation on login, and role
// administration.
type UserServicer interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	RecordLogin(ctx context.Context, email, ip string) (*model.User, error)
	SetRole(ctx context.Context, email string, role model.Role) error
}

type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, "email = ?", model.NormalizeEmail(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return &u, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("email").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// RecordLogin upserts the user for a verified code exchange: first login
// creates the row with role user and stamps the first-login IP, later logins
// only refresh the login metadata. An existing role is always preserved.
func (s *UserService) RecordLogin(ctx context.Context, email, ip string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	now := s.now()
	var u model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&u, "email = ?", email).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			u = model.User{
				Email:        email,
				Role:         model.RoleUser,
				LastLogin:    now,
				LastLoginIP:  ip,
				FirstLoginIP: ip,
			}
			return tx.Create(&u).Error
		}
		if err != nil {
			return err
		}
		u.LastLogin = now
		u.LastLoginIP = ip
		return tx.Save(&u).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return &u, nil
}

// SetRole upserts the role for email. The row is created when absent, the
// same way the login upsert would.
func (s *UserService) SetRole(ctx context.Context, email string, role model.Role) error {
	if !role.Valid() {
		return errs.ErrInvalidRole
	}
	email = model.NormalizeEmail(email)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		err := tx.First(&u, "email = ?", email).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.User{Email: email, Role: role}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&u).Update("role", role).Error
	})
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}
