package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/graalonline/support-service/internal/errs"
	"github.com/graalonline/support-service/internal/model"
)

// Codes are uppercase base36, matching what the code email renders.
const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	codeLength = 6
	codeTTL    = 15 * time.Minute
)

// AuthServicer issues and verifies one-time login codes.
type AuthServicer interface {
	IssueCode(ctx context.Context, email, ip string) (string, error)
	VerifyCode(ctx context.Context, email, code string) error
}

type AuthService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db, now: time.Now}
}

// GenerateCode returns a random 6-character uppercase base36 code.
func GenerateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// IssueCode persists a fresh code for email with the requester's IP and
// returns it for delivery.
func (s *AuthService) IssueCode(ctx context.Context, email, ip string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}
	rec := model.AuthCode{
		Email:     email,
		Code:      code,
		IP:        ip,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("store auth code: %w", err)
	}
	return code, nil
}

// VerifyCode checks the newest exact (email, code) match against the
// validity window. Codes are never deleted; expiry is purely the window.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) error {
	var rec model.AuthCode
	err := s.db.WithContext(ctx).
		Where("email = ? AND code = ?", email, code).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrInvalidCode
		}
		return fmt.Errorf("look up auth code: %w", err)
	}
	if codeExpired(rec.CreatedAt, s.now()) {
		return errs.ErrCodeExpired
	}
	return nil
}

func codeExpired(issuedAt, now time.Time) bool {
	return now.Sub(issuedAt) >= codeTTL
}
