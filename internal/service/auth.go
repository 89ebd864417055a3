package service

import (
	"context"
	"errors"
	"fmt"

	"voice-todo/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrBadCredentials = errors.New("wrong username or password")

type AuthService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Account, error) {
	var a model.Account
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	if !CheckPassword(a.Password, password) {
		return nil, ErrBadCredentials
	}
	return &a, nil
}

// Upsert creates the user or resets its password and display name.
func (s *AuthService) Upsert(ctx context.Context, username, password, name string) (*model.Account, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = username
	}

	var a model.Account
	err = s.db.WithContext(ctx).Where("username = ?", username).First(&a).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		a = model.Account{Username: username, Password: hash, Name: name}
		if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("query user: %w", err)
	default:
		if err := s.db.WithContext(ctx).Model(&a).Updates(map[string]any{"password": hash, "name": name}).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return &a, nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
