package service

import (
	"errors"

	"qryti_learn_backend/internal/config"
	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo *repository.UserRepository
	events   EventSink
	logger   *zap.Logger
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, events EventSink, logger *zap.Logger, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, events: events, logger: logger, cfg: cfg}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Company  string `json:"company"`
	Country  string `json:"country"`
}

func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Role:     model.Student,
		Company:  input.Company,
		Country:  input.Country,
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		// The unique index on email catches registration races.
		if _, ferr := s.userRepo.FindByEmail(input.Email); ferr == nil {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	s.events.Record(user.ID, model.EventRegistration, map[string]interface{}{
		"email": user.Email,
	})
	s.logger.Info("user registered", zap.Uint("userId", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login verifies credentials and returns the user plus a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		s.logger.Warn("failed to record last login", zap.Uint("userId", user.ID), zap.Error(err))
	}
	s.events.Record(user.ID, model.EventLogin, nil)
	return user, token, nil
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name    string `json:"name" binding:"omitempty,min=2,max=100"`
	Company string `json:"company"`
	Country string `json:"country"`
}

func (s *AuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	user.Company = input.Company
	user.Country = input.Country
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
