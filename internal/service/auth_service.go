package service

import (
	"strings"
	"time"

	"github.com/eventsnap/eventsnap-backend/internal/models"
	"github.com/eventsnap/eventsnap-backend/pkg/bcrypt"
	"github.com/eventsnap/eventsnap-backend/pkg/jwt"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo  UserStore
	hostRepo  HostStore
	eventRepo EventStore
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(userRepo UserStore, hostRepo HostStore, eventRepo EventStore, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		hostRepo:  hostRepo,
		eventRepo: eventRepo,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, models.NewInternalError("Failed to check email", err)
	}
	if exists {
		return nil, models.NewConflictError("Email already registered")
	}

	hashed, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, models.NewInternalError("Failed to hash password", err)
	}

	user := &models.User{
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
		Password: hashed,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, models.NewInternalError("Failed to create user", err)
	}

	token, err := jwt.GenerateUserToken(s.jwtSecret, user.ID, user.Email, roleOf(user))
	if err != nil {
		return nil, models.NewInternalError("Failed to generate token", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, models.NewAccessDeniedError("Invalid email or password")
	}
	if !bcrypt.CheckPasswordHash(req.Password, user.Password) {
		return nil, models.NewAccessDeniedError("Invalid email or password")
	}

	token, err := jwt.GenerateUserToken(s.jwtSecret, user.ID, user.Email, roleOf(user))
	if err != nil {
		return nil, models.NewInternalError("Failed to generate token", err)
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

// HostLogin authenticates the event-scoped credential: the event's public ID
// is the username. The failure message never reveals which of the two parts
// was wrong.
func (s *AuthService) HostLogin(req models.HostLoginRequest) (*models.HostAuthResponse, error) {
	host, err := s.hostRepo.GetActiveByEventPublicID(req.EventPublicID)
	if err != nil {
		return nil, models.NewAccessDeniedError("Invalid event ID or password")
	}
	if !bcrypt.CheckPasswordHash(req.Password, host.Password) {
		return nil, models.NewAccessDeniedError("Invalid event ID or password")
	}

	event, err := s.eventRepo.GetByPublicID(host.EventPublicID)
	if err != nil {
		return nil, models.NewAccessDeniedError("Invalid event ID or password")
	}

	token, err := jwt.GenerateHostToken(s.jwtSecret, host.EventPublicID)
	if err != nil {
		return nil, models.NewInternalError("Failed to generate token", err)
	}

	now := time.Now()
	host.LastLogin = &now
	if err := s.hostRepo.Update(host); err != nil {
		s.logger.Warn("failed to record host login time",
			zap.String("event", host.EventPublicID),
			zap.Error(err),
		)
	}

	return &models.HostAuthResponse{
		Token:         token,
		EventPublicID: host.EventPublicID,
		EventTitle:    event.Title,
	}, nil
}

func roleOf(user *models.User) string {
	if user.IsAdmin {
		return models.RoleAdmin
	}
	return models.RoleOrganizer
}
