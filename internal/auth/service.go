package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	employeeDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/employee"
	"github.com/frahmantamala/workforce-admin/internal/employee"
)

// EmployeeReader is the slice of the employee repository login needs.
type EmployeeReader interface {
	GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
}

// Service is the main auth service with dependencies
type Service struct {
	employees      EmployeeReader
	tokenGenerator TokenGenerator
	accessTTL      time.Duration
	logger         *slog.Logger
}

func NewService(employees EmployeeReader, tokenGen *JWTTokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		employees:      employees,
		tokenGenerator: tokenGen,
		accessTTL:      tokenGen.AccessTokenTTL,
		logger:         logger,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator. Zero TTLs fall back
// to 15 minutes for access and 7 days for refresh tokens.
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	row, err := s.employees.GetByEmail(ctx, dto.Email)
	if err != nil {
		if stdErrors.Is(err, errors.ErrEmployeeNotFound) {
			return AuthTokens{}, errors.ErrInvalidCredentials
		}
		return AuthTokens{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed", "employee_id", row.ID)
		return AuthTokens{}, errors.ErrInvalidCredentials
	}
	if !row.IsActive {
		return AuthTokens{}, errors.ErrEmployeeInactive
	}

	role, err := access.ParseRole(row.Role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("employee has an unknown role", err)
	}

	s.logger.Info("employee logged in", "employee_id", row.ID, "role", role.String())
	return s.issue(row.ID, role)
}

// RefreshTokens exchanges a refresh token for a new pair. The role is read
// again from the employee record so role changes apply on refresh.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	row, err := s.employees.GetByID(ctx, claims.UserID)
	if err != nil {
		if stdErrors.Is(err, errors.ErrEmployeeNotFound) {
			return AuthTokens{}, errors.ErrInvalidToken
		}
		return AuthTokens{}, err
	}
	if !row.IsActive {
		return AuthTokens{}, errors.ErrEmployeeInactive
	}
	role, err := access.ParseRole(row.Role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("employee has an unknown role", err)
	}
	return s.issue(row.ID, role)
}

// SessionFromToken validates an access token and returns the session it
// carries.
func (s *Service) SessionFromToken(tokenString string) (access.Session, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return access.Session{}, err
	}
	session := claims.Session()
	if !session.Valid() {
		return access.Session{}, errors.ErrInvalidToken
	}
	return session, nil
}

// Me returns the employee record behind the session.
func (s *Service) Me(ctx context.Context, session access.Session) (*employee.Employee, error) {
	row, err := s.employees.GetByID(ctx, session.ActorID)
	if err != nil {
		return nil, err
	}
	return employee.FromDataModel(row), nil
}

func (s *Service) issue(userID int64, role access.Role) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to sign access token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to sign refresh token", err)
	}
	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL / time.Second),
	}, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID int64, role access.Role) (string, error) {
	return j.sign(userID, role, TokenAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64, role access.Role) (string, error) {
	return j.sign(userID, role, TokenRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(userID int64, role access.Role, typ TokenType, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Role:      role.String(),
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString string, want TokenType, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if stdErrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != want {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}
