package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	employeeDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/employee"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock employee repository for testing
type mockEmployeeReader struct {
	byID map[int64]*employeeDatamodel.Employee
}

func newMockEmployeeReader() *mockEmployeeReader {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	m := &mockEmployeeReader{byID: map[int64]*employeeDatamodel.Employee{}}
	for _, e := range []*employeeDatamodel.Employee{
		{ID: 1, Email: "admin@example.com", Role: "admin", IsActive: true},
		{ID: 2, Email: "manager@example.com", Role: "manager", IsActive: true},
		{ID: 3, Email: "user@example.com", Role: "employee", IsActive: true},
		{ID: 4, Email: "gone@example.com", Role: "employee", IsActive: false},
	} {
		e.PasswordHash = string(hash)
		m.byID[e.ID] = e
	}
	return m
}

func (m *mockEmployeeReader) GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error) {
	for _, e := range m.byID {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, errors.ErrEmployeeNotFound
}

func (m *mockEmployeeReader) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	if e, ok := m.byID[id]; ok {
		return e, nil
	}
	return nil, errors.ErrEmployeeNotFound
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service   *Service
		employees *mockEmployeeReader
		tokenGen  *JWTTokenGenerator
		ctx       context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		employees = newMockEmployeeReader()
		tokenGen = NewJWTTokenGenerator("access_secret", "refresh_secret", 0, 0)
		service = NewService(employees, tokenGen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("should return tokens carrying the user id and role", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "manager@example.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).NotTo(gomega.BeEmpty())
			gomega.Expect(tokens.ExpiresIn).To(gomega.Equal(int64(900)))

			session, err := service.SessionFromToken(tokens.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(session).To(gomega.Equal(access.Session{ActorID: 2, Role: access.RoleManager}))
		})

		ginkgo.It("should return invalid credentials for an unknown email", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "nobody@example.com", Password: "correct_password"})
			gomega.Expect(err).To(gomega.MatchError(errors.ErrInvalidCredentials))
		})

		ginkgo.It("should return invalid credentials for a wrong password", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: "wrong"})
			gomega.Expect(err).To(gomega.MatchError(errors.ErrInvalidCredentials))
		})

		ginkgo.It("should reject inactive employees", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "gone@example.com", Password: "correct_password"})
			gomega.Expect(err).To(gomega.MatchError(errors.ErrEmployeeInactive))
		})

		ginkgo.It("should return a validation error for missing fields", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com"})
			gomega.Expect(errors.HasType(err, errors.ErrorTypeValidation)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should pick up a changed role", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			employees.byID[3].Role = "manager"
			refreshed, err := service.RefreshTokens(ctx, tokens.RefreshToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			session, err := service.SessionFromToken(refreshed.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(session.Role).To(gomega.Equal(access.RoleManager))
		})

		ginkgo.It("should not accept an access token", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, tokens.AccessToken)
			gomega.Expect(err).To(gomega.MatchError(errors.ErrInvalidToken))
		})

		ginkgo.It("should refuse employees deactivated since login", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			employees.byID[3].IsActive = false
			_, err = service.RefreshTokens(ctx, tokens.RefreshToken)
			gomega.Expect(err).To(gomega.MatchError(errors.ErrEmployeeInactive))
		})
	})

	ginkgo.Describe("SessionFromToken", func() {
		ginkgo.It("should reject malformed and empty tokens", func() {
			_, err := service.SessionFromToken("not-a-token")
			gomega.Expect(err).To(gomega.MatchError(errors.ErrInvalidToken))

			_, err = service.SessionFromToken("")
			gomega.Expect(err).To(gomega.MatchError(errors.ErrInvalidToken))
		})

		ginkgo.It("should reject refresh tokens", func() {
			token, err := tokenGen.GenerateRefreshToken(3, access.RoleEmployee)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.SessionFromToken(token)
			gomega.Expect(err).To(gomega.MatchError(errors.ErrInvalidToken))
		})

		ginkgo.It("should return ErrTokenExpired for expired tokens", func() {
			expired := NewJWTTokenGenerator("access_secret", "refresh_secret", -time.Minute, 0)
			token, err := expired.GenerateAccessToken(3, access.RoleEmployee)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.SessionFromToken(token)
			gomega.Expect(err).To(gomega.MatchError(errors.ErrTokenExpired))
		})

		ginkgo.It("should reject tokens signed with another secret", func() {
			other := NewJWTTokenGenerator("other_secret", "refresh_secret", 0, 0)
			token, err := other.GenerateAccessToken(1, access.RoleAdmin)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.SessionFromToken(token)
			gomega.Expect(err).To(gomega.MatchError(errors.ErrInvalidToken))
		})
	})

	ginkgo.Describe("Me", func() {
		ginkgo.It("should return the employee behind the session without the hash", func() {
			e, err := service.Me(ctx, access.Session{ActorID: 2, Role: access.RoleManager})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(e.Email).To(gomega.Equal("manager@example.com"))
			gomega.Expect(e.Role).To(gomega.Equal(access.RoleManager))
		})
	})
})
