package jwt

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidClaims = errors.New("token is missing employee_id or role")

// Service verifies access tokens issued by the surrounding auth service and
// turns their claims into a user.Identity.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	IdentityFromClaims(claims map[string]any) (user.Identity, error)
	GenerateAccessToken(identity user.Identity, ttl time.Duration) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// IdentityFromClaims reads the employee_id and role claims of an access token.
func (j *JWTService) IdentityFromClaims(claims map[string]any) (user.Identity, error) {
	if tokenType, ok := claims["type"].(string); ok && tokenType != "access" {
		return user.Identity{}, ErrInvalidClaims
	}

	employeeID, _ := claims["employee_id"].(string)
	roleStr, _ := claims["role"].(string)
	role := user.Role(roleStr)
	if employeeID == "" || !role.IsValid() {
		return user.Identity{}, ErrInvalidClaims
	}

	return user.Identity{EmployeeID: employeeID, Role: role}, nil
}

// GenerateAccessToken signs a token in the same shape the auth service
// issues. The ledger itself never hands tokens out; tests and local tooling do.
func (j *JWTService) GenerateAccessToken(identity user.Identity, ttl time.Duration) (string, int64, error) {
	expiresAt := time.Now().Add(ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]any{
		"employee_id": identity.EmployeeID,
		"role":        string(identity.Role),
		"type":        "access",
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}
