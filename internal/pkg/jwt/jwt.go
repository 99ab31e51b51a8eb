package jwt

import (
	"context"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pontoagent/ponto-backend-go/internal/domain/user"
)

// Tokens are issued by the identity provider; this service only verifies
// them. GenerateAccessToken exists for local tooling and tests.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(p user.Principal, ttl time.Duration) (token string, expiresAt int64, err error)
	ContextWithPrincipal(ctx context.Context, p user.Principal) (context.Context, error)
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

func (j *JWTService) GenerateAccessToken(p user.Principal, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()
	claims := principalClaims(p)
	claims["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ContextWithPrincipal returns ctx carrying a verified token for p, as the
// jwtauth Verifier would have stored it.
func (j *JWTService) ContextWithPrincipal(ctx context.Context, p user.Principal) (context.Context, error) {
	claims := principalClaims(p)
	claims["exp"] = time.Now().Add(time.Hour).Unix()

	token, _, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return nil, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}

// PrincipalFromContext builds the caller from the verified token claims.
func PrincipalFromContext(ctx context.Context) (user.Principal, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return user.Principal{}, user.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		userID, _ = claims["sub"].(string)
	}
	if userID == "" {
		return user.Principal{}, user.ErrInvalidToken
	}

	roleStr, _ := claims["role"].(string)
	role := user.Role(roleStr)
	if _, ok := user.RolePermissions[role]; !ok {
		return user.Principal{}, user.ErrInvalidRole
	}

	p := user.Principal{
		UserID:       userID,
		Role:         role,
		EmployeeID:   stringClaim(claims, "employee_id"),
		SecretariaID: stringClaim(claims, "secretaria_id"),
	}
	p.Email, _ = claims["email"].(string)
	p.Name, _ = claims["name"].(string)

	return p, nil
}

func principalClaims(p user.Principal) map[string]interface{} {
	return map[string]interface{}{
		"user_id":       p.UserID,
		"email":         p.Email,
		"name":          p.Name,
		"role":          string(p.Role),
		"employee_id":   returnValueOrNil(p.EmployeeID),
		"secretaria_id": returnValueOrNil(p.SecretariaID),
		"type":          "access",
	}
}

func stringClaim(claims map[string]interface{}, key string) *string {
	v, ok := claims[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
