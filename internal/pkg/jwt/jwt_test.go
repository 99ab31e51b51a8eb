package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalRoundTripThroughContext(t *testing.T) {
	svc := NewJWTService("test-secret")
	emp := "emp-1"
	sec := "sec-1"

	ctx, err := svc.ContextWithPrincipal(context.Background(), user.Principal{
		UserID:       "u-1",
		Email:        "gestor@prefeitura.gov.br",
		Name:         "Maria",
		Role:         user.RoleManager,
		EmployeeID:   &emp,
		SecretariaID: &sec,
	})
	require.NoError(t, err)

	p, err := PrincipalFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.UserID)
	assert.Equal(t, user.RoleManager, p.Role)
	assert.Equal(t, "Maria", p.Name)
	require.NotNil(t, p.EmployeeID)
	assert.Equal(t, "emp-1", *p.EmployeeID)
	require.NotNil(t, p.SecretariaID)
	assert.Equal(t, "sec-1", *p.SecretariaID)
}

func TestPrincipalFromContextWithoutToken(t *testing.T) {
	_, err := PrincipalFromContext(context.Background())
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestPrincipalFromContextRejectsUnknownRole(t *testing.T) {
	svc := NewJWTService("test-secret")
	ctx, err := svc.ContextWithPrincipal(context.Background(), user.Principal{UserID: "u-1", Role: "owner"})
	require.NoError(t, err)

	_, err = PrincipalFromContext(ctx)
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestGenerateAccessTokenVerifies(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, exp, err := svc.GenerateAccessToken(user.Principal{UserID: "u-2", Role: user.RoleEmployee}, time.Minute)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	role, ok := decoded.Get("role")
	require.True(t, ok)
	assert.Equal(t, "servidor", role)
}
