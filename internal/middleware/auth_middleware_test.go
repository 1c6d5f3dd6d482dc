package middleware

import (
	"testing"

	"github.com/eventsnap/eventsnap-backend/internal/models"
	"github.com/eventsnap/eventsnap-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestPrincipalFromHeader(t *testing.T) {
	userToken, err := jwt.GenerateUserToken(testSecret, 42, "ada@example.com", models.RoleOrganizer)
	require.NoError(t, err)
	adminToken, err := jwt.GenerateUserToken(testSecret, 7, "root@example.com", models.RoleAdmin)
	require.NoError(t, err)
	hostToken, err := jwt.GenerateHostToken(testSecret, "evt_abc_00001")
	require.NoError(t, err)

	p, err := principalFromHeader("Bearer "+userToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, models.Principal{Role: models.RoleOrganizer, UserID: 42}, p)

	p, err = principalFromHeader("Bearer "+adminToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role)
	assert.True(t, p.IsAdmin())

	p, err = principalFromHeader("Bearer "+hostToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, models.Principal{Role: models.RoleHost, EventPublicID: "evt_abc_00001"}, p)
}

func TestPrincipalFromHeaderRejects(t *testing.T) {
	userToken, err := jwt.GenerateUserToken(testSecret, 42, "ada@example.com", models.RoleOrganizer)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		secret string
	}{
		{"empty header", "", testSecret},
		{"missing bearer prefix", userToken, testSecret},
		{"garbage token", "Bearer not.a.token", testSecret},
		{"wrong secret", "Bearer " + userToken, "other-secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := principalFromHeader(tc.header, tc.secret)
			assert.Error(t, err)
		})
	}
}
