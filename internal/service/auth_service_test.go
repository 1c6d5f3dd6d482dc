package service

import (
	"testing"

	"github.com/eventsnap/eventsnap-backend/internal/models"
	"github.com/eventsnap/eventsnap-backend/pkg/bcrypt"
	"github.com/eventsnap/eventsnap-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newAuthServiceForTest(t *testing.T) (*AuthService, *fakeUserStore, *fakeHostStore, *fakeEventStore) {
	t.Helper()
	events, _ := newFakeStores()
	users := newFakeUserStore()
	hosts := newFakeHostStore()
	svc := NewAuthService(users, hosts, events, testSecret, zap.NewNop())
	return svc, users, hosts, events
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)

	resp, err := svc.Register(models.RegisterRequest{
		FullName: "Ada Organizer",
		Email:    "Ada@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.User.Email)

	claims, err := jwt.ValidateToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, claims["role"])

	// Login is case-insensitive on the email.
	login, err := svc.Login(models.LoginRequest{Email: "ADA@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = svc.Login(models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.Equal(t, models.ErrKindAccessDenied, models.KindOf(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)

	req := models.RegisterRequest{FullName: "Ada", Email: "ada@example.com", Password: "hunter22"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.Equal(t, models.ErrKindConflict, models.KindOf(err))
}

func TestLoginAdminRole(t *testing.T) {
	svc, users, _, _ := newAuthServiceForTest(t)

	hashed, err := bcrypt.HashPassword("hunter22")
	require.NoError(t, err)
	require.NoError(t, users.Create(&models.User{
		FullName: "Root", Email: "root@example.com", Password: hashed, IsAdmin: true,
	}))

	resp, err := svc.Login(models.LoginRequest{Email: "root@example.com", Password: "hunter22"})
	require.NoError(t, err)

	claims, err := jwt.ValidateToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims["role"])
}

func TestHostLogin(t *testing.T) {
	svc, _, hosts, events := newAuthServiceForTest(t)

	_, err := events.Create(&models.Event{PublicID: "evt_abc_00001", Title: "Garden Party", Active: true})
	require.NoError(t, err)

	hashed, err := bcrypt.HashPassword("sekrit42")
	require.NoError(t, err)
	require.NoError(t, hosts.Create(&models.Host{
		EventPublicID: "evt_abc_00001",
		Email:         "host@example.com",
		Password:      hashed,
		Active:        true,
	}))

	resp, err := svc.HostLogin(models.HostLoginRequest{EventPublicID: "evt_abc_00001", Password: "sekrit42"})
	require.NoError(t, err)
	assert.Equal(t, "evt_abc_00001", resp.EventPublicID)
	assert.Equal(t, "Garden Party", resp.EventTitle)

	claims, err := jwt.ValidateToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleHost, claims["role"])
	assert.Equal(t, "evt_abc_00001", claims["event_id"])

	// Login time is recorded on the credential.
	host, err := hosts.GetActiveByEventPublicID("evt_abc_00001")
	require.NoError(t, err)
	assert.NotNil(t, host.LastLogin)
}

func TestHostLoginFailures(t *testing.T) {
	svc, _, hosts, _ := newAuthServiceForTest(t)

	hashed, err := bcrypt.HashPassword("sekrit42")
	require.NoError(t, err)
	require.NoError(t, hosts.Create(&models.Host{
		EventPublicID: "evt_abc_00001", Email: "host@example.com", Password: hashed, Active: false,
	}))

	// Wrong event, wrong password and a deactivated credential all fail the
	// same way.
	for _, req := range []models.HostLoginRequest{
		{EventPublicID: "evt_nope_00000", Password: "sekrit42"},
		{EventPublicID: "evt_abc_00001", Password: "wrong"},
		{EventPublicID: "evt_abc_00001", Password: "sekrit42"},
	} {
		_, err := svc.HostLogin(req)
		require.Error(t, err)
		assert.Equal(t, models.ErrKindAccessDenied, models.KindOf(err))
		assert.Equal(t, "Invalid event ID or password", models.UserMessage(err))
	}
}
