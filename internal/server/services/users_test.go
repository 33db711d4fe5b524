package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/flado/awareness/internal/common"
	"github.com/flado/awareness/internal/logging"
	"github.com/flado/awareness/internal/server/auth"
	"github.com/flado/awareness/internal/server/config"
	"github.com/flado/awareness/internal/server/directory"
	"github.com/flado/awareness/internal/server/models"
)

// --- helpers ---

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestService(t *testing.T) (*Service, *directory.MemoryRepository, *fakeNotifier, *auth.TokenService) {
	t.Helper()
	repo := directory.NewMemoryRepository()
	notifier := &fakeNotifier{}
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	cfg := &config.Config{BaseURL: "http://localhost:3000", BcryptCost: bcrypt.MinCost}
	return NewService(repo, notifier, tokens, cfg, quietLogger()), repo, notifier, tokens
}

func validInput() RegisterInput {
	return RegisterInput{
		Email:     "a@b.com",
		Password:  "longenough",
		FirstName: "Ann",
		LastName:  "Smith",
	}
}

// --- registration ---

func TestRegister_ValidationOrder(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		in        RegisterInput
		wantField string
	}{
		{
			// password is checked first even when every field is bad
			name:      "all fields invalid",
			in:        RegisterInput{Email: "", Password: "short6", FirstName: "Al"},
			wantField: "password",
		},
		{
			name:      "password exactly six",
			in:        RegisterInput{Email: "a@b.com", Password: "sixsix", FirstName: "Ann"},
			wantField: "password",
		},
		{
			name:      "first name too short",
			in:        RegisterInput{Email: "a@b.com", Password: "longenough", FirstName: "Al"},
			wantField: "firstName",
		},
		{
			name:      "missing email",
			in:        RegisterInput{Email: "", Password: "longenough", FirstName: "Ann"},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestRegister_PasswordOfExactlySevenIsAccepted(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	in := validInput()
	in.Password = "exactly" // 7 characters
	session, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestRegister_ThenLogin_RoundTrip(t *testing.T) {
	svc, _, _, tokens := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	require.True(t, session.Auth)

	registeredSubject, err := tokens.Verify(session.Token)
	require.NoError(t, err)

	loginSession, err := svc.Login(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	loginSubject, err := tokens.Verify(loginSession.Token)
	require.NoError(t, err)
	assert.Equal(t, registeredSubject, loginSubject)

	profile, err := svc.Profile(ctx, registeredSubject)
	require.NoError(t, err)
	assert.Equal(t, registeredSubject, profile.ID)
	assert.Equal(t, "a@b.com", profile.Email)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validInput())
	assert.ErrorIs(t, err, common.ErrConflict)

	// same email, different case: same identifier, same conflict
	in := validInput()
	in.Email = "A@B.COM"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestRegister_SendsActivationMail(t *testing.T) {
	svc, repo, notifier, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	mail := notifier.sent[0]
	assert.Equal(t, "a@b.com", mail.to)
	assert.Contains(t, mail.body, "Hello Ann")

	// the link embeds the user id and the stored verify token
	stored, err := repo.Get(ctx, modelID(t), false)
	require.NoError(t, err)
	assert.Contains(t, mail.body, "/activate/"+stored.ID+"?token="+stored.VerifyToken)
}

func TestRegister_NotifierFailureIsSwallowed(t *testing.T) {
	svc, repo, notifier, _ := newTestService(t)
	notifier.err = errors.New("mail provider down")

	session, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err, "registration must succeed once the record is durable")
	assert.NotEmpty(t, session.Token)

	_, err = repo.Get(context.Background(), modelID(t), false)
	assert.NoError(t, err, "record must exist despite the failed mail")
}

func TestRegister_AuthenticatesBeforeActivation(t *testing.T) {
	// The session returned by register is valid while the account is still
	// pending, and login works for pending accounts too. Activation gates
	// nothing here except the confirmation page.
	svc, repo, _, tokens := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	stored, err := repo.Get(ctx, modelID(t), false)
	require.NoError(t, err)
	require.False(t, stored.IsActivated())

	_, err = tokens.Verify(session.Token)
	assert.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.com", "longenough")
	assert.NoError(t, err)
}

// --- login ---

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@b.com", "whatever")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

// --- profile ---

func TestProfile_NeverExposesSecrets(t *testing.T) {
	svc, _, _, tokens := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	subject, err := tokens.Verify(session.Token)
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, subject)
	require.NoError(t, err)

	assert.Empty(t, profile.PasswordHash)
	assert.Empty(t, profile.VerifyToken)
}

func TestProfile_Absent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Profile(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

// --- activation ---

func TestActivate_FullScenario(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	id := modelID(t)

	stored, err := repo.Get(ctx, id, false)
	require.NoError(t, err)
	verifyToken := stored.VerifyToken
	require.NotEmpty(t, verifyToken)

	_, err = svc.Activate(ctx, id, "bad-token")
	assert.ErrorIs(t, err, common.ErrActivation)

	user, err := svc.Activate(ctx, id, verifyToken)
	require.NoError(t, err)
	require.True(t, user.IsActivated())
	assert.Empty(t, user.VerifyToken, "activation response must be redacted")

	writesAfterFirst := repo.WriteCount()

	// idempotent: same success, no further storage mutation
	again, err := svc.Activate(ctx, id, verifyToken)
	require.NoError(t, err)
	assert.True(t, again.IsActivated())
	assert.Equal(t, user.Activated.Unix(), again.Activated.Unix())
	assert.Equal(t, writesAfterFirst, repo.WriteCount())
}

func TestActivate_Failures(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	id := modelID(t)

	tests := []struct {
		name  string
		id    string
		token string
	}{
		{"absent user", "no-such-id", "some-token"},
		{"missing token", id, ""},
		{"wrong token", id, "not-the-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Activate(ctx, tt.id, tt.token)
			assert.ErrorIs(t, err, common.ErrActivation)
		})
	}
}

func TestValidationMessagesAreStable(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "short", FirstName: "Ann"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "longer than 7 characters"), "got %q", err.Error())
}

// modelID is the derived identifier of the canonical test registration.
func modelID(t *testing.T) string {
	t.Helper()
	return models.DeriveID("a@b.com")
}
