package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/brayn-ai/brayn-backend/internal/credentials"
	"github.com/brayn-ai/brayn-backend/internal/models"
)

const testSecret = "test-secret"

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

type authFixture struct {
	svc    *AuthService
	users  *fakeUserRepo
	mailer *fakeMailer
	clock  *testClock
}

func newAuthFixture() *authFixture {
	clock := &testClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	issuer := credentials.NewIssuer(credentials.Options{
		Secret:   []byte(testSecret),
		TokenTTL: 7 * 24 * time.Hour,
		OTPTTL:   10 * time.Minute,
		Now:      clock.Now,
	})
	return &authFixture{
		svc:    NewAuthService(users, issuer, mailer),
		users:  users,
		mailer: mailer,
		clock:  clock,
	}
}

func requireKind(t *testing.T, err error, kind ErrorKind, msg string) {
	t.Helper()
	se, ok := AsServiceError(err)
	require.True(t, ok, "expected *ServiceError, got %v", err)
	assert.Equal(t, kind, se.Kind)
	if msg != "" {
		assert.Equal(t, msg, se.Message)
	}
}

func (f *authFixture) signupVerified(t *testing.T, email, password string) *models.User {
	t.Helper()
	ctx := context.Background()
	res, err := f.svc.Signup(ctx, "Ana", email, password)
	require.NoError(t, err)
	stored := f.users.get(res.User.ID)
	_, err = f.svc.VerifyOTP(ctx, email, stored.OTP.Code)
	require.NoError(t, err)
	return f.users.get(res.User.ID)
}

func TestSignup_NewUser(t *testing.T) {
	f := newAuthFixture()

	res, err := f.svc.Signup(context.Background(), "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.False(t, res.User.IsVerified)

	stored := f.users.get(res.User.ID)
	require.NotNil(t, stored)
	assert.Len(t, stored.OTP.Code, 6)
	assert.Equal(t, f.clock.t.Add(10*time.Minute), *stored.OTP.ExpiresAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))

	mail := f.mailer.last()
	assert.Equal(t, "ana@x.com", mail.To)
	assert.Equal(t, "Verify your Brayn account", mail.Subject)
	assert.Contains(t, mail.HTML, stored.OTP.Code)
}

func TestSignup_UnverifiedExistingIsRefreshed(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	first, err := f.svc.Signup(ctx, "Ana", "ana@x.com", "old-pass")
	require.NoError(t, err)

	f.clock.t = f.clock.t.Add(time.Minute)
	second, err := f.svc.Signup(ctx, "Ana B", "ana@x.com", "new-pass")
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.User.ID, second.User.ID)

	stored := f.users.get(first.User.ID)
	assert.Equal(t, "Ana B", stored.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("new-pass")))
	assert.Equal(t, f.clock.t.Add(10*time.Minute), *stored.OTP.ExpiresAt)
	assert.Equal(t, "Resend OTP - Brayn", f.mailer.last().Subject)
}

func TestSignup_VerifiedEmailConflicts(t *testing.T) {
	f := newAuthFixture()
	f.signupVerified(t, "ana@x.com", "pw")

	_, err := f.svc.Signup(context.Background(), "Other", "ana@x.com", "pw2")
	requireKind(t, err, KindConflict, "Email already registered")
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestSignup_MissingFields(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Signup(context.Background(), " ", "ana@x.com", "pw")
	requireKind(t, err, KindValidation, "")
}

func TestSignup_MailFailure(t *testing.T) {
	f := newAuthFixture()
	f.mailer.err = errors.New("smtp down")

	_, err := f.svc.Signup(context.Background(), "Ana", "ana@x.com", "pw")
	requireKind(t, err, KindProvider, "")
	assert.Contains(t, err.Error(), "smtp down")
}

func TestVerifyOTP_Success(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	res, err := f.svc.Signup(ctx, "Ana", "ana@x.com", "pw")
	require.NoError(t, err)
	code := f.users.get(res.User.ID).OTP.Code

	out, err := f.svc.VerifyOTP(ctx, "ana@x.com", code)
	require.NoError(t, err)
	assert.True(t, out.User.IsVerified)
	assert.NotEmpty(t, out.Token)

	stored := f.users.get(res.User.ID)
	assert.True(t, stored.IsVerified)
	assert.True(t, stored.OTP.Empty())

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(out.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithTimeFunc(f.clock.Now))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims[credentials.ClaimUserID])
	assert.Equal(t, "ana@x.com", claims[credentials.ClaimEmail])
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, f.clock.t.Add(7*24*time.Hour).Unix(), exp.Unix())
}

func TestVerifyOTP_CodeCannotBeReused(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	res, err := f.svc.Signup(ctx, "Ana", "ana@x.com", "pw")
	require.NoError(t, err)
	code := f.users.get(res.User.ID).OTP.Code

	_, err = f.svc.VerifyOTP(ctx, "ana@x.com", code)
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, "ana@x.com", code)
	requireKind(t, err, KindValidation, "User already verified")
}

func TestVerifyOTP_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.VerifyOTP(ctx, "ghost@x.com", "123456")
		requireKind(t, err, KindNotFound, "User not found")
		assert.Equal(t, http.StatusNotFound, StatusCode(err))
	})

	t.Run("mismatch", func(t *testing.T) {
		f := newAuthFixture()
		res, err := f.svc.Signup(ctx, "Ana", "ana@x.com", "pw")
		require.NoError(t, err)
		wrong := "000000"
		if f.users.get(res.User.ID).OTP.Code == wrong {
			wrong = "111111"
		}
		_, err = f.svc.VerifyOTP(ctx, "ana@x.com", wrong)
		requireKind(t, err, KindValidation, "Invalid OTP")
	})

	t.Run("no otp on file", func(t *testing.T) {
		f := newAuthFixture()
		u := &models.User{Name: "Ana", Email: "ana@x.com", Password: "h"}
		require.NoError(t, f.users.Create(ctx, u))
		_, err := f.svc.VerifyOTP(ctx, "ana@x.com", "123456")
		requireKind(t, err, KindValidation, "No OTP requested")
	})

	t.Run("expired", func(t *testing.T) {
		f := newAuthFixture()
		res, err := f.svc.Signup(ctx, "Ana", "ana@x.com", "pw")
		require.NoError(t, err)
		code := f.users.get(res.User.ID).OTP.Code

		f.clock.t = f.clock.t.Add(10*time.Minute + time.Second)
		_, err = f.svc.VerifyOTP(ctx, "ana@x.com", code)
		requireKind(t, err, KindValidation, "OTP expired")
	})

	t.Run("valid at exact expiry", func(t *testing.T) {
		f := newAuthFixture()
		res, err := f.svc.Signup(ctx, "Ana", "ana@x.com", "pw")
		require.NoError(t, err)
		code := f.users.get(res.User.ID).OTP.Code

		f.clock.t = f.clock.t.Add(10 * time.Minute)
		_, err = f.svc.VerifyOTP(ctx, "ana@x.com", code)
		assert.NoError(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	verified := f.signupVerified(t, "ana@x.com", "correct")

	out, err := f.svc.Login(ctx, "ana@x.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, verified.ID, out.User.ID)
	assert.NotEmpty(t, out.Token)

	_, err = f.svc.Login(ctx, "ana@x.com", "wrong")
	requireKind(t, err, KindAuthentication, "Invalid password")
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))

	_, err = f.svc.Login(ctx, "ghost@x.com", "x")
	requireKind(t, err, KindNotFound, "User not found")

	_, err = f.svc.Signup(ctx, "Bo", "bo@x.com", "pw")
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, "bo@x.com", "pw")
	requireKind(t, err, KindAuthentication, "Please verify your email before logging in")
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	u := f.signupVerified(t, "ana@x.com", "old")

	_, err := f.svc.ForgotPassword(ctx, "ana@x.com")
	require.NoError(t, err)
	mail := f.mailer.last()
	assert.Equal(t, "Reset Your Brayn Password", mail.Subject)

	code := f.users.get(u.ID).OTP.Code
	assert.True(t, strings.Contains(mail.HTML, code))

	_, err = f.svc.ResetPassword(ctx, "ana@x.com", code, "new")
	require.NoError(t, err)

	stored := f.users.get(u.ID)
	assert.True(t, stored.IsVerified)
	assert.True(t, stored.OTP.Empty())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("new")))

	_, err = f.svc.ResetPassword(ctx, "ana@x.com", code, "again")
	requireKind(t, err, KindValidation, "No OTP requested")

	_, err = f.svc.ForgotPassword(ctx, "ghost@x.com")
	requireKind(t, err, KindNotFound, "User not found")
}

func TestResetPassword_KeepsUnverifiedState(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	res, err := f.svc.Signup(ctx, "Ana", "ana@x.com", "pw")
	require.NoError(t, err)

	_, err = f.svc.ForgotPassword(ctx, "ana@x.com")
	require.NoError(t, err)
	code := f.users.get(res.User.ID).OTP.Code

	_, err = f.svc.ResetPassword(ctx, "ana@x.com", code, "new")
	require.NoError(t, err)
	assert.False(t, f.users.get(res.User.ID).IsVerified)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	u := f.signupVerified(t, "ana@x.com", "current")

	_, err := f.svc.ChangePassword(ctx, u.ID, "nope", "next")
	requireKind(t, err, KindValidation, "Current password is incorrect")

	_, err = f.svc.ChangePassword(ctx, u.ID, "current", "next")
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, "ana@x.com", "next")
	assert.NoError(t, err)

	_, err = f.svc.ChangePassword(ctx, uuid.New(), "a", "b")
	requireKind(t, err, KindNotFound, "User not found")
}
