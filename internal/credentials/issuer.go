// Package credentials issues one-time passwords and signed session tokens.
// Clock and randomness are injectable so expiry and code generation can be
// tested deterministically.
package credentials

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brayn-ai/brayn-backend/internal/models"
)

var (
	ErrOTPMissing  = errors.New("no OTP requested")
	ErrOTPMismatch = errors.New("invalid OTP")
	ErrOTPExpired  = errors.New("OTP expired")
)

const otpDigits = 6

// Claim keys carried by session tokens.
const (
	ClaimUserID = "userId"
	ClaimEmail  = "email"
)

type Options struct {
	Secret   []byte
	TokenTTL time.Duration
	OTPTTL   time.Duration
	Now      func() time.Time
	Rand     io.Reader
}

type Issuer struct {
	secret   []byte
	tokenTTL time.Duration
	otpTTL   time.Duration
	now      func() time.Time
	rand     io.Reader
}

func NewIssuer(o Options) *Issuer {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Rand == nil {
		o.Rand = rand.Reader
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 7 * 24 * time.Hour
	}
	if o.OTPTTL <= 0 {
		o.OTPTTL = 10 * time.Minute
	}
	return &Issuer{
		secret:   o.Secret,
		tokenTTL: o.TokenTTL,
		otpTTL:   o.OTPTTL,
		now:      o.Now,
		rand:     o.Rand,
	}
}

// TokenTTL is the lifetime of issued session tokens.
func (i *Issuer) TokenTTL() time.Duration {
	return i.tokenTTL
}

// NewOTP returns a fresh zero-padded six digit code expiring after the OTP TTL.
func (i *Issuer) NewOTP() (models.OTP, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(i.rand, max)
	if err != nil {
		return models.OTP{}, fmt.Errorf("failed to generate otp: %w", err)
	}
	expires := i.now().Add(i.otpTTL)
	return models.OTP{
		Code:      fmt.Sprintf("%0*d", otpDigits, n.Int64()),
		ExpiresAt: &expires,
	}, nil
}

// CheckOTP validates code against the stored challenge. Expiry is strict:
// the code still works at exactly ExpiresAt.
func (i *Issuer) CheckOTP(stored models.OTP, code string) error {
	if stored.Empty() {
		return ErrOTPMissing
	}
	if stored.Code != code {
		return ErrOTPMismatch
	}
	if i.now().After(*stored.ExpiresAt) {
		return ErrOTPExpired
	}
	return nil
}

// IssueToken signs an HS256 session token for user.
func (i *Issuer) IssueToken(user *models.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		ClaimUserID: user.ID.String(),
		ClaimEmail:  user.Email,
		"iat":       now.Unix(),
		"exp":       now.Add(i.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// UserIDFromClaims extracts the user id from verified token claims.
func UserIDFromClaims(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, ok := claims[ClaimUserID].(string)
	if !ok {
		return uuid.Nil, errors.New("missing userId claim")
	}
	return uuid.Parse(raw)
}
