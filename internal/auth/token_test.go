package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-keeper/internal/clock"
)

func newTestAuthority(t *testing.T) (*Authority, *clock.Fixed) {
	t.Helper()
	clk := &clock.Fixed{T: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	a, err := New(Config{Secret: "super-secret", TTL: time.Hour}, clk)
	require.NoError(t, err)
	return a, clk
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Config{Secret: "  "}, nil)
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestNew_DefaultTTL(t *testing.T) {
	a, err := New(Config{Secret: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, a.TTL())
}

func TestIssueAndVerify(t *testing.T) {
	a, clk := newTestAuthority(t)

	tok, err := a.IssueToken("user-123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Value)
	assert.Equal(t, clk.T, tok.IssuedAt)
	assert.Equal(t, clk.T.Add(time.Hour), tok.ExpiresAt)

	got, err := a.VerifyToken(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestIssueToken_RequiresUserID(t *testing.T) {
	a, _ := newTestAuthority(t)
	_, err := a.IssueToken("")
	require.Error(t, err)
}

func TestVerifyToken_ValidUntilExpiry(t *testing.T) {
	a, clk := newTestAuthority(t)

	tok, err := a.IssueToken("u1")
	require.NoError(t, err)

	clk.Advance(time.Hour - time.Second)
	got, err := a.VerifyToken(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "u1", got)

	clk.Advance(time.Second)
	_, err = a.VerifyToken(tok.Value)
	require.ErrorIs(t, err, ErrInvalidToken)

	clk.Advance(24 * time.Hour)
	_, err = a.VerifyToken(tok.Value)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Missing(t *testing.T) {
	a, _ := newTestAuthority(t)

	_, err := a.VerifyToken("")
	require.ErrorIs(t, err, ErrTokenMissing)

	_, err = a.VerifyToken("   ")
	require.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerifyToken_Malformed(t *testing.T) {
	a, _ := newTestAuthority(t)

	for _, raw := range []string{"not.a.jwt", "garbage", "a.b", "..."} {
		_, err := a.VerifyToken(raw)
		require.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	a, clk := newTestAuthority(t)
	other, err := New(Config{Secret: "other-secret", TTL: time.Hour}, clk)
	require.NoError(t, err)

	tok, err := other.IssueToken("u1")
	require.NoError(t, err)

	_, err = a.VerifyToken(tok.Value)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_SwappedPayload(t *testing.T) {
	a, _ := newTestAuthority(t)

	alice, err := a.IssueToken("alice")
	require.NoError(t, err)
	bob, err := a.IssueToken("bob")
	require.NoError(t, err)

	ap := strings.Split(alice.Value, ".")
	bp := strings.Split(bob.Value, ".")
	require.Len(t, ap, 3)
	require.Len(t, bp, 3)

	forged := strings.Join([]string{ap[0], bp[1], ap[2]}, ".")
	_, err = a.VerifyToken(forged)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_RejectsNoneAlgorithm(t *testing.T) {
	a, clk := newTestAuthority(t)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clk.T.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = a.VerifyToken(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_RequiresExpiry(t *testing.T) {
	a, _ := newTestAuthority(t)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString(a.secret)
	require.NoError(t, err)

	_, err = a.VerifyToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_RequiresSubject(t *testing.T) {
	a, clk := newTestAuthority(t)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clk.T.Add(time.Hour)),
		},
	}).SignedString(a.secret)
	require.NoError(t, err)

	_, err = a.VerifyToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"Bearer":          "",
		"Bearer   ":       "",
		"Bearer abc.d.e":  "abc.d.e",
		"  Bearer  xyz  ": "xyz",
		"raw-token":       "raw-token",
	}
	for header, want := range cases {
		assert.Equal(t, want, BearerToken(header), "header %q", header)
	}
}
