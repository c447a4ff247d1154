package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-32b"

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	token, err := m.GenerateAccessToken("user-1", "asha@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "user-service", claims.Issuer)
}

func TestJWTManager_UsesUserIdClaim(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	token, err := m.GenerateAccessToken("user-1", "")
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Equal(t, "user-1", raw["userId"])
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.GenerateAccessToken("user-1", "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccessToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager(testSecret, time.Hour).GenerateAccessToken("user-1", "")
	require.NoError(t, err)

	_, err = NewJWTManager("another-secret-that-is-long-enough", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsOtherAlgorithms(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"})
	s, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(s)
	assert.Error(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: "user-1"})
	s, err = hs512.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(s)
	assert.Error(t, err)
}

func TestJWTManager_MissingUserID(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	token, err := m.GenerateAccessToken("", "")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Validator(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	token, err := m.GenerateAccessToken("user-9", "x@example.com")
	require.NoError(t, err)

	claims, err := m.Validator()(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)

	_, err = m.Validator()("garbage")
	assert.Error(t, err)
}
