package utilities

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const sessionKeyInfo = "antibias-assessment session cookie"

var ErrInvalidToken = errors.New("invalid or expired session token")

// SessionClaims carries the session id and shuffle seed so a session's
// question order survives a server restart.
type SessionClaims struct {
	SessionID string `json:"sid"`
	Seed      string `json:"seed"`
	jwt.RegisteredClaims
}

// SessionTokens signs and verifies session cookies.
type SessionTokens struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewSessionTokens derives the HMAC key from secret. An empty secret is
// replaced by a random per-process key, so cookies do not outlive a restart.
func NewSessionTokens(secret string, expiry time.Duration) *SessionTokens {
	ikm := []byte(secret)
	if len(ikm) == 0 {
		ikm = make([]byte, 32)
		if _, err := rand.Read(ikm); err != nil {
			panic("read random session key: " + err.Error())
		}
		Warn("no session secret configured; using a random key for this process")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte(sessionKeyInfo)), key); err != nil {
		panic("derive session key: " + err.Error())
	}
	return &SessionTokens{secret: key, expiry: expiry, now: time.Now}
}

// Generate creates a signed token for the session.
func (st *SessionTokens) Generate(sessionID string, seed uint64) (string, error) {
	now := st.now()
	claims := &SessionClaims{
		SessionID: sessionID,
		Seed:      strconv.FormatUint(seed, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Subject:  sessionID,
		},
	}
	if st.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(st.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(st.secret)
}

// Validate verifies the token and returns the session id and seed.
func (st *SessionTokens) Validate(tokenStr string) (string, uint64, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return st.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(st.now))
	if err != nil || !token.Valid {
		return "", 0, ErrInvalidToken
	}
	if claims.SessionID == "" {
		return "", 0, ErrInvalidToken
	}
	seed, err := strconv.ParseUint(claims.Seed, 10, 64)
	if err != nil {
		return "", 0, ErrInvalidToken
	}
	return claims.SessionID, seed, nil
}
