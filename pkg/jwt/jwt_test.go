package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken(7, "coordinador", "D-100")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", claims.UserID)
	}
	if claims.Role != "coordinador" {
		t.Errorf("expected Role=coordinador, got %s", claims.Role)
	}
	if claims.TeacherID != "D-100" {
		t.Errorf("expected TeacherID=D-100, got %s", claims.TeacherID)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("expected TokenType=access, got %s", claims.TokenType)
	}
	if claims.Issuer != "istla-evaluacion" {
		t.Errorf("expected default issuer, got %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI should not be empty")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken(1, "admin", "")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("expected TokenType=refresh, got %s", claims.TokenType)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("refresh TTL should be about 24h, got %v", ttl)
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	m := newTestManager()

	if _, err := m.ParseToken("invalid.token.string"); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:      "different-secret-key",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, _ := m1.GenerateAccessToken(1, "admin", "")
	if _, err := m2.ParseToken(token); err == nil {
		t.Error("token signed with a different secret must not validate")
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "other-system",
	})

	token, _ := m1.GenerateAccessToken(1, "admin", "")
	if _, err := m2.ParseToken(token); err == nil {
		t.Error("token from another issuer must not validate")
	}
}

func TestParseToken_MissingExpiry(t *testing.T) {
	m := newTestManager()

	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, Claims{
		UserID:    1,
		Role:      "admin",
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:     "no-exp",
			Issuer: "istla-evaluacion",
		},
	}).SignedString([]byte("test-secret-key-for-unit-testing-2026"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("token without exp must be rejected, got %v", err)
	}
}

func TestParseToken_ExpiredToken(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 1 * time.Millisecond,
	})

	token, _ := m.GenerateAccessToken(1, "admin", "")
	time.Sleep(1100 * time.Millisecond)

	_, err := m.ParseToken(token)
	if err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}
