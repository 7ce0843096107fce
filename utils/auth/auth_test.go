package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/utils/auth"
)

func TestGenerateAndValidateToken(t *testing.T) {
	m := auth.NewJWTManager(auth.JWTConfig{Secret: "secret", Expiry: time.Hour, Issuer: "courses"})

	token, jti, err := m.GenerateAccessToken(42, "ada@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Errorf("UserID = %d, %v", id, err)
	}
	if claims.ID != jti || claims.Email != "ada@example.com" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if until := time.Until(claims.ExpiresAtTime()); until < 59*time.Minute || until > time.Hour {
		t.Errorf("expiry in %s, want about an hour", until)
	}
}

func TestValidateTokenFailures(t *testing.T) {
	m := auth.NewJWTManager(auth.JWTConfig{Secret: "secret", Expiry: time.Hour, Issuer: "courses"})

	expired := auth.NewJWTManager(auth.JWTConfig{Secret: "secret", Expiry: -time.Minute, Issuer: "courses"})
	expiredToken, _, _ := expired.GenerateAccessToken(1, "a@example.com")

	otherIssuer := auth.NewJWTManager(auth.JWTConfig{Secret: "secret", Expiry: time.Hour, Issuer: "elsewhere"})
	foreignToken, _, _ := otherIssuer.GenerateAccessToken(1, "a@example.com")

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ID:        "x",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expiredToken, auth.ErrExpiredToken},
		{"wrong issuer", foreignToken, auth.ErrInvalidToken},
		{"unsigned", noneToken, auth.ErrInvalidToken},
		{"garbage", "abc.def.ghi", auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ValidateToken(tt.token); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	if _, err := auth.HashPassword("short"); !errors.Is(err, auth.ErrPasswordTooShort) {
		t.Errorf("err = %v, want ErrPasswordTooShort", err)
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatal(err)
	}
	if err := auth.VerifyPassword(hash, "password123"); err != nil {
		t.Errorf("VerifyPassword returned error: %v", err)
	}
	if err := auth.VerifyPassword(hash, "password124"); !errors.Is(err, auth.ErrPasswordMismatch) {
		t.Errorf("err = %v, want ErrPasswordMismatch", err)
	}
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	store, err := database.StartSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	user := model.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	store.GetDB().Create(&user)

	svc := auth.NewBlacklistService(store.GetDB(), nil)

	if err := svc.RevokeToken(ctx, "live", user.ID, time.Now().Add(time.Hour), "logout"); err != nil {
		t.Fatal(err)
	}
	// revoking twice is harmless
	if err := svc.RevokeToken(ctx, "live", user.ID, time.Now().Add(time.Hour), "logout"); err != nil {
		t.Fatalf("second revoke returned error: %v", err)
	}
	if err := svc.RevokeToken(ctx, "stale", user.ID, time.Now().Add(-time.Hour), "logout"); err != nil {
		t.Fatal(err)
	}

	if revoked, _ := svc.IsTokenRevoked(ctx, "live"); !revoked {
		t.Error("live token should be revoked")
	}
	if revoked, _ := svc.IsTokenRevoked(ctx, "unknown"); revoked {
		t.Error("unknown token should not be revoked")
	}

	removed, err := svc.CleanupExpiredTokens(ctx)
	if err != nil || removed != 1 {
		t.Errorf("CleanupExpiredTokens = %d, %v; want 1", removed, err)
	}
}
