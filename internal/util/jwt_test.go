package util

import (
	"testing"
	"time"

	"qryti_learn_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "student@example.com", Role: model.Student}
	user.ID = 42
	secret := "test-secret-test-secret-test-secret"

	token, err := GenerateJWT(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.Student || claims.Email != "student@example.com" {
		t.Errorf("claims = %+v, want the generated identity back", claims)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "student@example.com", Role: model.Student}
	user.ID = 1

	token, err := GenerateJWT(user, "secret-one-secret-one-secret-one", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "secret-two-secret-two-secret-two"); err == nil {
		t.Fatal("token signed with a different secret must not parse")
	}
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Email: "student@example.com", Role: model.Student}
	user.ID = 1
	secret := "test-secret-test-secret-test-secret"

	token, err := GenerateJWT(user, secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, secret); err == nil {
		t.Fatal("expired token must not parse")
	}
}
