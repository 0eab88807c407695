package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	userID := primitive.NewObjectID()
	token, err := GenerateToken(userID, []string{"operator"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID.Hex() {
		t.Errorf("userID = %q, want %q", claims.UserID, userID.Hex())
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "operator" {
		t.Errorf("roles = %v, want [operator]", claims.Roles)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	SetSecret("first-secret")
	token, err := GenerateToken(primitive.NewObjectID(), nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	SetSecret("second-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with a different secret must not validate")
	}

	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("garbage input must not validate")
	}
}
