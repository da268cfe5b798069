package domain

import "testing"

func TestAccount_IsActive(t *testing.T) {
	truthy := []string{"1", "Y", "y", "TRUE", "true", " 1 ", " Y"}
	falsy := []string{"", "0", "N", "n", "FALSE", "false", "True", "yes", "2"}

	for _, v := range truthy {
		a := Account{ActiveFlag: v}
		if !a.IsActive() {
			t.Fatalf("flag %q should be active", v)
		}
	}
	for _, v := range falsy {
		a := Account{ActiveFlag: v}
		if a.IsActive() {
			t.Fatalf("flag %q should be inactive", v)
		}
	}
}

func TestRegistrationRequest_Validate(t *testing.T) {
	base := func() RegistrationRequest {
		return RegistrationRequest{
			Code: "U001", Name: "Alice", Email: "alice@example.com", Password: "secret1",
		}
	}

	ok := base()
	ok.Normalize()
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	short := base()
	short.Password = "12345"
	if err := short.Validate(); err == nil {
		t.Fatal("expected short password to be rejected")
	}

	noEmail := base()
	noEmail.Email = ""
	if err := noEmail.Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
