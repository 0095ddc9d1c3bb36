package auth

import (
	"strings"

	"github.com/PHRJr/BuritisProject/pkg/enums"
)

// Credential is one of the supported login proofs.
type Credential interface {
	Kind() enums.CredentialKind
	credential()
}

// EmailCredential signs a shopper in when the e-mail is on the allow-list.
type EmailCredential struct {
	Email string
}

func (EmailCredential) Kind() enums.CredentialKind { return enums.CredentialKindEmail }
func (EmailCredential) credential()                {}

// PasscodeCredential signs a shopper in with the shared passcode.
type PasscodeCredential struct {
	Passcode string
}

func (PasscodeCredential) Kind() enums.CredentialKind { return enums.CredentialKindPasscode }
func (PasscodeCredential) credential()                {}

// AdminCredential signs an administrator in with e-mail and password.
type AdminCredential struct {
	Email    string
	Password string
}

func (AdminCredential) Kind() enums.CredentialKind { return enums.CredentialKindAdmin }
func (AdminCredential) credential()                {}

// UserLoginRequest is the shopper login body. Exactly one field is expected.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Passcode string `json:"senha" validate:"omitempty,max=256"`
}

// Credential picks the variant the shopper sent. E-mail wins when both are present.
func (r UserLoginRequest) Credential() (Credential, bool) {
	if email := strings.TrimSpace(r.Email); email != "" {
		return EmailCredential{Email: email}, true
	}
	if r.Passcode != "" {
		return PasscodeCredential{Passcode: r.Passcode}, true
	}
	return nil, false
}

// AdminLoginRequest is the administrator login body.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

// Credential converts the request into its credential.
func (r AdminLoginRequest) Credential() Credential {
	return AdminCredential{Email: strings.TrimSpace(r.Email), Password: r.Password}
}
