package enums

import "fmt"

// CredentialKind identifies how a session was established.
type CredentialKind string

const (
	CredentialKindEmail    CredentialKind = "email"
	CredentialKindPasscode CredentialKind = "passcode"
	CredentialKindAdmin    CredentialKind = "admin_password"
)

var validCredentialKinds = []CredentialKind{
	CredentialKindEmail,
	CredentialKindPasscode,
	CredentialKindAdmin,
}

// String implements fmt.Stringer.
func (k CredentialKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known CredentialKind.
func (k CredentialKind) IsValid() bool {
	for _, candidate := range validCredentialKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseCredentialKind converts raw input into a CredentialKind.
func ParseCredentialKind(value string) (CredentialKind, error) {
	for _, candidate := range validCredentialKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid credential kind %q", value)
}
