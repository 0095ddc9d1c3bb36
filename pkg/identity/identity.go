// Package identity describes who is behind a session.
package identity

import (
	"fmt"
	"strings"

	"github.com/PHRJr/BuritisProject/pkg/enums"
)

// Identity is resolved at login and carried by every authenticated request.
// Subject is the shopper e-mail, the admin e-mail, or a stable digest standing
// in for the shared passcode.
type Identity struct {
	Role    enums.Role           `json:"role"`
	Kind    enums.CredentialKind `json:"kind"`
	Subject string               `json:"subject"`
}

// Validate reports whether the identity can back a session.
func (i Identity) Validate() error {
	if !i.Role.IsValid() {
		return fmt.Errorf("invalid role %q", i.Role)
	}
	if !i.Kind.IsValid() {
		return fmt.Errorf("invalid credential kind %q", i.Kind)
	}
	if strings.TrimSpace(i.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	if i.Kind == enums.CredentialKindAdmin && i.Role != enums.RoleAdmin {
		return fmt.Errorf("admin credentials must carry the admin role")
	}
	return nil
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == enums.RoleAdmin
}
