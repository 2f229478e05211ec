// package models defines the data model for the catalog admin console
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the authorization level reported by the API for a [User].
type Role string

// DefaultAdminRole is the role value that grants catalog management.
const DefaultAdminRole Role = "ADMIN"

// ID is an entity identifier. The API may encode it as a JSON string or number.
type ID string

// UnmarshalJSON accepts both quoted and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// User is the cached profile of the authenticated operator.
type User struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// HasRole reports whether the user's role equals r exactly.
func (u User) HasRole(r Role) bool {
	return u.Role != "" && u.Role == r
}

// DisplayName returns the name, falling back to "Admin" when the API did not provide one.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return "Admin"
}

// DisplayRole returns the role, falling back to "Admin".
func (u User) DisplayRole() string {
	if u.Role == "" {
		return "Admin"
	}
	return string(u.Role)
}
