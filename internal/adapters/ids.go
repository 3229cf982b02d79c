package adapters

import (
	"strings"

	"github.com/google/uuid"
)

// IDSource produces random hexadecimal tokens for minted identifiers.
type IDSource interface {
	Token(length int) string
}

// UUIDSource draws tokens from random (version 4) UUIDs.
type UUIDSource struct{}

// Token returns the first length lowercase hex digits of a new UUID.
func (UUIDSource) Token(length int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	if length <= 0 || length > len(hex) {
		return hex
	}
	return hex[:length]
}

// ProgramID mints a program identifier such as "DOE3f9a1c".
func ProgramID(ids IDSource, f Format) string {
	return f.Prefix() + ids.Token(6)
}

// RegistryID mints a registry identifier such as "EPA3F9A1C07".
func RegistryID(ids IDSource, prefix string) string {
	return strings.ToUpper(prefix) + strings.ToUpper(ids.Token(8))
}
