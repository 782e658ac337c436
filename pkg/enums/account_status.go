package enums

import (
	"fmt"
	"strings"
)

// AccountStatus maps to the account_status_enum enum in Postgres.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusInactive  AccountStatus = "INACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

var validAccountStatuses = []AccountStatus{
	AccountStatusActive,
	AccountStatusInactive,
	AccountStatusSuspended,
}

// IsValid reports whether the value matches the canonical account status enum.
func (s AccountStatus) IsValid() bool {
	for _, candidate := range validAccountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAccountStatus converts raw input into AccountStatus.
func ParseAccountStatus(value string) (AccountStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validAccountStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account status %q", value)
}
