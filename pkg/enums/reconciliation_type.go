package enums

import "fmt"

// ReconciliationType maps to the reconciliation_type_enum enum in Postgres.
type ReconciliationType string

const (
	ReconciliationTypeAutomatic ReconciliationType = "AUTOMATIC"
	ReconciliationTypeManual    ReconciliationType = "MANUAL"
)

var validReconciliationTypes = []ReconciliationType{
	ReconciliationTypeAutomatic,
	ReconciliationTypeManual,
}

func (t ReconciliationType) IsValid() bool {
	for _, candidate := range validReconciliationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

func ParseReconciliationType(value string) (ReconciliationType, error) {
	for _, candidate := range validReconciliationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reconciliation type %q", value)
}
