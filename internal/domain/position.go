package domain

import "fmt"

// Position is a closed enumeration of ranks a user can hold.
type Position string

const (
	PositionEngineer       Position = "ENGINEER"
	PositionSeniorEngineer Position = "SENIOR_ENGINEER"
	PositionStaffEngineer  Position = "STAFF_ENGINEER"
	PositionManager        Position = "MANAGER"
	PositionSeniorManager  Position = "SENIOR_MANAGER"
	PositionGeneralManager Position = "GENERAL_MANAGER"
)

var positions = map[string]Position{
	string(PositionEngineer):       PositionEngineer,
	string(PositionSeniorEngineer): PositionSeniorEngineer,
	string(PositionStaffEngineer):  PositionStaffEngineer,
	string(PositionManager):        PositionManager,
	string(PositionSeniorManager):  PositionSeniorManager,
	string(PositionGeneralManager): PositionGeneralManager,
}

// ConversionError reports a string that is not a member of a closed enumeration.
type ConversionError struct {
	Message string
}

func (e *ConversionError) Error() string {
	return e.Message
}

// ParsePosition converts s into a Position. Matching is exact and case sensitive.
func ParsePosition(s string) (Position, error) {
	p, ok := positions[s]
	if !ok {
		return "", &ConversionError{Message: fmt.Sprintf("unknown position: %s", s)}
	}
	return p, nil
}

func (p Position) String() string {
	return string(p)
}
