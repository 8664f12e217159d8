// Package domain holds typed identifiers shared across modules.
//
// IDs are distinct uuid wrappers so a JudgeID can never be passed where a
// TeamID is expected; the compiler enforces what the wire layer cannot.
package domain

import (
	"github.com/google/uuid"

	dErrors "hackhub/pkg/domain-errors"
)

type (
	// TeamID identifies a registered team or individual applicant.
	TeamID uuid.UUID
	// JudgeID identifies an authenticated judge.
	JudgeID uuid.UUID
)

func (id TeamID) String() string  { return uuid.UUID(id).String() }
func (id JudgeID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the ID is the nil UUID.
func (id TeamID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id JudgeID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// Defined types do not inherit uuid.UUID's text marshaling, so IDs would
// otherwise serialize as raw byte arrays in JSON.
func (id TeamID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id JudgeID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *TeamID) UnmarshalText(b []byte) error {
	parsed, err := ParseTeamID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *JudgeID) UnmarshalText(b []byte) error {
	parsed, err := ParseJudgeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewTeamID returns a fresh random team ID.
func NewTeamID() TeamID { return TeamID(uuid.New()) }

// NewJudgeID returns a fresh random judge ID.
func NewJudgeID() JudgeID { return JudgeID(uuid.New()) }

// ParseTeamID parses an external team identifier. Empty, malformed, and
// nil UUIDs are all rejected at this trust boundary.
func ParseTeamID(s string) (TeamID, error) {
	u, err := parseUUID(s, "team id")
	if err != nil {
		return TeamID{}, err
	}
	return TeamID(u), nil
}

// ParseJudgeID parses an external judge identifier.
func ParseJudgeID(s string) (JudgeID, error) {
	u, err := parseUUID(s, "judge id")
	if err != nil {
		return JudgeID{}, err
	}
	return JudgeID(u), nil
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, what+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, what+" cannot be the nil uuid")
	}
	return u, nil
}
