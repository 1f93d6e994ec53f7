package model

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// ReleaseSession identifies one run of a release operation. It is
// stamped on logs, reports and rule comments so actions taken by a
// run may be traced back.
type ReleaseSession struct {
	ID  string `json:"id" yaml:"id"`
	RSE string `json:"rse" yaml:"rse"`
}

// NewReleaseSession mints a session for a run against an RSE
func NewReleaseSession(rse string) ReleaseSession {
	id, err := ksuid.NewRandom()
	if err != nil {
		panic(fmt.Sprintf("cannot generate random ksuid: %v", err))
	}
	return ReleaseSession{ID: id.String(), RSE: rse}
}

// Comment produces the rule comment for this session
func (s ReleaseSession) Comment() string {
	return fmt.Sprintf("release session %s for %s", s.ID, s.RSE)
}

// ValidateSessionID verifies an identifier parses as a ksuid
func ValidateSessionID(id string) error {
	if _, err := ksuid.Parse(id); err != nil {
		return fmt.Errorf("expected session id %q to be a ksuid: %w", id, err)
	}
	return nil
}
