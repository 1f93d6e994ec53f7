package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rule states reported by the data management service
const (
	RuleStateOK          = "OK"
	RuleStateReplicating = "REPLICATING"
	RuleStateStuck       = "STUCK"
	RuleStateSuspended   = "SUSPENDED"
	RuleStateInject      = "INJECT"
	RuleStateWaiting     = "WAITING_APPROVAL"
)

// Rule is a replication rule as returned by the data management service
type Rule struct {
	ID            string    `json:"id" yaml:"id"`
	Scope         string    `json:"scope" yaml:"scope"`
	Name          string    `json:"name" yaml:"name"`
	RSEExpression string    `json:"rse_expression" yaml:"rse_expression"`
	State         string    `json:"state" yaml:"state"`
	Copies        int       `json:"copies" yaml:"copies"`
	CreatedAt     time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// DID of the data identifier this rule locks
func (r Rule) DID() DID {
	return DID{Scope: r.Scope, Name: r.Name}
}

// Validate verifies the rule identifier is a well-formed UUID
func (r Rule) Validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("invalid rule ID %q: %w", r.ID, err)
	}
	return nil
}

// RuleSummary tallies rule states for a set of data identifiers.
// Only the transfer-relevant states are tracked.
type RuleSummary struct {
	Total       int `json:"total" yaml:"total"`
	OK          int `json:"ok" yaml:"ok"`
	Replicating int `json:"replicating" yaml:"replicating"`
	Stuck       int `json:"stuck" yaml:"stuck"`
	Suspended   int `json:"suspended" yaml:"suspended"`
}

// Add tallies one rule into the summary
func (s *RuleSummary) Add(rule Rule) {
	s.Total++
	switch rule.State {
	case RuleStateOK:
		s.OK++
	case RuleStateReplicating:
		s.Replicating++
	case RuleStateStuck:
		s.Stuck++
	case RuleStateSuspended:
		s.Suspended++
	}
}

// Merge adds the tallies of another summary
func (s *RuleSummary) Merge(other RuleSummary) {
	s.Total += other.Total
	s.OK += other.OK
	s.Replicating += other.Replicating
	s.Stuck += other.Stuck
	s.Suspended += other.Suspended
}

func (s RuleSummary) String() string {
	return fmt.Sprintf("Ok: %d, Stuck: %d, Suspended: %d, Replicating: %d",
		s.OK, s.Stuck, s.Suspended, s.Replicating)
}
