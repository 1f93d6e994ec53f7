// Package release implements the IDAC release operations: planning and
// creating replication rules for selected containers, revoking them,
// checking rule status and preparing release manifests.
package release

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RuleLister is the part of the service client needed to inspect
// existing rules on a DID
type RuleLister interface {
	ListDIDRules(ctx context.Context, did model.DID) ([]model.Rule, error)
}

// Plan is the outcome of planning a release: the containers that need
// a new rule at the RSE and those already covered.
type Plan struct {
	Session        model.ReleaseSession `json:"session" yaml:"session"`
	RSE            string               `json:"rse" yaml:"rse"`
	ToCreate       model.DIDs           `json:"to_create" yaml:"to_create"`
	AlreadyPresent model.DIDs           `json:"already_present" yaml:"already_present"`
}

// Total containers considered by the plan
func (p Plan) Total() int {
	return len(p.ToCreate) + len(p.AlreadyPresent)
}

func (p Plan) String() string {
	return fmt.Sprintf("Rules to create: %d, Rules skipped: %d, Total: %d",
		len(p.ToCreate), len(p.AlreadyPresent), p.Total())
}

// NewPlan validates a release configuration and partitions the enabled
// containers into those needing a rule at the RSE and those already
// holding one.
//
// Existing rules are queried concurrently. The operation is
// interruptible through the WithDoneChan option.
func NewPlan(ctx context.Context, client RuleLister, manifest model.ReleaseManifest, idac model.IDACConfig, rse string, opts ...Option) (Plan, error) {
	settings := newSettings(opts...)
	m := settings.ensureMetrics()
	var err error
	if m != nil {
		defer func(t0 time.Time) {
			m.Usage.UsedAll(t0, "NewPlan")(err)
		}(time.Now())
	}

	if err = idac.Validate(rse); err != nil {
		return Plan{}, err
	}
	if err = idac.CrossCheck(manifest); err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Session: model.NewReleaseSession(rse),
		RSE:     rse,
	}
	enabled := idac.Enabled()
	settings.l.Info("planning release",
		zap.String("session", plan.Session.ID),
		zap.String("rse", rse),
		zap.Int("enabled", len(enabled)),
		zap.Int("disabled", len(idac.Disabled())),
	)

	type lookup struct {
		did     model.DID
		present bool
		err     error
	}

	didC := make(chan model.DID)
	resultC := make(chan lookup)

	var wg sync.WaitGroup
	wg.Add(settings.concurrentList)
	for i := 0; i < settings.concurrentList; i++ {
		go func() {
			defer wg.Done()
			for did := range didC {
				rules, lerr := client.ListDIDRules(ctx, did)
				if m != nil {
					m.Volumetry.Queries.Inc("ListDIDRules")
				}
				res := lookup{did: did, err: lerr}
				for _, rule := range rules {
					if rule.RSEExpression == rse {
						res.present = true
						break
					}
				}
				select {
				case resultC <- res:
				case <-settings.doneChannel:
					return
				}
			}
		}()
	}

	go func() {
		defer close(didC)
		for _, did := range enabled {
			select {
			case didC <- did:
			case <-settings.doneChannel:
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultC)
	}()

	var lookupErr error
	for res := range resultC {
		if res.err != nil {
			lookupErr = multierr.Append(lookupErr,
				fmt.Errorf("listing rules for %s: %w", res.did, res.err))
			continue
		}
		if res.present {
			settings.l.Info("rule exists, skipping",
				zap.String("did", res.did.String()), zap.String("rse", rse))
			plan.AlreadyPresent = append(plan.AlreadyPresent, res.did)
		} else {
			settings.l.Info("no rule at RSE, will create rule",
				zap.String("did", res.did.String()), zap.String("rse", rse))
			plan.ToCreate = append(plan.ToCreate, res.did)
		}
	}
	if lookupErr != nil {
		err = lookupErr
		return Plan{}, err
	}

	sort.Sort(plan.ToCreate)
	sort.Sort(plan.AlreadyPresent)
	settings.l.Info("release planned",
		zap.String("session", plan.Session.ID),
		zap.Int("to_create", len(plan.ToCreate)),
		zap.Int("already_present", len(plan.AlreadyPresent)),
	)
	return plan, nil
}
