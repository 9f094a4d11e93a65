// Package domain defines the provisioning workflow's states, results and
// error taxonomy.
package domain

import (
	"context"
	"errors"
	"net/http"

	"github.com/bwmarrin/snowflake"
)

// State is the workflow position reached by one run.
type State string

const (
	StateReceived            State = "received"
	StateValidated           State = "validated"
	StateIdentityReady       State = "identity_ready"
	StateProfileWritten      State = "profile_written"
	StateSubscriptionWritten State = "subscription_written"
	StateAcknowledged        State = "acknowledged"
	StateErrored             State = "errored"
)

// Result reports what one workflow run produced. Once the subscription row
// exists the run always acknowledges, whatever the trailing steps did.
type Result struct {
	RunID          string
	State          State
	FanID          snowflake.ID
	CreatorID      snowflake.ID
	SubscriptionID snowflake.ID
	Username       string
	Duplicate      bool
}

type Service interface {
	// IngestWebhook authenticates, parses and processes one raw webhook
	// delivery. Event kinds the platform does not act on return nil.
	IngestWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) (Result, error)
}

// Fatal step failures. Anything before the subscription write aborts the run
// and surfaces one of these; the trailing steps only ever log.
var (
	ErrCreatorNotFound      = errors.New("creator_not_found")
	ErrIdentityProvisioning = errors.New("identity_provisioning_failed")
	ErrProfileWrite         = errors.New("profile_write_failed")
	ErrSubscriptionWrite    = errors.New("subscription_write_failed")
)
