package jobs

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vasiliy-maslov/crm-service/internal/gqlclient"
)

const heartbeatTimeLayout = "02/01/2006-15:04:05"

// Heartbeat records that the CRM process is alive and whether the GraphQL
// endpoint answers a trivial query.
type Heartbeat struct {
	client *gqlclient.Client
	log    *Appender
	now    func() time.Time
}

func NewHeartbeat(client *gqlclient.Client, log *Appender) *Heartbeat {
	return &Heartbeat{client: client, log: log, now: time.Now}
}

func (h *Heartbeat) Name() string { return "heartbeat" }

func (h *Heartbeat) Run(ctx context.Context) Outcome {
	timestamp := h.now().Format(heartbeatTimeLayout)

	var o Outcome
	status, _, err := h.client.Post(ctx, "{ hello }", nil)
	switch {
	case err != nil:
		o.Status = StatusFailed
		o.Detail = fmt.Sprintf("%s CRM heartbeat failed to contact GraphQL: %v", timestamp, err)
	case status == http.StatusOK:
		o.Status = StatusOK
		o.Detail = fmt.Sprintf("%s CRM is alive and GraphQL responded successfully", timestamp)
	default:
		o.Status = StatusDegraded
		o.Detail = fmt.Sprintf("%s CRM is alive but GraphQL returned %d", timestamp, status)
	}

	if err := h.log.Append(o.Detail); err != nil {
		o.Status = StatusFailed
		o.Detail = err.Error()
	}
	return o
}
