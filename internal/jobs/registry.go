package jobs

import (
	"fmt"
	"sort"

	"github.com/vasiliy-maslov/crm-service/internal/config"
	"github.com/vasiliy-maslov/crm-service/internal/gqlclient"
)

// Registry holds the configured jobs by name.
type Registry struct {
	entries map[string]Entry
	enabled map[string]bool
}

// NewRegistry builds every job from cfg. Jobs without their own timeout use
// the shared request timeout.
func NewRegistry(cfg config.JobsConfig) *Registry {
	r := &Registry{entries: make(map[string]Entry), enabled: make(map[string]bool)}

	client := func(jc config.JobConfig) *gqlclient.Client {
		timeout := jc.Timeout
		if timeout <= 0 {
			timeout = cfg.RequestTimeout
		}
		return gqlclient.New(cfg.GraphQLEndpoint, timeout)
	}

	r.add(NewHeartbeat(client(cfg.Heartbeat), NewAppender(cfg.Heartbeat.LogFile)), cfg.Heartbeat)
	r.add(NewLowStock(client(cfg.LowStock), NewAppender(cfg.LowStock.LogFile)), cfg.LowStock)
	r.add(NewReminders(client(cfg.Reminders), NewAppender(cfg.Reminders.LogFile), cfg.ReminderWindow), cfg.Reminders)
	return r
}

func (r *Registry) add(job Job, jc config.JobConfig) {
	r.entries[job.Name()] = Entry{Job: job, Interval: jc.Interval}
	r.enabled[job.Name()] = jc.Enabled
}

// Get returns the job called name, enabled or not.
func (r *Registry) Get(name string) (Job, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown job %q (known: %v)", name, r.Names())
	}
	return e.Job, nil
}

// Names lists every job name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enabled returns the schedule entries of the enabled jobs in name order.
func (r *Registry) Enabled() []Entry {
	var out []Entry
	for _, name := range r.Names() {
		if r.enabled[name] {
			out = append(out, r.entries[name])
		}
	}
	return out
}
