package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/vasiliy-maslov/crm-service/internal/gqlclient"
)

const remindersPageSize = 100

const recentOrdersQuery = `query RecentOrders($since: DateTime!, $first: Int, $after: String) {
  allOrders(orderDateGte: $since, first: $first, after: $after, orderBy: "orderDate") {
    edges {
      node {
        id
        orderDate
        customer { email }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

type recentOrdersResponse struct {
	AllOrders struct {
		Edges []struct {
			Node struct {
				ID       string `json:"id"`
				Customer struct {
					Email string `json:"email"`
				} `json:"customer"`
			} `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool    `json:"hasNextPage"`
			EndCursor   *string `json:"endCursor"`
		} `json:"pageInfo"`
	} `json:"allOrders"`
}

// Reminders logs one reminder line per order placed within the window.
type Reminders struct {
	client *gqlclient.Client
	log    *Appender
	window time.Duration
	now    func() time.Time
}

func NewReminders(client *gqlclient.Client, log *Appender, window time.Duration) *Reminders {
	return &Reminders{client: client, log: log, window: window, now: time.Now}
}

func (j *Reminders) Name() string { return "order_reminders" }

func (j *Reminders) Run(ctx context.Context) Outcome {
	now := j.now()
	prefix := "[" + now.Format(logTimeLayout) + "] "
	vars := map[string]interface{}{
		"since": now.Add(-j.window).UTC().Format(time.RFC3339),
		"first": remindersPageSize,
	}

	var lines []string
	for {
		var resp recentOrdersResponse
		if err := j.client.Do(ctx, recentOrdersQuery, vars, &resp); err != nil {
			line := prefix + "Error fetching orders: " + err.Error()
			o := Outcome{Status: StatusFailed, Detail: line}
			if appendErr := j.log.Append(line); appendErr != nil {
				o.Detail = appendErr.Error()
			}
			return o
		}

		for _, e := range resp.AllOrders.Edges {
			lines = append(lines, fmt.Sprintf("%sOrder ID: %s, Email: %s", prefix, e.Node.ID, e.Node.Customer.Email))
		}
		if !resp.AllOrders.PageInfo.HasNextPage || resp.AllOrders.PageInfo.EndCursor == nil {
			break
		}
		vars["after"] = *resp.AllOrders.PageInfo.EndCursor
	}

	o := Outcome{
		Status: StatusOK,
		Detail: fmt.Sprintf("%d orders since %s", len(lines), vars["since"]),
		Items:  len(lines),
	}
	if err := j.log.Append(lines...); err != nil {
		o.Status = StatusFailed
		o.Detail = err.Error()
	}
	return o
}
