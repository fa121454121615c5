package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/vasiliy-maslov/crm-service/internal/gqlclient"
)

const logTimeLayout = "2006-01-02 15:04:05"

const restockMutation = `mutation {
  updateLowStockProducts {
    updatedProducts { id name stock }
    message
  }
}`

type restockResponse struct {
	UpdateLowStockProducts *struct {
		UpdatedProducts []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Stock int    `json:"stock"`
		} `json:"updatedProducts"`
		Message string `json:"message"`
	} `json:"updateLowStockProducts"`
}

// LowStock triggers the server-side restock of low-stock products and logs
// every product it touched.
type LowStock struct {
	client *gqlclient.Client
	log    *Appender
	now    func() time.Time
}

func NewLowStock(client *gqlclient.Client, log *Appender) *LowStock {
	return &LowStock{client: client, log: log, now: time.Now}
}

func (j *LowStock) Name() string { return "low_stock" }

func (j *LowStock) Run(ctx context.Context) Outcome {
	prefix := "[" + j.now().Format(logTimeLayout) + "] "

	var resp restockResponse
	err := j.client.Do(ctx, restockMutation, nil, &resp)
	if err == nil && resp.UpdateLowStockProducts == nil {
		err = fmt.Errorf("empty response")
	}
	if err != nil {
		line := prefix + "Error updating low stock products: " + err.Error()
		return j.finish(Outcome{Status: StatusFailed, Detail: line}, line)
	}

	updated := resp.UpdateLowStockProducts.UpdatedProducts
	if len(updated) == 0 {
		line := prefix + "No low stock products found"
		return j.finish(Outcome{Status: StatusOK, Detail: line}, line)
	}

	lines := make([]string, len(updated))
	for i, p := range updated {
		lines[i] = fmt.Sprintf("%sUpdated product: %s, new stock: %d", prefix, p.Name, p.Stock)
	}
	return j.finish(Outcome{
		Status: StatusOK,
		Detail: resp.UpdateLowStockProducts.Message,
		Items:  len(updated),
	}, lines...)
}

func (j *LowStock) finish(o Outcome, lines ...string) Outcome {
	if err := j.log.Append(lines...); err != nil {
		o.Status = StatusFailed
		o.Detail = err.Error()
	}
	return o
}
