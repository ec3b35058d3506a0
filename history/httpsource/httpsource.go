// Package httpsource reads history from an HTTP bridge that answers
//
//	GET {base}/history?tickers=A,B&fields=PX_LAST&start=2024-01-01&end=2024-12-31
//
// with a JSON body of long-form rows:
//
//	{"rows":[{"date":"2024-01-02","ticker":"A","field":"PX_LAST","value":1.5}]}
//
// A null value marks a missing observation.
package httpsource

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/quant/history"
	"github.com/rustyeddy/quant/panel"
)

const DefaultTimeout = 30 * time.Second

type Client struct {
	BaseURL string
	Log     zerolog.Logger

	client *resty.Client
}

type historyResp struct {
	Rows []struct {
		Date   string   `json:"date"`
		Ticker string   `json:"ticker"`
		Field  string   `json:"field"`
		Value  *float64 `json:"value"`
	} `json:"rows"`
}

// New returns a client for baseURL. A zero timeout means DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Log:     zerolog.Nop(),
		client:  client,
	}
}

// History implements history.Source.
func (c *Client) History(ctx context.Context, req history.Request) (*history.Frame, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("httpsource: missing base url: %w", panel.ErrConfig)
	}

	r := c.client.R().
		SetContext(ctx).
		SetQueryParam("fields", strings.Join(req.Fields, ","))
	if len(req.Tickers) > 0 {
		r.SetQueryParam("tickers", strings.Join(req.Tickers, ","))
	}
	if req.Start != "" {
		r.SetQueryParam("start", req.Start)
	}
	if req.End != "" {
		r.SetQueryParam("end", req.End)
	}

	resp, err := r.Get(c.BaseURL + "/history")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("httpsource: %s: %s", resp.Status(), strings.TrimSpace(string(resp.Body())))
	}

	var hr historyResp
	if err := json.Unmarshal(resp.Body(), &hr); err != nil {
		return nil, fmt.Errorf("httpsource: decode: %v: %w", err, panel.ErrParse)
	}

	obs := make([]history.Observation, 0, len(hr.Rows))
	for i, row := range hr.Rows {
		ts, err := panel.ParseBound(row.Date)
		if err != nil || ts.IsZero() {
			return nil, fmt.Errorf("httpsource: row %d: bad date %q: %w", i, row.Date, panel.ErrParse)
		}
		v := panel.Missing()
		if row.Value != nil {
			v = *row.Value
		}
		obs = append(obs, history.Observation{Date: ts, Ticker: row.Ticker, Field: row.Field, Value: v})
	}

	c.Log.Debug().
		Str("url", c.BaseURL).
		Int("rows", len(obs)).
		Dur("elapsed", resp.Time()).
		Msg("http history loaded")

	return history.Pivot(req, obs)
}
