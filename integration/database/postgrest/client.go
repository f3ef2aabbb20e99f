package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	pgrest "github.com/supabase-community/postgrest-go"

	"github.com/moi-restaurants/tracker/core/recordstore"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultHealthTable = "sessions"
	returnMinimal      = "minimal"
)

// Client is a recordstore.Store over a PostgREST endpoint such as Supabase's /rest/v1.
type Client struct {
	rest        *pgrest.Client
	timeout     time.Duration
	healthTable string
}

// New validates cfg and builds a client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}
	if cfg.AnonKey == "" {
		return nil, ErrMissingAnonKey
	}

	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("postgrest: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("postgrest: unsupported scheme %q", base.Scheme)
	}
	if !strings.HasSuffix(base.Path, "/rest/v1") {
		base.Path += "/rest/v1"
	}

	rest := pgrest.NewClient(base.String(), cfg.Schema, map[string]string{
		"apikey":        cfg.AnonKey,
		"Authorization": "Bearer " + cfg.AnonKey,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("postgrest: %w", rest.ClientError)
	}

	c := &Client{
		rest:        rest,
		timeout:     cfg.Timeout,
		healthTable: cfg.HealthTable,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.healthTable == "" {
		c.healthTable = defaultHealthTable
	}
	return c, nil
}

func (c *Client) Insert(ctx context.Context, table string, rec recordstore.Record) error {
	if err := recordstore.ValidateInsert(table, rec); err != nil {
		return err
	}
	fb := c.rest.From(table).Insert(rec, false, "", returnMinimal, "")
	_, err := c.execute(ctx, "insert", table, fb)
	return err
}

func (c *Client) Update(ctx context.Context, table string, filter []recordstore.Condition, patch recordstore.Record) error {
	if err := recordstore.ValidateUpdate(table, filter, patch); err != nil {
		return err
	}
	fb := applyFilter(c.rest.From(table).Update(patch, returnMinimal, ""), filter)
	_, err := c.execute(ctx, "update", table, fb)
	return err
}

func (c *Client) Select(ctx context.Context, table string, q recordstore.Query) ([]recordstore.Record, error) {
	if err := recordstore.ValidateSelect(table, q); err != nil {
		return nil, err
	}

	fb := applyFilter(c.rest.From(table).Select("*", "", false), q.Filter)
	if q.Order != nil {
		fb = fb.Order(q.Order.Column, &pgrest.OrderOpts{Ascending: !q.Order.Desc})
	}
	if q.Limit > 0 {
		fb = fb.Limit(q.Limit, "")
	}

	raw, err := c.execute(ctx, "select", table, fb)
	if err != nil {
		return nil, err
	}
	var rows []recordstore.Record
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("postgrest: decode %s: %w", table, err)
	}
	return rows, nil
}

// Healthcheck reads one row of the health table, which proves the endpoint, key and schema.
func (c *Client) Healthcheck(ctx context.Context) error {
	fb := c.rest.From(c.healthTable).Select("*", "", false).Limit(1, "")
	_, err := c.execute(ctx, "healthcheck", c.healthTable, fb)
	return err
}

type result struct {
	body []byte
	err  error
}

// execute runs fb under ctx and the client timeout. The library call itself takes no context,
// so an abandoned request finishes in the background and its result is dropped.
func (c *Client) execute(ctx context.Context, op, table string, fb *pgrest.FilterBuilder) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		body, _, err := fb.Execute()
		done <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, op, table, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, wrapError(op, table, res.err)
		}
		return res.body, nil
	}
}

// applyFilter renders equality conditions as column=eq.value; nil becomes column=is.null.
func applyFilter(fb *pgrest.FilterBuilder, filter []recordstore.Condition) *pgrest.FilterBuilder {
	for _, cond := range filter {
		if cond.Value == nil {
			fb = fb.Is(cond.Column, "null")
			continue
		}
		fb = fb.Eq(cond.Column, formatValue(cond.Value))
	}
	return fb
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
