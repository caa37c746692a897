package supabase

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Backend implements types.Backend over a Supabase project. Each standard
// table maps to the PostgREST resource of the same name.
type Backend struct {
	mu         sync.RWMutex
	attached   bool
	client     *Client
	httpClient *http.Client
	logger     *zap.Logger
	tables     map[string]*table
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// WithHTTPClient replaces the HTTP client built from the config.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) { b.httpClient = c }
}

// NewBackend creates a detached Supabase backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.NewNop(), tables: make(map[string]*table)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach validates the config and builds the REST client. No request is
// made until a table is used.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	client, err := NewClient(ClientConfig{
		URL:        config.Supabase.URL,
		APIKey:     config.Supabase.APIKey,
		Timeout:    config.Supabase.Timeout,
		RateLimit:  config.Supabase.RateLimit,
		HTTPClient: b.httpClient,
	})
	if err != nil {
		return err
	}

	b.client = client
	for _, name := range types.StandardTableNames {
		schema, _ := types.SchemaFor(name)
		b.tables[name] = &table{name: name, schema: schema, backend: b}
	}
	b.attached = true
	return nil
}

// Detach drops the client. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	b.client = nil
	b.tables = make(map[string]*table)
	return nil
}

// GetTable returns the named table.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	t, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

func (b *Backend) from(name string) (*QueryBuilder, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.client.From(name), nil
}

type table struct {
	name    string
	schema  types.TableSchema
	backend *Backend
}

func (t *table) columns() string {
	return strings.Join(t.schema.Columns, ",")
}

// run executes a request and converts transport and API failures into
// errors naming the operation.
func (t *table) run(op string, exec func() (*Response, error)) (*Response, error) {
	resp, err := exec()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, t.name, err)
	}
	t.backend.logger.Debug("supabase request",
		zap.String("op", op),
		zap.String("table", t.name),
		zap.Int("status", resp.StatusCode))
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, t.name, err)
	}
	return resp, nil
}

func (t *table) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	q, err := t.backend.from(t.name)
	if err != nil {
		return nil, err
	}
	resp, err := t.run("get", func() (*Response, error) {
		return q.Select(t.columns()).Eq("id", id).Execute(ctx)
	})
	if err != nil {
		return nil, err
	}
	rows, err := t.decode(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	return rows[0], nil
}

func (t *table) Set(ctx context.Context, id string, data any) (string, error) {
	e, err := types.AsEntity(t.name, data)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = e.EntityID()
	}
	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
	e.SetEntityID(id)

	rec, err := types.ToRecord(t.name, e)
	if err != nil {
		return "", err
	}
	q, err := t.backend.from(t.name)
	if err != nil {
		return "", err
	}
	if _, err := t.run("set", func() (*Response, error) {
		return q.Upsert("id").ExecuteInsert(ctx, rec)
	}); err != nil {
		return "", err
	}
	return id, nil
}

func (t *table) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	q, err := t.backend.from(t.name)
	if err != nil {
		return err
	}
	resp, err := t.run("delete", func() (*Response, error) {
		return q.Eq("id", id).ExecuteDelete(ctx)
	})
	if err != nil {
		return err
	}
	// The representation lists the deleted rows.
	if len(gjson.ParseBytes(resp.Body).Array()) == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (t *table) Fetch(ctx context.Context, filter map[string]any) ([]any, error) {
	keys := make([]string, 0, len(filter))
	for col, v := range filter {
		if !t.schema.HasColumn(col) {
			return nil, fmt.Errorf("column %q: %w", col, types.ErrInvalidFilter)
		}
		if _, ok := v.(string); !ok {
			return nil, fmt.Errorf("column %q: %w", col, types.ErrInvalidFilter)
		}
		keys = append(keys, col)
	}
	sort.Strings(keys)

	q, err := t.backend.from(t.name)
	if err != nil {
		return nil, err
	}
	q = q.Select(t.columns())
	for _, col := range keys {
		q = q.Eq(col, filter[col].(string))
	}
	for _, col := range t.schema.OrderBy {
		q = q.Order(col, true)
	}

	resp, err := t.run("fetch", func() (*Response, error) {
		return q.Execute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return t.decode(resp.Body)
}

// decode turns a JSON array of rows into entities. Values are read as
// strings, so numeric or null columns on the remote side still map onto
// the string fields of the entity types.
func (t *table) decode(body []byte) ([]any, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decoding %s: %w", t.name, types.ErrInvalidData)
	}
	out := []any{}
	var decodeErr error
	gjson.ParseBytes(body).ForEach(func(_, row gjson.Result) bool {
		rec := make(map[string]any, len(t.schema.Columns))
		row.ForEach(func(key, value gjson.Result) bool {
			if value.Type != gjson.Null {
				rec[key.String()] = value.String()
			}
			return true
		})
		e, err := types.FromRecord(t.name, rec)
		if err != nil {
			decodeErr = err
			return false
		}
		out = append(out, e)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}
