package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/ettle/strcase"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

// TableDefinition names one raw backend table and its endpoint.
type TableDefinition struct {
	Name     string `json:"name" yaml:"name"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// TableHook lets packages register extra tables during init().
type TableHook func(reg *TableRegistry) error

var (
	globalTableHookMu sync.Mutex
	globalTableHooks  []TableHook
)

// RegisterTableHook registers a hook executed against new table registries.
func RegisterTableHook(h TableHook) {
	globalTableHookMu.Lock()
	defer globalTableHookMu.Unlock()
	globalTableHooks = append(globalTableHooks, h)
}

// TableRegistry stores the browsable tables in display order.
type TableRegistry struct {
	mu     sync.RWMutex
	tables []TableDefinition
	byName map[string]TableDefinition
}

// NewTableRegistry builds a registry seeded with the default tables and
// applies any global hooks.
func NewTableRegistry() *TableRegistry {
	reg := &TableRegistry{byName: map[string]TableDefinition{}}
	for _, def := range DefaultTables() {
		_ = reg.Register(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered table hooks.
func (r *TableRegistry) ApplyHooks() error {
	globalTableHookMu.Lock()
	defer globalTableHookMu.Unlock()
	for _, hook := range globalTableHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a table, replacing any previous entry with the same name.
func (r *TableRegistry) Register(def TableDefinition) error {
	if def.Name == "" || def.Endpoint == "" {
		return fmt.Errorf("console: table definition requires name and endpoint")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[def.Name]; !ok {
		r.tables = append(r.tables, def)
	} else {
		for i, existing := range r.tables {
			if existing.Name == def.Name {
				r.tables[i] = def
				break
			}
		}
	}
	r.byName[def.Name] = def
	return nil
}

// Lookup fetches a table definition by display name.
func (r *TableRegistry) Lookup(name string) (TableDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byName[name]
	return def, ok
}

// Tables returns every registered table in display order.
func (r *TableRegistry) Tables() []TableDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TableDefinition, len(r.tables))
	copy(out, r.tables)
	return out
}

// DefaultTables lists the backend tables browsable out of the box.
func DefaultTables() []TableDefinition {
	return []TableDefinition{
		{Name: "Admins", Endpoint: "admins"},
		{Name: "App Usages", Endpoint: "app-usages"},
		{Name: "Children", Endpoint: "children"},
		{Name: "Devices", Endpoint: "devices"},
		{Name: "Feedbacks", Endpoint: "feedbacks"},
		{Name: "Location Histories", Endpoint: "location-histories"},
		{Name: "Logs", Endpoint: "logs"},
		{Name: "Parents", Endpoint: "parents"},
		{Name: "Payments", Endpoint: "payments"},
		{Name: "Plans", Endpoint: "plans"},
		{Name: "Policies", Endpoint: "policies"},
		{Name: "Subscriptions", Endpoint: "subscriptions"},
		{Name: "Web Histories", Endpoint: "web-histories"},
	}
}

// TableView is a generic rendering of one table: columns derived from the
// first row's key set, every cell stringified. No rows means no columns.
type TableView struct {
	Name    string
	Columns []TableColumn
	Rows    [][]string
}

// TableColumn pairs a raw JSON key with its display title.
type TableColumn struct {
	Key   string
	Title string
}

// TableBrowser fetches and flattens raw tables. It is read-only by
// construction: no mutation affordance exists even where the backend would
// accept one.
type TableBrowser struct {
	client   restapi.Lister
	registry *TableRegistry
}

// NewTableBrowser wires the fetch layer and registry together.
func NewTableBrowser(client restapi.Lister, registry *TableRegistry) *TableBrowser {
	if registry == nil {
		registry = NewTableRegistry()
	}
	return &TableBrowser{client: client, registry: registry}
}

// Tables returns the selectable table list.
func (b *TableBrowser) Tables() []TableDefinition {
	return b.registry.Tables()
}

// Select fetches a table by display name and derives its generic view.
// Column order follows the JSON document order of the first row.
func (b *TableBrowser) Select(ctx context.Context, name string) (TableView, error) {
	def, ok := b.registry.Lookup(name)
	if !ok {
		return TableView{}, fmt.Errorf("console: unknown table %q", name)
	}
	res, err := b.client.List(ctx, def.Endpoint, restapi.Query{Page: 1, PageSize: bulkPageSize})
	if err != nil {
		return TableView{}, fmt.Errorf("console: load table %s: %w", def.Name, err)
	}
	view := TableView{Name: def.Name}
	if len(res.Items) == 0 {
		return view, nil
	}
	keys, err := objectKeys(res.Items[0])
	if err != nil {
		return TableView{}, fmt.Errorf("console: derive columns for %s: %w", def.Name, err)
	}
	for _, key := range keys {
		view.Columns = append(view.Columns, TableColumn{
			Key:   key,
			Title: strcase.ToCase(key, strcase.TitleCase, ' '),
		})
	}
	for _, raw := range res.Items {
		var row map[string]any
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		cells := make([]string, len(keys))
		for i, key := range keys {
			cells[i] = formatCell(row[key])
		}
		view.Rows = append(view.Rows, cells)
	}
	return view, nil
}

// objectKeys reads the top-level keys of a JSON object in document order.
// Plain unmarshalling into a map would lose it.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("row is not a JSON object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in object", tok)
		}
		keys = append(keys, key)
		// Consume the value so nested keys are not collected.
		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
