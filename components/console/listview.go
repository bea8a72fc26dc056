package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

// ListClient is the slice of the fetch layer a list controller needs.
type ListClient interface {
	restapi.Lister
	restapi.Mutator
	restapi.Exporter
}

// Form is a user-submitted create/update payload that can check its own
// required fields before any network call happens.
type Form interface {
	Validate() error
}

// Filters is the applied filter state of a list view: one free-text search
// plus zero or more categorical fields keyed by query parameter name.
type Filters struct {
	Search string
	Fields map[string]string
}

func (f Filters) clone() Filters {
	out := Filters{Search: f.Search, Fields: make(map[string]string, len(f.Fields))}
	for k, v := range f.Fields {
		out.Fields[k] = v
	}
	return out
}

// ListConfig describes one collection tab: its endpoint, which filters it
// offers, how rows reference parents, and its sortable columns.
type ListConfig[T any] struct {
	Collection string
	Searchable bool
	FilterKeys []string
	ParentID   func(T) string
	SortKeys   map[string]SortKeyFunc[T]
}

// ListOptions carries optional collaborators for a list controller.
type ListOptions struct {
	Resolver  *ParentResolver
	Telemetry Telemetry
	PageSize  int
}

// ListController owns the filter/sort/page state for one collection tab and
// drives fetches and CRUD mutations against it. All methods are safe for
// concurrent use.
type ListController[T any] struct {
	client    ListClient
	cfg       ListConfig[T]
	resolver  *ParentResolver
	telemetry Telemetry

	mu           sync.Mutex
	gen          uint64
	page         int
	pageSize     int
	totalResults int
	items        []T
	filters      Filters
	pending      Filters
	sortBy       string
	sortOrder    SortOrder
	loading      bool
	viewErr      string

	confirmDeleteID string
	deleteBusyID    string
	deleteErr       string
}

// NewListController builds a controller for one collection.
func NewListController[T any](client ListClient, cfg ListConfig[T], opts ListOptions) *ListController[T] {
	pageSize := normalizePageSize(opts.PageSize)
	return &ListController[T]{
		client:    client,
		cfg:       cfg,
		resolver:  opts.Resolver,
		telemetry: normalizeTelemetry(opts.Telemetry),
		page:      1,
		pageSize:  pageSize,
		sortOrder: SortAsc,
		filters:   Filters{Fields: map[string]string{}},
		pending:   Filters{Fields: map[string]string{}},
	}
}

// Refresh fetches the current page using the applied filters. Transport
// failures, non-success statuses and malformed shapes all collapse into one
// view-level error. On success items and totalResults are replaced
// atomically, then the parent batch is resolved before readiness clears.
// Responses from superseded refreshes are discarded by generation, so a slow
// earlier request can never overwrite a newer page.
func (c *ListController[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.loading = true
	c.viewErr = ""
	q := restapi.Query{
		Page:     c.page,
		PageSize: c.pageSize,
		Filters:  map[string]string{},
	}
	if c.cfg.Searchable {
		q.Search = c.filters.Search
	}
	for _, key := range c.cfg.FilterKeys {
		q.Filters[key] = c.filters.Fields[key]
	}
	c.mu.Unlock()

	res, err := c.client.List(ctx, c.cfg.Collection, q)
	var rows []T
	if err == nil {
		rows = restapi.DecodeItems[T](res)
		if c.cfg.ParentID != nil && c.resolver != nil {
			ids := make([]string, 0, len(rows))
			for _, row := range rows {
				ids = append(ids, c.cfg.ParentID(row))
			}
			c.resolver.ResolveBatch(ctx, ids)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.loading = false
	if err != nil {
		c.items = nil
		c.totalResults = 0
		c.viewErr = fmt.Sprintf("failed to load %s", c.cfg.Collection)
		return err
	}
	c.items = rows
	c.totalResults = res.TotalResults
	return nil
}

// SetPendingSearch edits the not-yet-applied search text. Typing never
// triggers a fetch.
func (c *ListController[T]) SetPendingSearch(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending.Search = s
}

// SetPendingFilter edits a not-yet-applied categorical filter. Keys the
// collection does not offer are ignored.
func (c *ListController[T]) SetPendingFilter(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, allowed := range c.cfg.FilterKeys {
		if allowed == key {
			c.pending.Fields[key] = value
			return
		}
	}
}

// ApplyFilters commits pending edits, resets to page one and refreshes.
func (c *ListController[T]) ApplyFilters(ctx context.Context) error {
	c.mu.Lock()
	c.filters = c.pending.clone()
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetPage navigates to a 1-based page and refreshes.
func (c *ListController[T]) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetPageSize switches the page size, resets to page one and refreshes.
// Sizes outside the PageSizes catalog fall back to the default.
func (c *ListController[T]) SetPageSize(ctx context.Context, size int) error {
	c.mu.Lock()
	c.pageSize = normalizePageSize(size)
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// ChangeSort toggles the order when column is already active, otherwise
// makes it the sort key ascending. Unknown columns are no-ops. Sorting is
// client-side and page-local only; it never changes the server order.
func (c *ListController[T]) ChangeSort(column string) {
	if _, ok := c.cfg.SortKeys[column]; !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sortBy == column {
		c.sortOrder = c.sortOrder.Toggle()
		return
	}
	c.sortBy = column
	c.sortOrder = SortAsc
}

// Create validates the form's required fields and submits it. The form is
// only considered closed by the caller when no error comes back; failures
// carry the server's raw text.
func (c *ListController[T]) Create(ctx context.Context, form Form) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if err := c.client.Create(ctx, c.cfg.Collection, form); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.list.create", map[string]any{
		"collection": c.cfg.Collection,
	})
	return c.Refresh(ctx)
}

// Update submits the full edited form for one id. Blank password fields mean
// "keep current value"; that convention lives in the form types.
func (c *ListController[T]) Update(ctx context.Context, id string, form Form) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if err := c.client.Update(ctx, c.cfg.Collection, id, form); err != nil {
		return err
	}
	c.invalidateParent(id)
	c.telemetry.Record(ctx, "console.list.update", map[string]any{
		"collection": c.cfg.Collection,
		"id":         id,
	})
	return c.Refresh(ctx)
}

// UpdateFields patches a subset of fields without form validation; used for
// inline toggles such as the users tab's verified checkbox.
func (c *ListController[T]) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if err := c.client.Update(ctx, c.cfg.Collection, id, fields); err != nil {
		return err
	}
	c.invalidateParent(id)
	return c.Refresh(ctx)
}

// RequestDelete opens the confirmation step for a row.
func (c *ListController[T]) RequestDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmDeleteID = id
	c.deleteErr = ""
}

// CancelDelete dismisses the confirmation step.
func (c *ListController[T]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmDeleteID = ""
	c.deleteErr = ""
}

// ConfirmDelete fires the pending delete. While in flight only the targeted
// row reports busy, so the rest of the table stays interactive. Success
// closes the confirmation and refreshes; failure records an inline error and
// leaves the confirmation open for retry or cancel.
func (c *ListController[T]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id := c.confirmDeleteID
	if id == "" {
		c.mu.Unlock()
		return nil
	}
	c.deleteBusyID = id
	c.deleteErr = ""
	c.mu.Unlock()

	err := c.client.Delete(ctx, c.cfg.Collection, id)

	c.mu.Lock()
	c.deleteBusyID = ""
	if err != nil {
		c.deleteErr = err.Error()
		c.mu.Unlock()
		return err
	}
	c.confirmDeleteID = ""
	c.mu.Unlock()

	c.invalidateParent(id)
	c.telemetry.Record(ctx, "console.list.delete", map[string]any{
		"collection": c.cfg.Collection,
		"id":         id,
	})
	return c.Refresh(ctx)
}

// RowBusy reports whether a specific row's controls are disabled by an
// outstanding delete.
func (c *ListController[T]) RowBusy(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteBusyID == id
}

// ExportCSV streams the collection's export endpoint into w.
func (c *ListController[T]) ExportCSV(ctx context.Context, w io.Writer) error {
	if err := c.client.Export(ctx, c.cfg.Collection, w); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.list.export", map[string]any{
		"collection": c.cfg.Collection,
	})
	return nil
}

func (c *ListController[T]) invalidateParent(id string) {
	if c.resolver != nil && c.cfg.Collection == CollectionParents {
		c.resolver.Invalidate(id)
	}
}

// ListSnapshot is an immutable view of the controller for rendering. Items
// are re-sorted on every snapshot, so resolver entries that arrived since the
// last render settle into their proper order without an explicit trigger.
type ListSnapshot[T any] struct {
	Items        []T
	Page         int
	PageSize     int
	TotalResults int
	TotalPages   int
	Pagination   []PageItem
	CanPrev      bool
	CanNext      bool
	SortBy       string
	SortOrder    SortOrder
	Loading      bool
	Error        string
	Filters      Filters
	Pending      Filters

	ConfirmDeleteID string
	DeleteBusyID    string
	DeleteError     string
}

// Snapshot captures the current render state.
func (c *ListController[T]) Snapshot() ListSnapshot[T] {
	c.mu.Lock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	snap := ListSnapshot[T]{
		Page:            c.page,
		PageSize:        c.pageSize,
		TotalResults:    c.totalResults,
		SortBy:          c.sortBy,
		SortOrder:       c.sortOrder,
		Loading:         c.loading,
		Error:           c.viewErr,
		Filters:         c.filters.clone(),
		Pending:         c.pending.clone(),
		ConfirmDeleteID: c.confirmDeleteID,
		DeleteBusyID:    c.deleteBusyID,
		DeleteError:     c.deleteErr,
	}
	sortBy := c.sortBy
	order := c.sortOrder
	c.mu.Unlock()

	var lookup ParentLookup
	if c.resolver != nil {
		lookup = c.resolver
	} else {
		lookup = emptyLookup{}
	}
	snap.Items = sortRows(items, c.cfg.SortKeys[sortBy], order, lookup)
	snap.TotalPages = TotalPages(snap.TotalResults, snap.PageSize)
	snap.Pagination = PaginationItems(snap.Page, snap.TotalPages)
	snap.CanPrev = CanPrev(snap.Page)
	snap.CanNext = CanNext(snap.Page, snap.PageSize, snap.TotalResults)
	return snap
}

type emptyLookup struct{}

func (emptyLookup) Peek(string) (Parent, bool) { return Parent{}, false }
