package console

import (
	"context"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

// NewUsersController builds the Users tab: no filters, sortable by name,
// email, verified flag and creation time.
func NewUsersController(client ListClient, opts ListOptions) *ListController[Parent] {
	return NewListController(client, ListConfig[Parent]{
		Collection: CollectionParents,
		SortKeys: map[string]SortKeyFunc[Parent]{
			"name": func(p Parent, _ ParentLookup) SortValue {
				return StringValue(p.FullName())
			},
			"email": func(p Parent, _ ParentLookup) SortValue {
				return StringValue(p.Email)
			},
			"isVerified": func(p Parent, _ ParentLookup) SortValue {
				return BoolValue(p.IsVerified)
			},
			"createdAt": func(p Parent, _ ParentLookup) SortValue {
				return TimeValue(p.CreatedAt)
			},
		},
	}, opts)
}

// NewFeedbackController builds the Feedback tab: search + rating filter,
// parent columns resolved lazily through the lookup.
func NewFeedbackController(client ListClient, opts ListOptions) *ListController[Feedback] {
	return NewListController(client, ListConfig[Feedback]{
		Collection: CollectionFeedbacks,
		Searchable: true,
		FilterKeys: []string{"rating"},
		ParentID:   func(f Feedback) string { return f.ParentID },
		SortKeys: map[string]SortKeyFunc[Feedback]{
			"name": func(f Feedback, parents ParentLookup) SortValue {
				return parentNameValue(parents, f.ParentID)
			},
			"email": func(f Feedback, parents ParentLookup) SortValue {
				return parentEmailValue(parents, f.ParentID)
			},
			"rating": func(f Feedback, _ ParentLookup) SortValue {
				return NumberValue(float64(f.Rating))
			},
			"comment": func(f Feedback, _ ParentLookup) SortValue {
				return StringValue(f.Comment)
			},
			"timestamp": func(f Feedback, _ ParentLookup) SortValue {
				return TimeValue(f.Timestamp)
			},
		},
	}, opts)
}

// NewLogsController builds the Logs tab: search + event type filter.
func NewLogsController(client ListClient, opts ListOptions) *ListController[Log] {
	return NewListController(client, ListConfig[Log]{
		Collection: CollectionLogs,
		Searchable: true,
		FilterKeys: []string{"eventType"},
		ParentID:   func(l Log) string { return l.ParentID },
		SortKeys: map[string]SortKeyFunc[Log]{
			"name": func(l Log, parents ParentLookup) SortValue {
				return parentNameValue(parents, l.ParentID)
			},
			"email": func(l Log, parents ParentLookup) SortValue {
				return parentEmailValue(parents, l.ParentID)
			},
			"eventType": func(l Log, _ ParentLookup) SortValue {
				return StringValue(string(l.EventType))
			},
			"description": func(l Log, _ ParentLookup) SortValue {
				return StringValue(l.Description)
			},
			"timestamp": func(l Log, _ ParentLookup) SortValue {
				return TimeValue(l.Timestamp)
			},
		},
	}, opts)
}

// NewRevenueController builds the Revenue tab: search + plan/status filters.
// Payment rows carry parent name and email denormalized, so no resolver is
// involved, and the tab is read-only.
func NewRevenueController(client ListClient, opts ListOptions) *ListController[Payment] {
	return NewListController(client, ListConfig[Payment]{
		Collection: CollectionPayments,
		Searchable: true,
		FilterKeys: []string{"planId", "status"},
		SortKeys: map[string]SortKeyFunc[Payment]{
			"parent": func(p Payment, _ ParentLookup) SortValue {
				return StringValue(p.ParentFullName)
			},
			"email": func(p Payment, _ ParentLookup) SortValue {
				return StringValue(p.ParentEmail)
			},
			"amount": func(p Payment, _ ParentLookup) SortValue {
				return NumberValue(float64(p.Amount))
			},
			"status": func(p Payment, _ ParentLookup) SortValue {
				return StringValue(p.Status)
			},
			"plan": func(p Payment, _ ParentLookup) SortValue {
				return StringValue(p.PlanName)
			},
			"timestamp": func(p Payment, _ ParentLookup) SortValue {
				return TimeValue(p.Timestamp)
			},
		},
	}, opts)
}

func parentNameValue(parents ParentLookup, id string) SortValue {
	if parent, ok := parents.Peek(id); ok {
		return StringValue(parent.FullName())
	}
	return StringValue("")
}

func parentEmailValue(parents ParentLookup, id string) SortValue {
	if parent, ok := parents.Peek(id); ok {
		return StringValue(parent.Email)
	}
	return StringValue("")
}

// LoadPlanOptions fetches the plan list backing the revenue tab's plan
// filter dropdown.
func LoadPlanOptions(ctx context.Context, client restapi.Lister) ([]Plan, error) {
	res, err := client.List(ctx, CollectionPlans, restapi.Query{Page: 1, PageSize: bulkPageSize})
	if err != nil {
		return nil, err
	}
	return restapi.DecodeItems[Plan](res), nil
}
