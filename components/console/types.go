package console

import "time"

// Collection endpoint names used across the console.
const (
	CollectionParents   = "parents"
	CollectionFeedbacks = "feedbacks"
	CollectionLogs      = "logs"
	CollectionPayments  = "payments"
	CollectionPlans     = "plans"
)

// Parent is the primary account entity managed by the dashboard.
type Parent struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FullName joins the first and last name for display.
func (p Parent) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Feedback is a rating + comment left by a parent.
type Feedback struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// EventType enumerates the audit log event kinds the backend emits.
type EventType string

// Known event types. Values outside this set are rejected at the form layer
// but passed through untouched when the server reports them.
const (
	EventLogin               EventType = "Login"
	EventAccountCreation     EventType = "AccountCreation"
	EventAccountModification EventType = "AccountModification"
	EventAccountDeletion     EventType = "AccountDeletion"
	EventPaymentAttempt      EventType = "PaymentAttempt"
	EventPaymentSuccess      EventType = "PaymentSuccess"
	EventPaymentFailure      EventType = "PaymentFailure"
	EventPaymentCancellation EventType = "PaymentCancellation"
	EventFeedbackSubmission  EventType = "FeedbackSubmission"
)

// EventTypes lists every valid event type in display order.
func EventTypes() []EventType {
	return []EventType{
		EventLogin,
		EventAccountCreation,
		EventAccountModification,
		EventAccountDeletion,
		EventPaymentAttempt,
		EventPaymentSuccess,
		EventPaymentFailure,
		EventPaymentCancellation,
		EventFeedbackSubmission,
	}
}

// Log is a single audit trail entry tied to a parent.
type Log struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parentId"`
	EventType   EventType `json:"eventType"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Payment statuses the backend reports. Unknown statuses pass through as-is.
const (
	PaymentProcessing = "Processing"
	PaymentSucceeded  = "Succeeded"
	PaymentFailed     = "Failed"
	PaymentCancelled  = "Cancelled"
)

// PaymentStatuses lists the statuses offered as filter options.
func PaymentStatuses() []string {
	return []string{PaymentProcessing, PaymentSucceeded, PaymentFailed, PaymentCancelled}
}

// Payment is a processed subscription charge, denormalized with parent and
// plan details by the backend.
type Payment struct {
	ID                    string    `json:"id"`
	SubscriptionID        string    `json:"subscriptionId"`
	Amount                int64     `json:"amount"`
	Currency              string    `json:"currency"`
	Timestamp             time.Time `json:"timestamp"`
	Status                string    `json:"status"`
	StripePaymentIntentID *string   `json:"stripePaymentIntentId"`
	PlanID                string    `json:"planId"`
	PlanName              string    `json:"planName"`
	ParentID              string    `json:"parentId"`
	ParentEmail           string    `json:"parentEmail"`
	ParentFullName        string    `json:"parentFullName"`
	TransactionNumber     string    `json:"transactionNumber,omitempty"`
}

// Plan exists only to populate the revenue tab's plan filter.
type Plan struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
