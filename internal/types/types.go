package types

import (
	"strings"
	"time"
)

// Headline is one news item as returned by a HeadlineSource.
type Headline struct {
	Title       string     `json:"title"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Source      string     `json:"source,omitempty"`
}

type TickerResolution struct {
	CompanyName  string `json:"company_name"`
	TickerSymbol string `json:"ticker_symbol"`
}

// Label is a sentiment classifier verdict.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
	LabelOther    Label = "other"
)

// ParseLabel maps a raw classifier label onto the fixed label set.
func ParseLabel(s string) Label {
	switch Label(strings.ToLower(strings.TrimSpace(s))) {
	case LabelPositive:
		return LabelPositive
	case LabelNegative:
		return LabelNegative
	case LabelNeutral:
		return LabelNeutral
	default:
		return LabelOther
	}
}

type SentimentResult struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSkip Action = "SKIP"
)

// TradeDecision is the output of the policy step for one headline.
// Quantity 0 or ActionSkip means no order is placed.
type TradeDecision struct {
	Symbol    string  `json:"symbol"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Action    Action  `json:"action"`
	Reason    string  `json:"reason"`
}

type OrderReq struct {
	Symbol string
	Side   string
	Qty    int
	Tag    string
}

type OrderResp struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OrderRecord is produced only when an order was accepted by the broker.
type OrderRecord struct {
	OrderID         string    `json:"order_id"`
	Symbol          string    `json:"symbol"`
	Quantity        int       `json:"quantity"`
	TransactionType string    `json:"transaction_type"`
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
}

// Outcome is the terminal state of one headline in a run.
type Outcome string

const (
	OutcomeOrderPlaced      Outcome = "ORDER_PLACED"
	OutcomeTickerUnresolved Outcome = "TICKER_UNRESOLVED"
	OutcomeSentimentFailed  Outcome = "SENTIMENT_FAILED"
	OutcomePolicyRejected   Outcome = "POLICY_REJECTED"
	OutcomePriceUnavailable Outcome = "PRICE_UNAVAILABLE"
	OutcomeGatewayFailed    Outcome = "GATEWAY_FAILED"
	OutcomeDuplicate        Outcome = "DUPLICATE"
)

type HeadlineResult struct {
	Index      int               `json:"index"`
	Headline   Headline          `json:"headline"`
	Resolution *TickerResolution `json:"resolution,omitempty"`
	Sentiment  *SentimentResult  `json:"sentiment,omitempty"`
	Decision   *TradeDecision    `json:"decision,omitempty"`
	Order      *OrderRecord      `json:"order,omitempty"`
	Outcome    Outcome           `json:"outcome"`
	Reason     string            `json:"reason"`
}

type RunStatus string

const (
	RunCompleted   RunStatus = "COMPLETED"
	RunNothingToDo RunStatus = "NOTHING_TO_DO"
	RunStopped     RunStatus = "STOPPED"
)

type RunSummary struct {
	RunID              string           `json:"run_id"`
	Status             RunStatus        `json:"status"`
	HeadlinesFetched   int              `json:"headlines_fetched"`
	HeadlinesProcessed int              `json:"headlines_processed"`
	PositiveSentiment  int              `json:"positive_sentiment_count"`
	TradesExecuted     int              `json:"trades_executed"`
	OrdersFailed       int              `json:"orders_failed"`
	Skipped            int              `json:"skipped"`
	FetchError         string           `json:"fetch_error,omitempty"`
	StartedAt          time.Time        `json:"started_at"`
	FinishedAt         time.Time        `json:"finished_at"`
	Elapsed            time.Duration    `json:"elapsed_ns"`
	Results            []HeadlineResult `json:"results"`
}

// NormalizeText lower-cases and trims headline text. It is the key used
// by the ticker cache and the duplicate guard.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
