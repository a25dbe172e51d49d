package marketplace

import "time"

// Config holds marketplace client configuration
type Config struct {
	// BaseURL is the marketplace API base URL
	BaseURL string

	// APIKey authenticates requests; obtained from CreateUser
	APIKey string

	// Timeout for individual HTTP requests
	Timeout time.Duration
}

// SetDefaults fills in default values for unset fields
func (c *Config) SetDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// CreateUserRequest asks the marketplace to register a new participant
type CreateUserRequest struct {
	Name string `json:"name"`
}

// UserCredentials is the marketplace's response to user registration
type UserCredentials struct {
	UserID  string `json:"userId"`
	APIKey  string `json:"apiKey"`
	Token   string `json:"token"`
	Address string `json:"address,omitempty"`
}

// Proposal is a trade proposal submitted to the marketplace
type Proposal struct {
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
	Address  string `json:"address"`
	Tag      string `json:"tag"`
}

// ProposalReceipt acknowledges an accepted proposal submission
type ProposalReceipt struct {
	OrderID string `json:"orderId"`
	Bundle  string `json:"bundle"`
}

// Order describes the marketplace's view of a trade
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Item   string `json:"item,omitempty"`
	Price  int64  `json:"price,omitempty"`
}

// Order status values reported by the marketplace
const (
	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusRejected = "rejected"
	OrderStatusComplete = "complete"
)

// ErrorResponse is the marketplace's error envelope
type ErrorResponse struct {
	Error string `json:"error"`
}
