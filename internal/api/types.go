// Package api defines the shared request/response DTOs for the HTTP
// surface.
package api

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a simple confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries the issued token pair. RefreshToken is empty
// when only the access token was renewed.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name,omitempty"`
	Surname   string `json:"surname,omitempty"`
	Email     string `json:"email"`
	Principal string `json:"principal"`
}

// IndicatorQuery binds the query parameters of GET /ticker/:ticker.
// Bounds follow the engine contract: p in [0.01,0.5], n in [5,100],
// rf_ann in [0,0.2].
type IndicatorQuery struct {
	P     float64 `form:"p,default=0.05" binding:"omitempty,gte=0.01,lte=0.5"`
	N     int     `form:"n,default=14" binding:"omitempty,gte=5,lte=100"`
	RFAnn float64 `form:"rf_ann,default=0.02" binding:"omitempty,gte=0,lte=0.2"`
}

// IndicatorResponse wraps a computed indicator map.
type IndicatorResponse struct {
	Ticker    string         `json:"ticker"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// MetricResponse wraps a single metric value.
type MetricResponse struct {
	Ticker    string `json:"ticker"`
	Metric    string `json:"metric"`
	Value     any    `json:"value"`
	Timestamp string `json:"timestamp"`
}

// WalletCreateRequest is the body of POST /api/me/wallet.
type WalletCreateRequest struct {
	Ticker   string `json:"ticker" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
}

// WalletRowResponse is one position row of the wallet.
type WalletRowResponse struct {
	ID        uint   `json:"id"`
	Ticker    string `json:"ticker"`
	Quantity  string `json:"quantity"`
	CreatedAt string `json:"created_at"`
}

// IndexMetricResponse is one row of the market overview.
type IndexMetricResponse struct {
	Ticker      string   `json:"ticker"`
	FullName    string   `json:"full_name"`
	Price       *float64 `json:"price"`
	Performance *float64 `json:"performance"`
}
