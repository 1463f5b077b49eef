package dto

type PayoutCreateRequest struct {
	RequestTokens float64 `json:"request_tokens" binding:"required,gt=0"`
	Note          string  `json:"note"`
}

type PayoutStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PayoutItem struct {
	ID                  int64   `json:"id"`
	RequestCode         string  `json:"request_code"`
	RequestTokens       float64 `json:"request_tokens"`
	TokenConversionRate float64 `json:"token_conversion_rate"`
	Status              string  `json:"status"`
	Note                string  `json:"note,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type PayoutBalance struct {
	PerformerID     int64   `json:"performer_id"`
	TotalNet        float64 `json:"total_net"`
	PaidTokens      float64 `json:"paid_tokens"`
	RequestedTokens float64 `json:"requested_tokens"`
	RemainingTokens float64 `json:"remaining_tokens"`
}
