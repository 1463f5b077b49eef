package dto

type LineItem struct {
	Name        string  `json:"name" binding:"required"`
	UnitPrice   float64 `json:"unit_price" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	ProductType string  `json:"product_type"`
}

type PurchaseRequest struct {
	PerformerID int64      `json:"performer_id" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	TargetID    int64      `json:"target_id"`
	Products    []LineItem `json:"products" binding:"required,min=1"`
	CouponCode  string     `json:"coupon_code"`
}

type PurchaseResponse struct {
	TransactionID int64   `json:"transaction_id"`
	OrderNumber   string  `json:"order_number"`
	OriginalPrice float64 `json:"original_price"`
	TotalPrice    float64 `json:"total_price"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

type CreditRequest struct {
	UserID    int64   `json:"user_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Reference string  `json:"reference"`
}

type BalanceResponse struct {
	UserID       int64   `json:"user_id"`
	TokenBalance float64 `json:"token_balance"`
}

type AccessResponse struct {
	ContentID int64 `json:"content_id"`
	CanAccess bool  `json:"can_access"`
}
