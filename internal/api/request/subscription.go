package request

// Subscribe switches the current tenant to a plan given by slug.
type Subscribe struct {
	Plan          string  `json:"plan" validate:"required,slug"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,max=50"`
}
