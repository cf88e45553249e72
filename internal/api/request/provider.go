package request

// UpdateProvider replaces the wide provider entity of the current tenant.
type UpdateProvider struct {
	CommonData   CommonData    `json:"common_data"`
	Contact      Contact       `json:"contact"`
	Address      *Address      `json:"address" validate:"omitempty"`
	BusinessData *BusinessData `json:"business_data" validate:"omitempty"`
}

// CreateProvider is the admin body for onboarding a provider with its own
// tenant and owner account.
type CreateProvider struct {
	Email        string        `json:"email" validate:"required,email,max=255"`
	Password     string        `json:"password" validate:"required,min=8,max=128"`
	CommonData   CommonData    `json:"common_data"`
	Contact      Contact       `json:"contact"`
	Address      *Address      `json:"address" validate:"omitempty"`
	BusinessData *BusinessData `json:"business_data" validate:"omitempty"`
}
