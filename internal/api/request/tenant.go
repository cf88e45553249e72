package request

type SetTenantActive struct {
	Active *bool `json:"active" validate:"required"`
}
