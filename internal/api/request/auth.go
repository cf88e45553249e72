package request

// Register is the self-service signup body. It creates a tenant, its owner
// user, the provider record and a trial subscription.
type Register struct {
	FirstName     string  `json:"first_name" validate:"required,max=100"`
	LastName      string  `json:"last_name" validate:"max=100"`
	CompanyName   *string `json:"company_name" validate:"omitempty,max=255"`
	Email         string  `json:"email" validate:"required,email,max=255"`
	Password      string  `json:"password" validate:"required,min=8,max=128"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	TermsAccepted bool    `json:"terms_accepted" validate:"eq=true"`
}

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
