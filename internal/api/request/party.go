package request

// CommonData is the person or company identity of a provider or customer.
// Dates use the 2006-01-02 layout.
type CommonData struct {
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"max=100"`
	BirthDate   *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	CPF         *string `json:"cpf" validate:"omitempty,cpf"`
	CNPJ        *string `json:"cnpj" validate:"omitempty,cnpj"`
	CompanyName *string `json:"company_name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type Contact struct {
	Email         string  `json:"email" validate:"required,email,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	EmailBusiness *string `json:"email_business" validate:"omitempty,email,max=255"`
	PhoneBusiness *string `json:"phone_business" validate:"omitempty,max=20"`
	Website       *string `json:"website" validate:"omitempty,url,max=255"`
}

type Address struct {
	Street       string  `json:"address" validate:"required,max=255"`
	Number       *string `json:"address_number" validate:"omitempty,max=20"`
	Neighborhood string  `json:"neighborhood" validate:"required,max=100"`
	City         string  `json:"city" validate:"required,max=100"`
	State        string  `json:"state" validate:"required,state"`
	CEP          string  `json:"cep" validate:"required,cep"`
}

type BusinessData struct {
	FantasyName           *string `json:"fantasy_name" validate:"omitempty,max=255"`
	StateRegistration     *string `json:"state_registration" validate:"omitempty,max=50"`
	MunicipalRegistration *string `json:"municipal_registration" validate:"omitempty,max=50"`
	FoundedAt             *string `json:"founded_at" validate:"omitempty,datetime=2006-01-02"`
}
