package model

import "time"

// CommonData holds the personal or company identity shared by providers and
// customers.
type CommonData struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	CPF         *string    `json:"cpf,omitempty"`
	CNPJ        *string    `json:"cnpj,omitempty"`
	CompanyName *string    `json:"company_name,omitempty"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FullName joins first and last name.
func (c CommonData) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type Contact struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	EmailBusiness *string   `json:"email_business,omitempty"`
	PhoneBusiness *string   `json:"phone_business,omitempty"`
	Website       *string   `json:"website,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Address struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Street       string    `json:"address"`
	Number       *string   `json:"address_number,omitempty"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	CEP          string    `json:"cep"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BusinessData holds company registration details for providers that
// operate as a business.
type BusinessData struct {
	ID                string     `json:"id"`
	TenantID          string     `json:"tenant_id"`
	ProviderID        string     `json:"provider_id"`
	FantasyName       *string    `json:"fantasy_name,omitempty"`
	StateRegistration *string    `json:"state_registration,omitempty"`
	MunicipalReg      *string    `json:"municipal_registration,omitempty"`
	FoundedAt         *time.Time `json:"founded_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Provider is the business owner operating a tenant.
type Provider struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	UserID        string    `json:"user_id"`
	CommonDataID  *string   `json:"common_data_id,omitempty"`
	ContactID     *string   `json:"contact_id,omitempty"`
	AddressID     *string   `json:"address_id,omitempty"`
	TermsAccepted bool      `json:"terms_accepted"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	CommonData   *CommonData   `json:"common_data,omitempty"`
	Contact      *Contact      `json:"contact,omitempty"`
	Address      *Address      `json:"address,omitempty"`
	BusinessData *BusinessData `json:"business_data,omitempty"`
}

// DisplayName prefers the company name over the person's name.
func (p Provider) DisplayName() string {
	if p.CommonData == nil {
		return ""
	}
	if p.CommonData.CompanyName != nil && *p.CommonData.CompanyName != "" {
		return *p.CommonData.CompanyName
	}
	return p.CommonData.FullName()
}

// ProviderDependents counts records that block deleting a provider.
type ProviderDependents struct {
	Customers int `json:"customers"`
	Budgets   int `json:"budgets"`
	Services  int `json:"services"`
	Invoices  int `json:"invoices"`
}

// Any reports whether at least one dependent record exists.
func (d ProviderDependents) Any() bool {
	return d.Customers > 0 || d.Budgets > 0 || d.Services > 0 || d.Invoices > 0
}

// ProviderStatistics is the platform-wide provider summary.
type ProviderStatistics struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	NewThisMonth int `json:"new_this_month"`
	Subscribed   int `json:"with_active_subscription"`
}

// ProviderDetails is the admin view of a single provider.
type ProviderDetails struct {
	Provider     Provider           `json:"provider"`
	Dependents   ProviderDependents `json:"dependents"`
	Revenue      string             `json:"revenue"`
	Subscription *PlanSubscription  `json:"subscription,omitempty"`
}
