package model

import "time"

// Customer is a client of a provider. Person or company data lives in the
// linked CommonData, Contact and Address rows.
type Customer struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	CommonDataID *string   `json:"common_data_id,omitempty"`
	ContactID    *string   `json:"contact_id,omitempty"`
	AddressID    *string   `json:"address_id,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	CommonData *CommonData `json:"common_data,omitempty"`
	Contact    *Contact    `json:"contact,omitempty"`
	Address    *Address    `json:"address,omitempty"`
}

// Name returns the company name for companies and the full name otherwise.
func (c Customer) Name() string {
	if c.CommonData == nil {
		return ""
	}
	if c.CommonData.CompanyName != nil && *c.CommonData.CompanyName != "" {
		return *c.CommonData.CompanyName
	}
	return c.CommonData.FullName()
}

// Email returns the primary contact email if loaded.
func (c Customer) Email() string {
	if c.Contact == nil {
		return ""
	}
	return c.Contact.Email
}
