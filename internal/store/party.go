package store

import (
	"context"
	"fmt"

	"github.com/edvin/easybudget/internal/model"
)

// CommonDatas stores identity rows shared by providers and customers.
type CommonDatas struct {
	db Querier
}

func (r *CommonDatas) Insert(ctx context.Context, tenantID string, c *model.CommonData) error {
	c.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO common_datas (id, tenant_id, first_name, last_name, birth_date, cpf, cnpj, company_name, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		c.ID, tenantID, c.FirstName, c.LastName, c.BirthDate, c.CPF, c.CNPJ, c.CompanyName, c.Description,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert common data: %w", mapError(err))
	}
	return nil
}

func (r *CommonDatas) Get(ctx context.Context, tenantID, id string) (*model.CommonData, error) {
	var c model.CommonData
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, first_name, last_name, birth_date, cpf, cnpj, company_name, description, created_at, updated_at
		 FROM common_datas WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	).Scan(&c.ID, &c.TenantID, &c.FirstName, &c.LastName, &c.BirthDate, &c.CPF, &c.CNPJ,
		&c.CompanyName, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get common data %s: %w", id, mapError(err))
	}
	return &c, nil
}

func (r *CommonDatas) Update(ctx context.Context, tenantID string, c *model.CommonData) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE common_datas SET first_name = $1, last_name = $2, birth_date = $3, cpf = $4, cnpj = $5,
		 company_name = $6, description = $7, updated_at = now()
		 WHERE tenant_id = $8 AND id = $9`,
		c.FirstName, c.LastName, c.BirthDate, c.CPF, c.CNPJ, c.CompanyName, c.Description, tenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update common data %s: %w", c.ID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update common data %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *CommonDatas) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM common_datas WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete common data %s: %w", id, mapError(err))
	}
	return nil
}

type Contacts struct {
	db Querier
}

func (r *Contacts) Insert(ctx context.Context, tenantID string, c *model.Contact) error {
	c.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO contacts (id, tenant_id, email, phone, email_business, phone_business, website)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		c.ID, tenantID, c.Email, c.Phone, c.EmailBusiness, c.PhoneBusiness, c.Website,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", mapError(err))
	}
	return nil
}

func (r *Contacts) Get(ctx context.Context, tenantID, id string) (*model.Contact, error) {
	var c model.Contact
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, email, phone, email_business, phone_business, website, created_at, updated_at
		 FROM contacts WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	).Scan(&c.ID, &c.TenantID, &c.Email, &c.Phone, &c.EmailBusiness, &c.PhoneBusiness, &c.Website, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get contact %s: %w", id, mapError(err))
	}
	return &c, nil
}

func (r *Contacts) Update(ctx context.Context, tenantID string, c *model.Contact) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE contacts SET email = $1, phone = $2, email_business = $3, phone_business = $4, website = $5, updated_at = now()
		 WHERE tenant_id = $6 AND id = $7`,
		c.Email, c.Phone, c.EmailBusiness, c.PhoneBusiness, c.Website, tenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update contact %s: %w", c.ID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update contact %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *Contacts) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete contact %s: %w", id, mapError(err))
	}
	return nil
}

type Addresses struct {
	db Querier
}

func (r *Addresses) Insert(ctx context.Context, tenantID string, a *model.Address) error {
	a.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO addresses (id, tenant_id, address, address_number, neighborhood, city, state, cep)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		a.ID, tenantID, a.Street, a.Number, a.Neighborhood, a.City, a.State, a.CEP,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert address: %w", mapError(err))
	}
	return nil
}

func (r *Addresses) Get(ctx context.Context, tenantID, id string) (*model.Address, error) {
	var a model.Address
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, address, address_number, neighborhood, city, state, cep, created_at, updated_at
		 FROM addresses WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	).Scan(&a.ID, &a.TenantID, &a.Street, &a.Number, &a.Neighborhood, &a.City, &a.State, &a.CEP, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get address %s: %w", id, mapError(err))
	}
	return &a, nil
}

func (r *Addresses) Update(ctx context.Context, tenantID string, a *model.Address) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE addresses SET address = $1, address_number = $2, neighborhood = $3, city = $4, state = $5, cep = $6, updated_at = now()
		 WHERE tenant_id = $7 AND id = $8`,
		a.Street, a.Number, a.Neighborhood, a.City, a.State, a.CEP, tenantID, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update address %s: %w", a.ID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update address %s: %w", a.ID, ErrNotFound)
	}
	return nil
}

func (r *Addresses) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete address %s: %w", id, mapError(err))
	}
	return nil
}

type BusinessDatas struct {
	db Querier
}

// Upsert writes the provider's business data, replacing an existing row.
func (r *BusinessDatas) Upsert(ctx context.Context, tenantID string, b *model.BusinessData) error {
	b.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO business_datas (id, tenant_id, provider_id, fantasy_name, state_registration, municipal_registration, founded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (tenant_id, provider_id) DO UPDATE SET
		   fantasy_name = EXCLUDED.fantasy_name,
		   state_registration = EXCLUDED.state_registration,
		   municipal_registration = EXCLUDED.municipal_registration,
		   founded_at = EXCLUDED.founded_at,
		   updated_at = now()
		 RETURNING id, created_at, updated_at`,
		b.ID, tenantID, b.ProviderID, b.FantasyName, b.StateRegistration, b.MunicipalReg, b.FoundedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert business data for provider %s: %w", b.ProviderID, mapError(err))
	}
	return nil
}

func (r *BusinessDatas) GetByProvider(ctx context.Context, tenantID, providerID string) (*model.BusinessData, error) {
	var b model.BusinessData
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, provider_id, fantasy_name, state_registration, municipal_registration, founded_at, created_at, updated_at
		 FROM business_datas WHERE tenant_id = $1 AND provider_id = $2`, tenantID, providerID,
	).Scan(&b.ID, &b.TenantID, &b.ProviderID, &b.FantasyName, &b.StateRegistration, &b.MunicipalReg, &b.FoundedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get business data for provider %s: %w", providerID, mapError(err))
	}
	return &b, nil
}
