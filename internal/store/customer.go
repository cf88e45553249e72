package store

import (
	"context"
	"fmt"
	"time"

	"github.com/edvin/easybudget/internal/model"
)

// Customer filter keys understood by Customers.List.
const (
	FilterStatus      = "status"
	FilterSearch      = "search"
	FilterType        = "type"
	FilterCity        = "city"
	FilterState       = "state"
	FilterCreatedFrom = "created_from"
	FilterCreatedTo   = "created_to"
)

// Customer kinds for FilterType.
const (
	CustomerIndividual = "individual"
	CustomerCompany    = "company"
)

// customerUniqueFields maps a field name to the column that must be unique
// among the tenant's customers.
var customerUniqueFields = map[string]string{
	"email": "ct.email",
	"cpf":   "cd.cpf",
	"cnpj":  "cd.cnpj",
}

const customerListSelect = `SELECT c.id, c.tenant_id, c.common_data_id, c.contact_id, c.address_id, c.status, c.created_at, c.updated_at,
	  cd.first_name, cd.last_name, cd.cpf, cd.cnpj, cd.company_name, ct.email, ct.phone, a.city, a.state
	FROM customers c
	LEFT JOIN common_datas cd ON cd.id = c.common_data_id
	LEFT JOIN contacts ct ON ct.id = c.contact_id
	LEFT JOIN addresses a ON a.id = c.address_id`

type Customers struct {
	db Querier
}

func (r *Customers) Insert(ctx context.Context, tenantID string, c *model.Customer) error {
	c.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO customers (id, tenant_id, common_data_id, contact_id, address_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		c.ID, tenantID, c.CommonDataID, c.ContactID, c.AddressID, c.Status,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert customer: %w", mapError(err))
	}
	return nil
}

func (r *Customers) Get(ctx context.Context, tenantID, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, common_data_id, contact_id, address_id, status, created_at, updated_at
		 FROM customers WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	).Scan(&c.ID, &c.TenantID, &c.CommonDataID, &c.ContactID, &c.AddressID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", id, mapError(err))
	}
	return &c, nil
}

func (r *Customers) Update(ctx context.Context, tenantID string, c *model.Customer) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE customers SET common_data_id = $1, contact_id = $2, address_id = $3, status = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		c.CommonDataID, c.ContactID, c.AddressID, c.Status, tenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update customer %s: %w", c.ID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update customer %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *Customers) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete customer %s: %w", id, ErrNotFound)
	}
	return nil
}

// List returns the tenant's customers matching filters, newest first.
// Unknown filter keys are ignored.
func (r *Customers) List(ctx context.Context, tenantID string, filters map[string]string, page Page) ([]model.Customer, bool, error) {
	q := newQuery(customerListSelect)
	q.add(" WHERE c.tenant_id = " + q.arg(tenantID))

	if v, ok := filters[FilterStatus]; ok && v != "" {
		q.add(" AND c.status = " + q.arg(v))
	}
	if v := filters[FilterSearch]; v != "" {
		ph := q.arg("%" + v + "%")
		q.add(fmt.Sprintf(" AND (cd.first_name ILIKE %[1]s OR cd.last_name ILIKE %[1]s OR cd.company_name ILIKE %[1]s OR ct.email ILIKE %[1]s OR cd.cpf ILIKE %[1]s OR cd.cnpj ILIKE %[1]s)", ph))
	}
	switch filters[FilterType] {
	case CustomerIndividual:
		q.add(" AND cd.cnpj IS NULL")
	case CustomerCompany:
		q.add(" AND cd.cnpj IS NOT NULL")
	}
	if v := filters[FilterCity]; v != "" {
		q.add(" AND a.city ILIKE " + q.arg(v))
	}
	if v := filters[FilterState]; v != "" {
		q.add(" AND a.state = " + q.arg(v))
	}
	if v := filters[FilterCreatedFrom]; v != "" {
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			q.add(" AND c.created_at >= " + q.arg(t))
		}
	}
	if v := filters[FilterCreatedTo]; v != "" {
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			q.add(" AND c.created_at < " + q.arg(t.AddDate(0, 0, 1)))
		}
	}
	q.paginate("c", page)

	customers, err := r.query(ctx, q)
	if err != nil {
		return nil, false, fmt.Errorf("list customers: %w", err)
	}
	customers, more := trim(customers, page.Limit)
	return customers, more, nil
}

// Search returns active customers whose name, email or document matches
// term, for autocomplete.
func (r *Customers) Search(ctx context.Context, tenantID, term string, limit int) ([]model.Customer, error) {
	q := newQuery(customerListSelect)
	q.add(" WHERE c.tenant_id = " + q.arg(tenantID))
	q.add(" AND c.status = " + q.arg(model.StatusActive))
	ph := q.arg("%" + term + "%")
	q.add(fmt.Sprintf(" AND (cd.first_name ILIKE %[1]s OR cd.last_name ILIKE %[1]s OR cd.company_name ILIKE %[1]s OR ct.email ILIKE %[1]s)", ph))
	q.add(" ORDER BY cd.first_name, cd.last_name LIMIT " + q.arg(limit))

	customers, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return customers, nil
}

func (r *Customers) query(ctx context.Context, q *query) ([]model.Customer, error) {
	rows, err := r.db.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var (
			c                                       model.Customer
			firstName, lastName, cpf, cnpj, company *string
			email, phone, city, state               *string
		)
		if err := rows.Scan(&c.ID, &c.TenantID, &c.CommonDataID, &c.ContactID, &c.AddressID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
			&firstName, &lastName, &cpf, &cnpj, &company, &email, &phone, &city, &state); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		if c.CommonDataID != nil {
			c.CommonData = &model.CommonData{ID: *c.CommonDataID, TenantID: c.TenantID, CPF: cpf, CNPJ: cnpj, CompanyName: company}
			if firstName != nil {
				c.CommonData.FirstName = *firstName
			}
			if lastName != nil {
				c.CommonData.LastName = *lastName
			}
		}
		if c.ContactID != nil && email != nil {
			c.Contact = &model.Contact{ID: *c.ContactID, TenantID: c.TenantID, Email: *email, Phone: phone}
		}
		if c.AddressID != nil && city != nil {
			c.Address = &model.Address{ID: *c.AddressID, TenantID: c.TenantID, City: *city}
			if state != nil {
				c.Address.State = *state
			}
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

// IsUniqueInTenant reports whether no other customer of the tenant uses
// value for field (email, cpf or cnpj).
func (r *Customers) IsUniqueInTenant(ctx context.Context, tenantID, field, value, excludeID string) (bool, error) {
	column, ok := customerUniqueFields[field]
	if !ok {
		return false, fmt.Errorf("field %q is not checked for uniqueness", field)
	}
	var unique bool
	err := r.db.QueryRow(ctx,
		`SELECT NOT EXISTS (
		   SELECT 1 FROM customers c
		   LEFT JOIN common_datas cd ON cd.id = c.common_data_id
		   LEFT JOIN contacts ct ON ct.id = c.contact_id
		   WHERE c.tenant_id = $1 AND `+column+` = $2 AND ($3 = '' OR c.id::text <> $3))`,
		tenantID, value, excludeID,
	).Scan(&unique)
	if err != nil {
		return false, fmt.Errorf("check customer %s uniqueness: %w", field, mapError(err))
	}
	return unique, nil
}

// Count returns how many customers the tenant has.
func (r *Customers) Count(ctx context.Context, tenantID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM customers WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", mapError(err))
	}
	return n, nil
}

// CountByStatus returns customer counts keyed by status.
func (r *Customers) CountByStatus(ctx context.Context, tenantID string) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM customers WHERE tenant_id = $1 GROUP BY status`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count customers by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan customer count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer counts: %w", err)
	}
	return counts, nil
}

// Dependents counts budgets and invoices that reference the customer.
func (r *Customers) Dependents(ctx context.Context, tenantID, id string) (budgets, invoices int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT
		   (SELECT count(*) FROM budgets WHERE tenant_id = $1 AND customer_id = $2),
		   (SELECT count(*) FROM invoices WHERE tenant_id = $1 AND customer_id = $2)`, tenantID, id,
	).Scan(&budgets, &invoices)
	if err != nil {
		return 0, 0, fmt.Errorf("count customer %s dependents: %w", id, mapError(err))
	}
	return budgets, invoices, nil
}
