package core

import (
	"context"
	"fmt"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
)

// party is the CommonData, Contact and optional Address rows that make up
// a provider or customer.
type party struct {
	common  *model.CommonData
	contact *model.Contact
	address *model.Address
}

func newParty(cd request.CommonData, ct request.Contact, addr *request.Address) (*party, error) {
	birth, err := parseDate(cd.BirthDate)
	if err != nil {
		return nil, err
	}
	p := &party{
		common: &model.CommonData{
			FirstName:   cd.FirstName,
			LastName:    cd.LastName,
			BirthDate:   birth,
			CPF:         emptyToNil(cd.CPF),
			CNPJ:        emptyToNil(cd.CNPJ),
			CompanyName: emptyToNil(cd.CompanyName),
			Description: cd.Description,
		},
		contact: &model.Contact{
			Email:         ct.Email,
			Phone:         ct.Phone,
			EmailBusiness: ct.EmailBusiness,
			PhoneBusiness: ct.PhoneBusiness,
			Website:       ct.Website,
		},
	}
	if addr != nil {
		p.address = &model.Address{
			Street:       addr.Street,
			Number:       addr.Number,
			Neighborhood: addr.Neighborhood,
			City:         addr.City,
			State:        addr.State,
			CEP:          addr.CEP,
		}
	}
	return p, nil
}

// insert writes all rows with fresh ids.
func (p *party) insert(ctx context.Context, st *store.Store, tenantID string) error {
	p.common.ID = platform.NewID()
	if err := st.CommonData.Insert(ctx, tenantID, p.common); err != nil {
		return err
	}
	p.contact.ID = platform.NewID()
	if err := st.Contacts.Insert(ctx, tenantID, p.contact); err != nil {
		return err
	}
	if p.address != nil {
		p.address.ID = platform.NewID()
		if err := st.Addresses.Insert(ctx, tenantID, p.address); err != nil {
			return err
		}
	}
	return nil
}

// save updates the rows referenced by the given ids and inserts the ones
// that do not exist yet.
func (p *party) save(ctx context.Context, st *store.Store, tenantID string, commonID, contactID, addressID *string) error {
	if commonID != nil {
		p.common.ID = *commonID
		if err := st.CommonData.Update(ctx, tenantID, p.common); err != nil {
			return err
		}
	} else {
		p.common.ID = platform.NewID()
		if err := st.CommonData.Insert(ctx, tenantID, p.common); err != nil {
			return err
		}
	}
	if contactID != nil {
		p.contact.ID = *contactID
		if err := st.Contacts.Update(ctx, tenantID, p.contact); err != nil {
			return err
		}
	} else {
		p.contact.ID = platform.NewID()
		if err := st.Contacts.Insert(ctx, tenantID, p.contact); err != nil {
			return err
		}
	}
	if p.address == nil {
		return nil
	}
	if addressID != nil {
		p.address.ID = *addressID
		return st.Addresses.Update(ctx, tenantID, p.address)
	}
	p.address.ID = platform.NewID()
	return st.Addresses.Insert(ctx, tenantID, p.address)
}

func (p *party) ids() (commonID, contactID, addressID *string) {
	commonID, contactID = &p.common.ID, &p.contact.ID
	if p.address != nil {
		addressID = &p.address.ID
	}
	return commonID, contactID, addressID
}

// removeParty deletes the sub-records of a deleted provider or customer.
func removeParty(ctx context.Context, st *store.Store, tenantID string, commonID, contactID, addressID *string) error {
	if commonID != nil {
		if err := st.CommonData.Delete(ctx, tenantID, *commonID); err != nil {
			return err
		}
	}
	if contactID != nil {
		if err := st.Contacts.Delete(ctx, tenantID, *contactID); err != nil {
			return err
		}
	}
	if addressID != nil {
		if err := st.Addresses.Delete(ctx, tenantID, *addressID); err != nil {
			return err
		}
	}
	return nil
}

func businessDataFrom(in *request.BusinessData, providerID string) (*model.BusinessData, error) {
	if in == nil {
		return nil, nil
	}
	founded, err := parseDate(in.FoundedAt)
	if err != nil {
		return nil, err
	}
	return &model.BusinessData{
		ID:                platform.NewID(),
		ProviderID:        providerID,
		FantasyName:       in.FantasyName,
		StateRegistration: in.StateRegistration,
		MunicipalReg:      in.MunicipalRegistration,
		FoundedAt:         founded,
	}, nil
}

// loadParty fills the sub-records of a provider or customer.
func loadParty(ctx context.Context, st *store.Store, tenantID string, commonID, contactID, addressID *string) (*model.CommonData, *model.Contact, *model.Address, error) {
	var (
		cd  *model.CommonData
		ct  *model.Contact
		adr *model.Address
		err error
	)
	if commonID != nil {
		if cd, err = st.CommonData.Get(ctx, tenantID, *commonID); err != nil {
			return nil, nil, nil, fmt.Errorf("load common data: %w", err)
		}
	}
	if contactID != nil {
		if ct, err = st.Contacts.Get(ctx, tenantID, *contactID); err != nil {
			return nil, nil, nil, fmt.Errorf("load contact: %w", err)
		}
	}
	if addressID != nil {
		if adr, err = st.Addresses.Get(ctx, tenantID, *addressID); err != nil {
			return nil, nil, nil, fmt.Errorf("load address: %w", err)
		}
	}
	return cd, ct, adr, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
