package kinds

import (
	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/core"
)

// Customer sheets are the loosest of the three templates: only the name
// is required, the phone column goes by half a dozen labels, and an
// optional Company column links the customer to a customer-company
// resolved (or created) per batch.

const customerNameHeader = "Name First and Last"

var customerDisplayNames = map[string]string{
	core.FieldName: customerNameHeader,
}

// CustomerPayload is the submission shape for one customer record.
type CustomerPayload struct {
	Name              string  `json:"name"`
	CompanyID         int64   `json:"company_id"`
	CustomerCompanyID *int64  `json:"customer_company_id"`
	Active            int     `json:"active"`
	Role              string  `json:"role"`
	Email             *string `json:"email"`

	// Both phone and phone_number are sent to satisfy either API shape.
	Phone            string `json:"phone,omitempty"`
	PhoneNumber      string `json:"phone_number,omitempty"`
	PhoneCountryCode string `json:"phone_country_code,omitempty"`
	ConsentedToSMSAt string `json:"consented_to_sms_at,omitempty"`

	Type string  `json:"type"`
	PIN  *string `json:"pin"`
}

func init() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "customers",
			Label:      "Customers",
			SubmitPath: "/api/customers",
		},
		Match: core.MatchLoose,
		Fields: []core.FieldSpec{
			{Name: core.FieldName, Aliases: []string{customerNameHeader, "Name"}},
			{Name: core.FieldRole, Aliases: []string{"Role"}},
			{Name: core.FieldEmail, Aliases: []string{"Email"}},
			{Name: core.FieldCompany, Aliases: []string{"Company"}},
			{Name: core.FieldPhone, Aliases: []string{
				"Phone", "Phone Number", "Cell Phone", "Mobile", "Mobile Phone", "Telephone", "Tel",
			}},
		},
		Validate:        validateCustomer,
		DedupeKey:       customerDedupeKey,
		DuplicateReason: "Duplicate row in upload (same Name/Email/Company)",
		ResolvesCompany: true,
		BuildPayload:    buildCustomerPayload,
	})
}

func validateCustomer(fields core.ResolvedFields, line int) *core.ValidationError {
	verr := &core.ValidationError{Line: line}
	core.RequireFields(verr, fields, customerDisplayNames, core.FieldName)
	if verr.Empty() {
		return nil
	}
	return verr
}

func customerDedupeKey(fields core.ResolvedFields) string {
	return core.DedupeKey(
		fields[core.FieldName],
		fields[core.FieldEmail],
		fields[core.FieldCompany],
	)
}

func buildCustomerPayload(in core.PayloadInput) any {
	f := in.Fields

	role := f[core.FieldRole]
	if role == "" {
		role = "Customer"
	}

	p := &CustomerPayload{
		Name:              f[core.FieldName],
		CompanyID:         in.BaseCompanyID,
		CustomerCompanyID: in.CustomerCompanyID,
		Active:            1,
		Role:              role,
		Type:              "customer",
	}

	if email := f[core.FieldEmail]; email != "" {
		p.Email = &email
	}

	if phone := core.NormalizePhone(f[core.FieldPhone]); phone != nil {
		p.Phone = phone.E164
		p.PhoneNumber = phone.E164
		p.PhoneCountryCode = phone.CountryCode
		p.ConsentedToSMSAt = core.SQLNow()
	}

	return p
}
