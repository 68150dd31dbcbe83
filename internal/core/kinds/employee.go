package kinds

import (
	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/core"
)

// Employee sheets identify workers by name plus a 4-digit clock-in PIN.
// There is no intra-batch dedup for employees; the template has no
// reliable identity column, so each row stands on its own.

const (
	employeeNameHeader = "Name First and Last"
	employeePinHeader  = "Pin (4 digits or more)"
)

var employeeDisplayNames = map[string]string{
	core.FieldName: employeeNameHeader,
	core.FieldPIN:  employeePinHeader,
}

// EmployeePayload is the submission shape for one employee record.
// PIN stays a string to preserve leading zeros.
type EmployeePayload struct {
	Name       string  `json:"name"`
	PIN        string  `json:"pin"`
	EmployeeID *string `json:"employee_id"`
	CompanyID  int64   `json:"company_id"`
	Role       string  `json:"role"`
	Employee   int     `json:"employee"`
	Active     int     `json:"active"`

	// Numeric mirrors kept for legacy fields alongside the permissions.
	Foreman        int `json:"foreman"`
	TimeClockLevel int `json:"time_clock_level"`

	Permissions []core.PermissionGrant `json:"permissions,omitempty"`

	Phone            string `json:"phone,omitempty"`
	PhoneNumber      string `json:"phone_number,omitempty"`
	PhoneCountryCode string `json:"phone_country_code,omitempty"`
	ConsentedToSMSAt string `json:"consented_to_sms_at,omitempty"`
}

var employeeToggles = []core.ToggleSpec{
	{Field: core.FieldTracking, Grants: []core.PermissionGrant{
		{Capability: "tracking_info", AccessLevel: core.AccessEdit},
	}},
	{Field: core.FieldForeman, Grants: []core.PermissionGrant{
		{Capability: "time_for_others", AccessLevel: core.AccessEdit},
	}},
}

func init() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "employees",
			Label:      "Employees",
			SubmitPath: "/api/users",
		},
		Match: core.MatchAlnum,
		Fields: []core.FieldSpec{
			{Name: core.FieldName, Aliases: []string{employeeNameHeader, "Name"}},
			{Name: core.FieldPIN, Aliases: []string{employeePinHeader, "PIN", "Pin"}},
			{Name: core.FieldEmployeeID, Aliases: []string{"Employee ID", "ID"}},
			{Name: core.FieldPhone, Aliases: []string{
				"Cell Number", "Cell Phone", "Phone Number", "Phone",
			}},
			{Name: core.FieldForeman, Aliases: []string{"Foreman"}},
			{Name: core.FieldTracking, Aliases: []string{"Tracking"}},
		},
		Validate:     validateEmployee,
		BuildPayload: buildEmployeePayload,
	})
}

func validateEmployee(fields core.ResolvedFields, line int) *core.ValidationError {
	verr := &core.ValidationError{Line: line}
	core.RequireFields(verr, fields, employeeDisplayNames, core.FieldName, core.FieldPIN)
	core.CheckPIN(verr, fields[core.FieldPIN], line)
	if verr.Empty() {
		return nil
	}
	return verr
}

func buildEmployeePayload(in core.PayloadInput) any {
	f := in.Fields

	foreman := 0
	if core.ParseToggle(f[core.FieldForeman]) {
		foreman = 1
	}
	timeClockLevel := 0
	if core.ParseToggle(f[core.FieldTracking]) {
		timeClockLevel = 1
	}

	p := &EmployeePayload{
		Name:           f[core.FieldName],
		PIN:            f[core.FieldPIN],
		CompanyID:      in.BaseCompanyID,
		Role:           "user", // importer never creates admins
		Employee:       1,
		Active:         1,
		Foreman:        foreman,
		TimeClockLevel: timeClockLevel,
		Permissions:    core.MapPermissions(f, employeeToggles),
	}

	if id := f[core.FieldEmployeeID]; id != "" {
		p.EmployeeID = &id
	}

	if phone := core.NormalizePhone(f[core.FieldPhone]); phone != nil {
		p.Phone = phone.E164
		p.PhoneNumber = phone.E164
		p.PhoneCountryCode = phone.CountryCode
		p.ConsentedToSMSAt = core.SQLNow()
	}

	return p
}
