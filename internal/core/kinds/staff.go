package kinds

import (
	"strings"

	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/core"
)

// Staff rows create login-capable users, so this is the strictest kind:
// name, email, and password are all required, the template's columns must
// be present up front, and both intra-batch and cross-batch email
// duplicates are caught before the remote service sees the row.

const (
	staffNameHeader     = "Name First and Last"
	staffEmailHeader    = "Email"
	staffPasswordHeader = "Password (6 Characters minimum)"
)

var staffDisplayNames = map[string]string{
	core.FieldName:     staffNameHeader,
	core.FieldEmail:    staffEmailHeader,
	core.FieldPassword: staffPasswordHeader,
}

// StaffPayload is the submission shape for one staff record. The trimmed
// password is sent for both password fields, and the Employee ID column
// is mirrored into accounting_id and employee_id so UI filters keep
// working either way.
type StaffPayload struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`

	Role     string `json:"role"`
	Employee int    `json:"employee"`
	Active   int    `json:"active"`

	// Numeric mirrors for the legacy level fields.
	TimeClockLevel int `json:"time_clock_level"`
	SchedulerLevel int `json:"scheduler_level"`
	MetricsLevel   int `json:"metrics_level"`
	MetricsEnabled int `json:"metrics_enabled"`

	AccountingID *string `json:"accounting_id"`
	EmployeeID   *string `json:"employee_id"`
	CompanyID    int64   `json:"company_id"`

	Type         string `json:"type"`
	IsSuperAdmin int    `json:"is_super_admin"`

	Permissions []core.PermissionGrant `json:"permissions,omitempty"`

	Phone            string `json:"phone,omitempty"`
	PhoneNumber      string `json:"phone_number,omitempty"`
	PhoneCountryCode string `json:"phone_country_code,omitempty"`
	ConsentedToSMSAt string `json:"consented_to_sms_at,omitempty"`
}

var staffToggles = []core.ToggleSpec{
	// Payroll grants both the time module and the payroll capability.
	{Field: core.FieldPayroll, Grants: []core.PermissionGrant{
		{Capability: "time", AccessLevel: core.AccessEdit},
		{Capability: "payroll", AccessLevel: core.AccessEdit},
	}},
	{Field: core.FieldForeman, Grants: []core.PermissionGrant{
		{Capability: "time_for_others", AccessLevel: core.AccessEdit},
	}},
	{Field: core.FieldTracking, Grants: []core.PermissionGrant{
		{Capability: "tracking_info", AccessLevel: core.AccessEdit},
	}},
	{Field: core.FieldJobs, Grants: []core.PermissionGrant{
		{Capability: "jobs", AccessLevel: core.AccessEdit},
	}},
	{Field: core.FieldUsers, Grants: []core.PermissionGrant{
		{Capability: "users", AccessLevel: core.AccessEdit},
	}},
	// Analysis is view-only.
	{Field: core.FieldAnalysis, Grants: []core.PermissionGrant{
		{Capability: "analysis", AccessLevel: core.AccessView},
	}},
}

func init() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "staff",
			Label:      "Staff",
			SubmitPath: "/api/users",
		},
		Match: core.MatchAlnum,
		Fields: []core.FieldSpec{
			{Name: core.FieldName, Aliases: []string{staffNameHeader, "Name"}},
			{Name: core.FieldEmployeeID, Aliases: []string{"Employee ID"}},
			{Name: core.FieldEmail, Aliases: []string{staffEmailHeader}},
			{Name: core.FieldPassword, Aliases: []string{staffPasswordHeader, "Password"}},
			{Name: core.FieldPhone, Aliases: []string{"Cell Phone"}},
			{Name: core.FieldPayroll, Aliases: []string{"Payroll"}},
			{Name: core.FieldJobs, Aliases: []string{"Jobs"}},
			{Name: core.FieldUsers, Aliases: []string{"Users"}},
			{Name: core.FieldAnalysis, Aliases: []string{"Analysis"}},
			{Name: core.FieldForeman, Aliases: []string{"Foreman"}},
			{Name: core.FieldTracking, Aliases: []string{"Tracking"}},
		},
		RequiredHeaders: []string{staffNameHeader, staffEmailHeader, staffPasswordHeader},
		Validate:        validateStaff,
		DedupeKey:       staffDedupeKey,
		DuplicateReason: "Duplicate email in upload",
		IdentityKey:     staffIdentityKey,
		PrefetchExisting: true,
		BuildPayload:     buildStaffPayload,
	})
}

func validateStaff(fields core.ResolvedFields, line int) *core.ValidationError {
	verr := &core.ValidationError{Line: line}
	core.RequireFields(verr, fields, staffDisplayNames,
		core.FieldName, core.FieldEmail, core.FieldPassword)
	core.CheckPassword(verr, fields[core.FieldPassword], line)
	if verr.Empty() {
		return nil
	}
	return verr
}

func staffDedupeKey(fields core.ResolvedFields) string {
	return core.DedupeKey(fields[core.FieldEmail])
}

func staffIdentityKey(fields core.ResolvedFields) string {
	return fields[core.FieldEmail]
}

func buildStaffPayload(in core.PayloadInput) any {
	f := in.Fields

	payroll := core.ParseToggle(f[core.FieldPayroll])
	jobs := core.ParseToggle(f[core.FieldJobs])
	analysis := core.ParseToggle(f[core.FieldAnalysis])

	timeClockLevel := 0
	if payroll {
		timeClockLevel = 1
	}
	schedulerLevel := 0
	if jobs {
		schedulerLevel = 1
	}
	metricsLevel := 0
	if analysis {
		metricsLevel = 1
	}
	metricsEnabled := 0
	if metricsLevel > 0 {
		metricsEnabled = 1
	}

	password := strings.TrimSpace(f[core.FieldPassword])

	p := &StaffPayload{
		Name:                 f[core.FieldName],
		Email:                f[core.FieldEmail],
		Password:             password,
		PasswordConfirmation: password,
		Role:                 "user", // always regular staff, never admin
		Employee:             0,
		Active:               1,
		TimeClockLevel:       timeClockLevel,
		SchedulerLevel:       schedulerLevel,
		MetricsLevel:         metricsLevel,
		MetricsEnabled:       metricsEnabled,
		CompanyID:            in.BaseCompanyID,
		Type:                 "user",
		IsSuperAdmin:         0,
		Permissions:          core.MapPermissions(f, staffToggles),
	}

	if id := f[core.FieldEmployeeID]; id != "" {
		p.AccountingID = &id
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
