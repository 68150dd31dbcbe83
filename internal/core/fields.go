package core

// Logical field names shared across record kinds. Kinds bind these to
// their own header aliases; the processor only ever reads resolved
// fields by these names.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldPIN        = "pin"
	FieldEmployeeID = "employee_id"
	FieldPhone      = "phone"
	FieldRole       = "role"
	FieldCompany    = "company"

	// Toggle columns.
	FieldPayroll  = "payroll"
	FieldJobs     = "jobs"
	FieldUsers    = "users"
	FieldAnalysis = "analysis"
	FieldForeman  = "foreman"
	FieldTracking = "tracking"
)
