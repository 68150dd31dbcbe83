// Package core implements the row-processing pipeline that turns
// spreadsheet-style uploads into validated Crew records.
//
// The pipeline is deliberately sequential: each row reaches a terminal
// outcome before the next row starts, because the per-batch company cache
// and duplicate set must reflect every prior row. Per-batch state lives on
// a BatchContext owned by a single Run call and is never shared.
//
// Record kinds (customers, employees, staff) are registered as
// KindDefinition values from the kinds subpackage, mirroring how the
// processor stays generic while each kind declares its own headers,
// validation rules, duplicate keys, and payload shape.
package core
