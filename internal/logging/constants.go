package logging

// Standard field names for structured log output.
const (
	FieldMerchant   = "merchant"
	FieldCode       = "code"
	FieldCategory   = "category"
	FieldSource     = "source"
	FieldConfidence = "confidence"
	FieldCard       = "card"
	FieldStrategy   = "strategy"
	FieldCount      = "count"
	FieldFile       = "file_path"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldDuration   = "duration_ms"
)
