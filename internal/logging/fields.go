package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldSourceFile is the standardized key for the incoming file being processed.
	FieldSourceFile = "source_file"
	// FieldChunk is the standardized key for the 0-based work unit index.
	FieldChunk = "chunk"
	// FieldRunID is the standardized key for a merge run identifier.
	FieldRunID = "run_id"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the kind of decision being logged.
	FieldDecisionType = "decision_type"
	// FieldProgressPercent carries a 0-100 completion value.
	FieldProgressPercent = "progress_percent"
)
