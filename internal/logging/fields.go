package logging

// Log attribute keys shared by the console and JSON handlers. JSON log
// consumers rely on these names; changing one means bumping
// logSchemaVersion.
const (
	FieldRunID         = "run_id"
	FieldHostname      = "hostname"
	FieldPID           = "pid"
	FieldSchemaVersion = "schema_version"

	FieldPath     = "path"     // string - inspected file
	FieldTarget   = "target"   // string - path after symlink resolution
	FieldError    = "error"    // error
	FieldClass    = "class"    // string - ELF32 or ELF64
	FieldSections = "sections" // int - section header count
	FieldSegments = "segments" // int - program header count
	FieldFiles    = "files"    // int - files in this run
	FieldFailed   = "failed"   // int - files without a report
)
