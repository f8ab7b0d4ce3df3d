package driving

import "context"

// IngestStats reports what ingestion did, so data loss is observable
// rather than silent.
type IngestStats struct {
	// RawParsed is the number of raw records parsed from the export.
	RawParsed int

	// Kept is the number of messages surviving normalisation.
	Kept int

	// Indexed is the number of documents written to the vector store.
	Indexed int
}

// IngestOptions configures a single ingest invocation.
type IngestOptions struct {
	// DryRun parses and normalises without writing any output.
	DryRun bool

	// SkipIndex saves the canonical artifact but does not build the index.
	SkipIndex bool

	// ResetIndex clears the vector store before indexing.
	ResetIndex bool
}

// IngestService turns a raw export into the canonical message artifact
// and the vector index.
type IngestService interface {
	Ingest(ctx context.Context, inputPath string, opts IngestOptions) (IngestStats, error)
}
