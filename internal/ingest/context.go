package ingest

import (
	"github.com/rs/zerolog"
)

// ParseContext carries the state of one ingest run through the pipeline.
type ParseContext struct {
	MatchID    string
	SourceFile string
	Metadata   *Metadata
	Logger     zerolog.Logger

	// SkipMalformed drops records that fail to transform instead of
	// aborting the run.
	SkipMalformed bool

	Counts  map[Category]int
	Dropped int
}

func NewParseContext(md *Metadata, sourceFile string, skipMalformed bool, logger zerolog.Logger) *ParseContext {
	return &ParseContext{
		MatchID:       md.MatchID,
		SourceFile:    sourceFile,
		Metadata:      md,
		Logger:        logger.With().Str("match_id", md.MatchID).Logger(),
		SkipMalformed: skipMalformed,
		Counts:        make(map[Category]int),
	}
}
