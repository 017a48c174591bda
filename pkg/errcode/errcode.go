package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// CSV errors
	CSVReadError
	CSVHeaderError
	CSVEmptyError

	// SFGA errors
	SFGAFetchError
	SFGAReadError
	SFGAHierarchyError

	// Enrichment errors
	EnrichError

	// Output errors
	OutputError
)
