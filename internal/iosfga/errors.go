package iosfga

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gntree/pkg/errcode"
)

// FetchError is returned when an SFGA archive cannot be downloaded or
// extracted.
func FetchError(path string, err error) error {
	msg := `Cannot fetch SFGA archive <em>%s</em>

<em>Possible causes:</em>
  - the file or URL does not exist
  - the archive is not in SFGA format`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SFGAFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot fetch %s: %w", fn.Name(), path, err),
	}
}

// ReadError is returned when SFGA database cannot be opened or queried.
func ReadError(path string, err error) error {
	msg := "Cannot read SFGA database <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SFGAReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

// HierarchyError is returned when the classification hierarchy cannot
// be built.
func HierarchyError(err error) error {
	msg := "Cannot build classification hierarchy from SFGA data"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SFGAHierarchyError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: hierarchy: %w", fn.Name(), err),
	}
}

// EnrichError is returned when lineage lookups fail.
func EnrichError(err error) error {
	msg := "Cannot add lineage to records"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.EnrichError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: enrichment: %w", fn.Name(), err),
	}
}
