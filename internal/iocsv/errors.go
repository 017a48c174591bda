package iocsv

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gntree/pkg/errcode"
)

// ReadError is returned when a CSV file cannot be opened or parsed.
func ReadError(path string, err error) error {
	msg := "Cannot read CSV file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CSVReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

// HeaderError is returned when a required column is missing.
func HeaderError(path, field string) error {
	msg := `Column <em>%s</em> is not found in <em>%s</em>

<em>How to fix:</em>
  1. Check the header of the file
  2. Set the correct column name with flags or in config.yaml`
	vars := []any{field, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CSVHeaderError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: field %q is missing in %s",
			fn.Name(), field, path),
	}
}

// EmptyError is returned when a CSV file has no header.
func EmptyError(path string) error {
	msg := "CSV file <em>%s</em> is empty"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CSVEmptyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("no header found")),
	}
}
