package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gntree/pkg/errcode"
)

func callerName() string {
	pc, _, _, _ := runtime.Caller(2)
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return "unknown"
}

// CreateDirError is returned when a directory cannot be created or
// cleaned.
func CreateDirError(dir string, err error) error {
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  "Cannot prepare directory <em>%s</em>",
		Vars: []any{dir},
		Err: fmt.Errorf("from %s: cannot create directory %s: %w",
			callerName(), dir, err),
	}
}

// CopyFileError is returned when the default config cannot be written.
func CopyFileError(file string, err error) error {
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  "Cannot write default configuration to <em>%s</em>",
		Vars: []any{file},
		Err: fmt.Errorf("from %s: cannot copy file %s: %w",
			callerName(), file, err),
	}
}

// ReadFileError is returned when a file or directory cannot be read.
func ReadFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  "Cannot read <em>%s</em>",
		Vars: []any{path},
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			callerName(), path, err),
	}
}
