package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gntree/pkg/errcode"
)

// CreateLogFileError is returned when the log file cannot be created.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot create log file <em>%s</em>

Use <em>GNTREE_LOG_DESTINATION=stderr</em> to send logs to the terminal.`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create log file: %w",
			fn.Name(), err),
	}
}
