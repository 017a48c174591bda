package cmd

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gntree/pkg/errcode"
)

// OutputError is returned when results cannot be encoded or written.
func OutputError(format string, err error) error {
	msg := "Cannot create output in <em>%s</em> format"
	vars := []any{format}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.OutputError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: output: %w", fn.Name(), err),
	}
}
