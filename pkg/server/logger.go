package server

import (
	"fmt"
	"strings"

	"github.com/manifold/taskcoach/pkg/misc/logging"
)

// printer adapts a Logger to negroni's ALogger.
type printer struct {
	log logging.Logger
}

func (p printer) Println(v ...interface{}) {
	logging.Info(p.log, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func (p printer) Printf(format string, v ...interface{}) {
	logging.Info(p.log, strings.TrimSuffix(fmt.Sprintf(format, v...), "\n"))
}
