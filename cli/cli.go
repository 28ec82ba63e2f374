// Package cli holds the flags and process setup shared by commands.
package cli

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
)

// Version is set at build time via -ldflags.
var Version = "unknown"

// An Initializer validates a flag struct after parsing.
type Initializer interface {
	Init() error
}

type Flags struct {
	ShowVersion bool
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.ShowVersion, "version", false, "print version and exit")
}

// Init validates all the given flag structs and returns a context that
// is canceled when the process receives an interrupt or termination
// signal.  The returned cleanup must be called before exit.
func (f *Flags) Init(all ...Initializer) (context.Context, context.CancelFunc, error) {
	for _, flags := range all {
		if err := flags.Init(); err != nil {
			return nil, nil, err
		}
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx, cancel, nil
}
