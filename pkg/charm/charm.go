// Package charm is a minimalist CLI framework inspired by cobra and urfave/cli.
package charm

import (
	"errors"
	"flag"
)

var (
	NeedHelp = errors.New("help")
	ErrNoRun = errors.New("no run method")
)

type Constructor func(Command, *flag.FlagSet) (Command, error)

type Command interface {
	Run([]string) error
}

type Spec struct {
	Name  string
	Usage string
	Short string
	Long  string
	New   Constructor
	// Hidden hides this command from help.
	Hidden   bool
	children []*Spec
	parent   *Spec
}

func (s *Spec) Add(child *Spec) {
	s.children = append(s.children, child)
	child.parent = s
}

func (s *Spec) lookupSub(name string) *Spec {
	for _, child := range s.children {
		if name == child.Name {
			return child
		}
	}
	return nil
}

// Exec parses args against the command hierarchy rooted at s,
// instantiating each command on the path and running the leaf.
func (s *Spec) Exec(args []string) error {
	cmd, rest, err := s.parse(nil, args)
	if err == nil {
		err = cmd.Run(rest)
	}
	if err == NeedHelp || err == flag.ErrHelp {
		displayHelp(s)
		return nil
	}
	return err
}

func (s *Spec) parse(parent Command, args []string) (Command, []string, error) {
	f := flag.NewFlagSet(s.Name, flag.ContinueOnError)
	f.Usage = func() {}
	cmd, err := s.New(parent, f)
	if err != nil {
		return nil, nil, err
	}
	if err := f.Parse(args); err != nil {
		return nil, nil, err
	}
	rest := f.Args()
	if len(rest) > 0 {
		if child := s.lookupSub(rest[0]); child != nil {
			return child.parse(cmd, rest[1:])
		}
		if rest[0] == "help" {
			return nil, nil, NeedHelp
		}
	}
	return cmd, rest, nil
}

func NoRun(args []string) error {
	if len(args) == 0 {
		return NeedHelp
	}
	return ErrNoRun
}
