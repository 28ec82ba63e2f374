package charm

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func displayHelp(s *Spec) {
	w := os.Stdout
	fmt.Fprintf(w, "usage: %s\n", s.Usage)
	if long := strings.TrimSpace(s.Long); long != "" {
		fmt.Fprintf(w, "\n%s\n", long)
	}
	f := flag.NewFlagSet(s.Name, flag.ContinueOnError)
	if _, err := s.New(nil, f); err != nil {
		return
	}
	var has bool
	f.VisitAll(func(*flag.Flag) { has = true })
	if has {
		fmt.Fprintf(w, "\noptions:\n")
		f.SetOutput(w)
		f.PrintDefaults()
	}
	var visible []*Spec
	for _, child := range s.children {
		if !child.Hidden {
			visible = append(visible, child)
		}
	}
	if len(visible) > 0 {
		fmt.Fprintf(w, "\ncommands:\n")
		for _, child := range visible {
			fmt.Fprintf(w, "  %-12s %s\n", child.Name, child.Short)
		}
	}
}
