package commands

import (
	"fmt"
	"io"

	getopt "github.com/pborman/getopt/v2"
)

// SimpleCommand parses flags for a builtin and prints its help.
type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string

	flags    *getopt.Set
	showHelp *bool
}

// Flags gets the command's flag set.
func (c *SimpleCommand) Flags() *getopt.Set {
	if c.flags == nil {
		c.flags = getopt.New()
	}

	return c.flags
}

// PrintHelp writes help for the command to the given writer.
func (c *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, c.Use)
	fmt.Fprintln(w, c.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	c.Flags().PrintOptions(w)
}

// Run parses args, which include the command name, and calls the callback
// if parsing was successful and help wasn't requested.
func (c *SimpleCommand) Run(s *Shell, args []string, callback func() error) error {
	opts := c.Flags()
	if c.showHelp == nil {
		c.showHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(args, nil); err != nil {
		c.PrintHelp(s.VirtualIO.Stderr())
		return err
	}

	if *c.showHelp {
		c.PrintHelp(s.VirtualIO.Stdout())
		return nil
	}

	return callback()
}
