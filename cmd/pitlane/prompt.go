package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// confirm asks a yes/no question before a destructive operation. assumeYes skips the
// question. Without a terminal on stdin there is nobody to ask, so the operation is
// cancelled unless --yes was given.
func confirm(cmd *cobra.Command, question string, assumeYes bool) error {
	if assumeYes {
		return nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return fmt.Errorf("%w: stdin is not a terminal, pass --yes to confirm", ErrCancelled)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	input, _ := bufio.NewReader(in).ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	if input != "y" && input != "yes" {
		return ErrCancelled
	}
	return nil
}
