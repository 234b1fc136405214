package commands

import (
	"errors"
	"fmt"
)

// UseCommand selects the website later commands act on. Without arguments
// it prints the current selection.
func UseCommand(env *Env, args []string) error {
	selector := env.selector()

	if len(args) == 0 {
		id, ok, err := selector.Current("")
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(env.Stdout, "No website selected")
			return nil
		}
		_, _ = fmt.Fprintln(env.Stdout, id)
		return nil
	}

	if args[0] == "--clear" {
		if err := selector.Clear(); err != nil {
			return fmt.Errorf("failed to clear selection: %w", err)
		}
		_, _ = fmt.Fprintln(env.Stdout, "✓ Selection cleared")
		return nil
	}

	if len(args) != 1 {
		return errors.New("usage: qactl use <website-id> | qactl use --clear")
	}
	if err := selector.Select(args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(env.Stdout, "✓ Selected website %s\n", args[0])
	return nil
}
