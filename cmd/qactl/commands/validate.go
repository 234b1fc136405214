package commands

import (
	"errors"
	"fmt"

	"github.com/qadesk/qadesk/internal/naming"
	"github.com/qadesk/qadesk/internal/validators"
)

// ValidateNameCommand normalizes and checks the application name in args[0].
// Names with spaces must be quoted.
func ValidateNameCommand(env *Env, args []string) error {
	if len(args) == 0 {
		return errors.New("name required\n\nUsage: qactl validate-name <name>\n\nExample:\n  qactl validate-name \"QA Testing App\"")
	}

	raw := args[0]
	res := naming.NormalizeAndValidate(raw)
	if res.Valid {
		naming.Report(env.Stdout, raw, res)
		return nil
	}

	naming.Report(env.Stderr, raw, res)
	return ErrValidationFailed
}

// ValidateURLCommand checks a website URL and prints its canonical form
func ValidateURLCommand(env *Env, args []string) error {
	if len(args) != 1 {
		return errors.New("URL required\n\nUsage: qactl validate-url <url>")
	}

	res := validators.ValidateAndNormalizeURL(args[0])
	if res.IsValid {
		_, _ = fmt.Fprintf(env.Stdout, "✅ Valid URL: %s\n", res.NormalizedURL)
		return nil
	}

	_, _ = fmt.Fprintf(env.Stderr, "❌ Invalid URL: %s\n", res.Error)
	return ErrValidationFailed
}
