package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/qadesk/qadesk/cmd/qactl/commands"
)

// Version info for the qactl tool
// These variables are injected at build time via ldflags
var (
	// Version is the current version of qactl
	Version = "dev"

	// BuildTime is the time at which the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit that was compiled
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	env, err := commands.DefaultEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "validate-name":
		err = commands.ValidateNameCommand(env, args)
	case "validate-url":
		err = commands.ValidateURLCommand(env, args)
	case "login":
		err = commands.LoginCommand(env, args)
	case "logout":
		err = commands.LogoutCommand(env)
	case "use":
		err = commands.UseCommand(env, args)
	case "websites":
		err = commands.WebsitesCommand(env, args)
	case "generate":
		err = commands.GenerateCommand(env, args)
	case "show":
		err = commands.ShowCommand(env, args)
	case "--version", "-v", "version":
		log.Printf("qactl %s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
		return
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, commands.ErrValidationFailed) {
		// Details were already written to stderr
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	_, _ = fmt.Fprintln(os.Stdout, "qadesk command line tool")
	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintln(os.Stdout, "Usage:")
	_, _ = fmt.Fprintln(os.Stdout, "  qactl <command> [arguments]")
	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintln(os.Stdout, "Commands:")
	_, _ = fmt.Fprintln(os.Stdout, "  validate-name   Normalize and check an application name")
	_, _ = fmt.Fprintln(os.Stdout, "  validate-url    Normalize and check a website URL")
	_, _ = fmt.Fprintln(os.Stdout, "  login           Authenticate with a qadesk server (none or oidc)")
	_, _ = fmt.Fprintln(os.Stdout, "  logout          Clear saved authentication")
	_, _ = fmt.Fprintln(os.Stdout, "  use             Select the current website, or --clear it")
	_, _ = fmt.Fprintln(os.Stdout, "  websites        List your websites")
	_, _ = fmt.Fprintln(os.Stdout, "  generate        Create a website with generated test data")
	_, _ = fmt.Fprintln(os.Stdout, "  show            Show the current website")
}
