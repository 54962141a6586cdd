// Command uicanvas scaffolds, scans, and lints projects built on the
// three-layer component architecture (components, pages, workflows).
package main

import (
	"fmt"
	"os"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/util"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	args = setupLogging(args)

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	var exit int
	switch args[0] {
	case "registry":
		exit = runRegistry(cfg, args[1:])
	case "tokens":
		exit = runTokens(cfg, args[1:])
	case "validate":
		exit = runValidateArchitecture(cfg)
	case "validate-all":
		exit = runValidateAll(cfg)
	case "serve":
		exit = runServe(cfg, args[1:])
	case "watch":
		exit = runWatch(cfg)
	case "version":
		fmt.Printf("uicanvas %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		exit = 1
	}
	os.Exit(exit)
}

// setupLogging installs the default logger, honoring a --verbose flag
// anywhere on the command line. Logs go to stderr so stdout stays
// machine-readable.
func setupLogging(args []string) []string {
	logCfg := util.DefaultLoggerConfig()
	var rest []string
	for _, arg := range args {
		if arg == "--verbose" || arg == "-v" {
			logCfg.Level = util.LevelDebug
			continue
		}
		rest = append(rest, arg)
	}
	util.SetDefault(util.NewLogger(logCfg))
	return rest
}

// flagValue scans args for "--name value", returning "" when absent.
func flagValue(args []string, name string) string {
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Println("Usage: uicanvas <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  registry init            Initialize project layout and config")
	fmt.Println("  registry scan            Scan layer directories into the manifest")
	fmt.Println("  registry list [--layer L]  List registered components")
	fmt.Println("  registry info <name>     Show one component's record")
	fmt.Println("  registry docs [--out D]  Generate HTML documentation")
	fmt.Println("  registry validate        Check manifest records against the tree")
	fmt.Println("  tokens [--report]        Validate design-token usage")
	fmt.Println("  validate                 Run the architecture validator")
	fmt.Println("  validate-all             Run every validator in sequence")
	fmt.Println("  serve [--log PATH]       Start the MCP server on stdio")
	fmt.Println("  watch                    Rescan on file changes")
	fmt.Println("  version                  Print version")
	fmt.Println("  help                     Show this help message")
}
