package main

import (
	"fmt"
	"os"

	"github.com/kingrea/switchscan/plugins"
)

// handleValidateRulesCommand checks a YAML rule set file without starting
// the simulator. It reports whether args named the subcommand.
func handleValidateRulesCommand(args []string) bool {
	if len(args) < 1 || args[0] != "validate-rules" {
		return false
	}
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: switchscan validate-rules /path/to/rules.yaml")
		os.Exit(2)
	}
	files, err := plugins.LoadDefinitionFile(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
		os.Exit(1)
	}
	for _, file := range files {
		rules, err := file.Definition.Resolve()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid: %s: %v\n", file.Path, err)
			os.Exit(1)
		}
		fmt.Printf("OK: %s (%s, %d rules)\n", file.Path, file.Definition.ID, len(rules))
		for _, rule := range rules {
			fmt.Printf("- %s → %s\n", rule.Name, rule.Effect)
		}
	}
	return true
}
