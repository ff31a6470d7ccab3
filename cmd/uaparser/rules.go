package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/praetorian-inc/uaparser"
	"github.com/praetorian-inc/uaparser/pkg/rule"
	"github.com/praetorian-inc/uaparser/pkg/types"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	verifyTests  string
	verifyKind   string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and verify rule catalogs",
	Long:  "Commands for listing and verifying user agent, os and device rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog rules",
	Long:  "Display every rule of the catalog in evaluation order, grouped by family kind",
	RunE:  runRulesList,
}

var rulesVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a catalog against a test_cases fixture",
	Long: `Parse every user_agent_string of a test_cases fixture and compare the
result with the expected fields. User agent fixtures compare family, major,
minor and patch; os fixtures add patch_minor; device fixtures compare family,
brand and model. Exits with an error when any field differs.`,
	RunE: runRulesVerify,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesVerifyCmd)
	rulesListCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format: table, json")
	rulesVerifyCmd.Flags().StringVar(&verifyTests, "tests", "", "Path to a test_cases YAML fixture")
	rulesVerifyCmd.Flags().StringVar(&verifyKind, "kind", "ua", "Family kind the fixture covers: ua, os, device")
	_ = rulesVerifyCmd.MarkFlagRequired("tests")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	var defs *types.Definitions
	var err error

	if rulesPath != "" {
		defs, err = uaparser.LoadRulesFromFile(rulesPath)
		if err != nil {
			return fmt.Errorf("loading rules from %s: %w", rulesPath, err)
		}
	} else {
		defs, err = uaparser.LoadBuiltinRules()
		if err != nil {
			return fmt.Errorf("loading builtin rules: %w", err)
		}
	}

	switch outputFormat {
	case "json":
		return outputRulesJSON(cmd, defs)
	case "table":
		return outputRulesTable(cmd, defs)
	default:
		return fmt.Errorf("unknown output format: %s", outputFormat)
	}
}

func runRulesVerify(cmd *cobra.Command, args []string) error {
	kind, err := types.ParseKind(verifyKind)
	if err != nil {
		return err
	}

	cases, err := rule.LoadTestCasesFile(verifyTests)
	if err != nil {
		return err
	}

	parser, err := newParser(newLogger(cmd))
	if err != nil {
		return err
	}

	mismatches, err := parser.Verify(kind, cases)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range mismatches {
		fmt.Fprintf(out, "FAIL %s\n     %s\n", m, m.UserAgent)
	}

	failed := failedCases(mismatches)
	fmt.Fprintf(out, "%s: %d cases, %d passed, %d failed\n", kind, len(cases), len(cases)-failed, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d %s cases failed", failed, len(cases), kind)
	}
	return nil
}

func failedCases(mismatches []uaparser.Mismatch) int {
	seen := make(map[int]bool)
	for _, m := range mismatches {
		seen[m.Case] = true
	}
	return len(seen)
}

// =============================================================================
// HELPERS
// =============================================================================

func outputRulesJSON(cmd *cobra.Command, defs *types.Definitions) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(defs)
}

func outputRulesTable(cmd *cobra.Command, defs *types.Definitions) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Kind\tIndex\tPattern\tReplacements\n")
	fmt.Fprintf(w, "----\t-----\t-------\t------------\n")

	for i, d := range defs.UserAgents {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", types.KindUserAgent, i, d.Regex,
			replacements([]string{"family", "v1", "v2", "v3", "v4"}, d.Templates()))
	}
	for i, d := range defs.OS {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", types.KindOS, i, d.Regex,
			replacements([]string{"os", "os_v1", "os_v2", "os_v3", "os_v4"}, d.Templates()))
	}
	for i, d := range defs.Devices {
		pattern := d.Regex
		if d.RegexFlag != "" {
			pattern += " (" + d.RegexFlag + ")"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", types.KindDevice, i, pattern,
			replacements([]string{"device", "brand", "model"}, d.Templates()))
	}

	fmt.Fprintf(w, "\nTotal: %d user_agent, %d os, %d device\n",
		defs.Count(types.KindUserAgent), defs.Count(types.KindOS), defs.Count(types.KindDevice))

	return nil
}

// replacements renders the templates that are set as name=value pairs.
func replacements(names []string, templates []*string) string {
	var parts []string
	for i, t := range templates {
		if t == nil || i >= len(names) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%q", names[i], *t))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
