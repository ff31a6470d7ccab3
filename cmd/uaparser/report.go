package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/praetorian-inc/uaparser/pkg/store"
	"github.com/praetorian-inc/uaparser/pkg/types"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	reportDatastore string
	reportFormat    string
	reportColor     string
	reportKind      string
	reportTop       int
)

// styles holds color formatters for the human report
type styles struct {
	heading *color.Color
	family  *color.Color
	count   *color.Color
	other   *color.Color
}

// newStyles creates color formatters for report output.
// enabled=false respects --color never and the NO_COLOR env var.
func newStyles(enabled bool) *styles {
	s := &styles{
		heading: color.New(color.Bold, color.FgHiWhite),
		family:  color.New(color.Bold, color.FgHiBlue),
		count:   color.New(color.FgHiGreen),
		other:   color.New(color.FgYellow),
	}

	if !enabled {
		s.heading.DisableColor()
		s.family.DisableColor()
		s.count.DisableColor()
		s.other.DisableColor()
	}

	return s
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize recorded parse results",
	Long:  "Read observations from a datastore and output family counts per rule kind",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "uaparser.db", "Path to datastore file")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().StringVar(&reportKind, "kind", "all", "Family kind to report: all, ua, os, device")
	reportCmd.Flags().IntVar(&reportTop, "top", 0, "Show only the N most frequent families per kind (0 shows all)")
}

// familyReport is the JSON form of one kind's counts.
type familyReport struct {
	Kind     types.Kind          `json:"kind"`
	Families []types.FamilyCount `json:"families"`
}

type report struct {
	Total int64          `json:"total"`
	Kinds []familyReport `json:"kinds"`
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportDatastore == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}

	if _, err := os.Stat(reportDatastore); err != nil {
		return fmt.Errorf("datastore not found: %s", reportDatastore)
	}

	kinds, err := reportKinds(reportKind)
	if err != nil {
		return err
	}

	s, err := store.New(store.Config{Path: reportDatastore})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	r, err := buildReport(s, kinds, reportTop)
	if err != nil {
		return err
	}

	switch reportFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	case "human":
		return outputReportHuman(cmd, r)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func reportKinds(s string) ([]types.Kind, error) {
	if s == "" || s == "all" {
		return types.Kinds, nil
	}
	kind, err := types.ParseKind(s)
	if err != nil {
		return nil, err
	}
	return []types.Kind{kind}, nil
}

func buildReport(s store.Store, kinds []types.Kind, top int) (*report, error) {
	total, err := s.Total()
	if err != nil {
		return nil, fmt.Errorf("counting observations: %w", err)
	}

	r := &report{Total: total}
	for _, kind := range kinds {
		counts, err := s.FamilyCounts(kind)
		if err != nil {
			return nil, fmt.Errorf("counting %s families: %w", kind, err)
		}
		if top > 0 && len(counts) > top {
			counts = counts[:top]
		}
		if counts == nil {
			counts = []types.FamilyCount{}
		}
		r.Kinds = append(r.Kinds, familyReport{Kind: kind, Families: counts})
	}
	return r, nil
}

func colorEnabled() bool {
	switch reportColor {
	case "always":
		return true
	case "never":
		return false
	default:
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			return false
		}
		return true
	}
}

func outputReportHuman(cmd *cobra.Command, r *report) error {
	out := cmd.OutOrStdout()
	st := newStyles(colorEnabled())

	fmt.Fprintf(out, "%s %s\n", st.heading.Sprint("Datastore:"), reportDatastore)
	fmt.Fprintf(out, "%s %s\n", st.heading.Sprint("User agents seen:"), st.count.Sprint(r.Total))

	for _, fr := range r.Kinds {
		fmt.Fprintf(out, "\n%s\n", st.heading.Sprintf("%s families", fr.Kind))
		if len(fr.Families) == 0 {
			fmt.Fprintln(out, "  (none)")
			continue
		}
		for _, fc := range fr.Families {
			name := st.family.Sprint(fc.Family)
			if fc.Family == types.OtherFamily {
				name = st.other.Sprint(fc.Family)
			}
			fmt.Fprintf(out, "  %8s  %5.1f%%  %s\n", st.count.Sprint(fc.Count), percent(fc.Count, r.Total), name)
		}
	}

	return nil
}

func percent(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
