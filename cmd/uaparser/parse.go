package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/praetorian-inc/uaparser/pkg/serve"
	"github.com/praetorian-inc/uaparser/pkg/store"
	"github.com/praetorian-inc/uaparser/pkg/types"
	"github.com/spf13/cobra"
)

// maxLineSize bounds a single user-agent line.
const maxLineSize = 1 << 20

var (
	parseFormat    string
	parseDatastore string
	parseUserAgent string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse user-agent strings",
	Long: `Parse one user-agent string per input line and print the user agent,
os and device records for each.

Input is read from the given file, or from stdin when the argument is "-"
or omitted. Blank lines are skipped. With --datastore, every parsed string
is also recorded for later reporting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "json", "Output format: json, table")
	parseCmd.Flags().StringVar(&parseDatastore, "datastore", "", "Record observations in this database file")
	parseCmd.Flags().StringVar(&parseUserAgent, "user-agent", "", "Parse this string instead of reading input")
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseFormat != "json" && parseFormat != "table" {
		return fmt.Errorf("unknown output format: %s", parseFormat)
	}

	logger := newLogger(cmd)
	parser, err := newParser(logger)
	if err != nil {
		return err
	}

	var s store.Store
	if parseDatastore != "" {
		s, err = store.New(store.Config{Path: parseDatastore})
		if err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
		defer s.Close()
	}

	var lines []string
	if parseUserAgent != "" {
		lines = []string{parseUserAgent}
	} else {
		in, closeFn, err := openInput(cmd, args)
		if err != nil {
			return err
		}
		defer closeFn()

		lines, err = readLines(in)
		if err != nil {
			return err
		}
	}

	results := make([]serve.ParseResult, 0, len(lines))
	for _, line := range lines {
		client := parser.Parse(line)
		results = append(results, serve.ParseResult{String: line, Client: client})

		if s != nil {
			if err := s.AddObservation(&types.Observation{UserAgent: line, Client: client}); err != nil {
				return fmt.Errorf("recording observation: %w", err)
			}
		}
	}
	logger.Debug("parsed input", "lines", len(results), "datastore", parseDatastore)

	switch parseFormat {
	case "table":
		return outputParseTable(cmd, results)
	default:
		return outputParseJSON(cmd, results)
	}
}

// openInput resolves the optional file argument; "-" and no argument mean stdin.
func openInput(cmd *cobra.Command, args []string) (io.Reader, func() error, error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, f.Close, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

// outputParseJSON writes one JSON object per line.
func outputParseJSON(cmd *cobra.Command, results []serve.ParseResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	for _, r := range results {
		if err := encoder.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func outputParseTable(cmd *cobra.Command, results []serve.ParseResult) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "User Agent\tOS\tDevice\tBrand\tModel\n")
	fmt.Fprintf(w, "----------\t--\t------\t-----\t-----\n")

	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.UserAgent,
			r.OS,
			r.Device.Family,
			dash(r.Device.Brand),
			dash(r.Device.Model),
		)
	}

	return nil
}

func dash(s *string) string {
	if v := types.Deref(s); v != "" {
		return v
	}
	return "-"
}

