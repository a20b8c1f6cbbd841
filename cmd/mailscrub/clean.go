package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fernwehlabs/mailscrub/internal/decode"
	"github.com/fernwehlabs/mailscrub/pkg/cleaner"
)

var (
	cleanDeobfuscate   bool
	cleanRepairDomains bool
	cleanSortByDomain  bool
	cleanOutput        string
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Extract emails from a file or stdin without the bot",
	Long: `Extract, normalize and deduplicate email addresses from a local file
or stdin, writing the cleaned list to stdout and the summary to stderr.

Examples:
  # Clean a CSV export
  mailscrub clean leads.csv

  # Clean from stdin
  pbpaste | mailscrub clean -

  # Repair common typos of well-known mail domains
  mailscrub clean --repair-domains leads.xlsx

  # Write the cleaned list to a file
  mailscrub clean -o cleaned.txt leads.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDeobfuscate, "deobfuscate", false, "rewrite spelled-out addresses like a [at] b [dot] com")
	cleanCmd.Flags().BoolVar(&cleanRepairDomains, "repair-domains", false, "fix common typos of well-known mail domains")
	cleanCmd.Flags().BoolVar(&cleanSortByDomain, "sort-by-domain", false, "sort the output by domain, then local part")
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "write the cleaned list to this file instead of stdout")
}

func runClean(cmd *cobra.Command, args []string) error {
	name, data, err := readInput(args)
	if err != nil {
		return err
	}

	opts := cleaner.Options{
		Deobfuscate:   cleanDeobfuscate,
		RepairDomains: cleanRepairDomains,
		SortByDomain:  cleanSortByDomain,
	}

	if cleanOutput != "" {
		f, err := os.Create(cleanOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", cleanOutput, err)
		}
		if err := clean(name, data, opts, f, os.Stderr); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return clean(name, data, opts, os.Stdout, os.Stderr)
}

// readInput loads the positional file argument, or stdin for "-" or no
// argument. Stdin input gets an empty name so the format is sniffed from
// the content.
func readInput(args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("reading stdin: %w", err)
		}
		return "", data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return args[0], data, nil
}

// clean runs the pipeline and writes the cleaned list to out and the
// summary to errOut.
func clean(name string, data []byte, opts cleaner.Options, out, errOut io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("no content to clean")
	}

	in, err := decode.File(name, data)
	if err != nil {
		return err
	}

	res := cleaner.Clean(in, opts)
	if _, err := out.Write(res.File()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Fprintf(errOut, "[mailscrub] %s\n", res.Summary())
	return nil
}
