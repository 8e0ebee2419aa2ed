package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metadown/iso"
	"github.com/lehigh-university-libraries/metadown/transform"
)

var checkVerbose bool

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Check records for the elements the transformation needs",
	Long: `Check reads ISO19139 records and reports any that lack a
gmd:MD_Metadata root, a gmd:fileIdentifier, or a gmd:identificationInfo
container. Nothing is written.

Input defaults to stdin.

Examples:
  metadown check record.xml
  metadown check records/*.xml --verbose
  cat record.xml | metadown check`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Show the file identifier of valid records")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}

	failed := 0
	for _, name := range args {
		problems, id, err := checkFile(name)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", displayName(name), err)
			failed++
			continue
		}
		if len(problems) > 0 {
			fmt.Printf("✗ %s:\n", displayName(name))
			for _, p := range problems {
				fmt.Printf("    %s\n", p)
			}
			failed++
			continue
		}

		if checkVerbose {
			fmt.Printf("✓ Valid: %s (%s)\n", displayName(name), id)
		} else {
			fmt.Printf("✓ Valid: %s\n", displayName(name))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d records failed checks", failed, len(args))
	}
	return nil
}

func checkFile(name string) (problems []string, id string, err error) {
	var input io.Reader
	if name == "-" {
		input = os.Stdin
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, "", fmt.Errorf("opening input file: %w", err)
		}
		defer f.Close()
		input = f
	}

	doc, err := iso.ReadDocument(input)
	if err != nil {
		return nil, "", err
	}

	problems = iso.Check(doc.Root())
	if len(problems) == 0 {
		id, _ = transform.FileIdentifier(doc.Root())
	}
	return problems, id, nil
}

func displayName(name string) string {
	if name == "-" {
		return "stdin"
	}
	return name
}
