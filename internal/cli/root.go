package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the gpa-calculator command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gpa-calculator",
		Short: "Credit-weighted GPA calculator on the BUKC grade scale",
		Long: `Collects course grades and credit hours, then computes a
credit-weighted GPA. Run "serve" for the HTTP form and JSON API,
or "calc" for a one-shot calculation from flags or a CSV file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newCalcCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
