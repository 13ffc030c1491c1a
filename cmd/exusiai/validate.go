package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zojize/exusiai-bot/internal/validator"
	"github.com/zojize/exusiai-bot/pkg/adapters/file"
	"github.com/zojize/exusiai-bot/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the catalog for consistency",
	Long:  `Loads every catalog file, validates operators and banners, and builds each banner's tree.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			dir = args[0]
		}

		if err := runValidate(cmd, dir); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Catalog is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, dir string) error {
	cat, err := file.NewLoader(dir).Load(cmd.Context())
	if err != nil {
		for _, verr := range domain.ValidationErrors(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", verr)
		}
		return err
	}

	report, err := validator.ValidateCatalog(cat)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d operators, %d banners\n", report.Operators, report.Banners)
	if len(report.Unrecruitable) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Warning: no banner can recruit %s\n", strings.Join(report.Unrecruitable, ", "))
	}
	return nil
}
