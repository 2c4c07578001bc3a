package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evefit/fitcalc/internal/config"
	"github.com/evefit/fitcalc/pkg/fit"
)

func validateCmd() *cobra.Command {
	var (
		configDir string
		fitPath   string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the restriction registers against a fit and print violations",
		Long: `validate loads a catalog and a fit description, runs every
restriction register (e.g. capital-module-requires-capital-hull), and
prints any violations found.

Example:
  fitcalc validate --fit myfit.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			desc, err := loadFitDescription(fitPath)
			if err != nil {
				return err
			}

			f, byID, err := buildFit(cat, desc)
			if err != nil {
				return err
			}

			result := f.Validate()
			if len(result) == 0 {
				success("fit passes all restrictions")
				return nil
			}

			for name, violations := range result {
				warn("restriction %q: %d violation(s)", name, len(violations))
				for _, v := range violations {
					info("  %s: %v", holderLabel(byID, v.Holder), v.Data)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config", ".", "Directory containing fitcalc.json")
	cmd.Flags().StringVar(&fitPath, "fit", "", "Path to a fit description JSON file")
	cmd.MarkFlagRequired("fit")

	return cmd
}

// holderLabel finds the description-file id a holder was given, falling
// back to its type id if it was never labeled.
func holderLabel(byID map[string]*fit.Holder, h *fit.Holder) string {
	for id, candidate := range byID {
		if candidate == h {
			return id
		}
	}
	return fmt.Sprintf("type:%d", h.Type.ID)
}
