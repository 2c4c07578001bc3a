package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evefit/fitcalc/internal/config"
	"github.com/evefit/fitcalc/pkg/catalog"
)

func computeCmd() *cobra.Command {
	var (
		configDir string
		fitPath   string
		holderID  string
		attrID    int32
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute one holder's effective attribute value",
		Long: `compute loads a catalog and a fit description, then prints the
modified value of a single attribute on one holder — exercising the same
Calculator.Get path the core engine uses for every read.

Example:
  fitcalc compute --fit myfit.json --holder ship --attr 161`,
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

			_, byID, err := buildFit(cat, desc)
			if err != nil {
				return err
			}

			h, ok := byID[holderID]
			if !ok {
				return fmt.Errorf("no holder with id %q in %s", holderID, fitPath)
			}

			v, err := h.Get(catalog.AttrID(attrID))
			if err != nil {
				return err
			}
			info("%s.attr[%d] = %v", holderID, attrID, v)
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config", ".", "Directory containing fitcalc.json")
	cmd.Flags().StringVar(&fitPath, "fit", "", "Path to a fit description JSON file")
	cmd.Flags().StringVar(&holderID, "holder", "ship", `Holder id from the fit description ("ship", "character", or a custom id)`)
	cmd.Flags().Int32Var(&attrID, "attr", 0, "Attribute id to read")
	cmd.MarkFlagRequired("fit")
	cmd.MarkFlagRequired("attr")

	return cmd
}
