package main

import (
	"context"
	"fmt"

	"github.com/evefit/fitcalc/internal/config"
	"github.com/evefit/fitcalc/pkg/catalog"
	"github.com/evefit/fitcalc/pkg/catalogstore"
)

// loadCatalog resolves cfg.Catalog's backend (local file or S3) and
// builds the immutable catalog.Catalog every subcommand reads from.
func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceS3:
		loader, err := catalogstore.NewS3Loader(ctx, cfg.Catalog.Region)
		if err != nil {
			return nil, err
		}
		return loader.Load(ctx, catalogstore.S3Source{
			Bucket: cfg.Catalog.Bucket,
			Key:    cfg.Catalog.Key,
			Region: cfg.Catalog.Region,
		})
	case config.CatalogSourceFile, "":
		return catalogstore.LoadFile(cfg.Catalog.Path)
	default:
		return nil, fmt.Errorf("fitcalc: unknown catalog source %q", cfg.Catalog.Source)
	}
}
