// Package catalogstore loads a pkg/catalog.Catalog from a bundle of JSON
// documents (types, effects, attribute metadata) stored either on local
// disk or in an S3 bucket. The core engine (pkg/fit, pkg/catalog) never
// imports it and never performs I/O of its own.
package catalogstore
