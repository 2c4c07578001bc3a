// Package modbuild is the external modifier-builder contract: it
// translates compiled effect records — either the legacy expression-tree
// pair (pre-expression/post-expression) or the newer YAML description —
// into []catalog.Modifier, reporting a build status of ok_full,
// ok_partial, or error depending on how many of an effect's declared
// modifiers survived compilation.
//
// Nothing here is consulted by pkg/fit at evaluation time; it runs once,
// ahead of any Fit, to turn static data into catalog.Effect/catalog.Type
// records.
package modbuild
