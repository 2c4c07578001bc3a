// Package fitsession hosts an in-process registry of live *fit.Fit
// instances keyed by ID, with idle-LRU eviction, so a process such as
// pkg/fitserver can host more than one fit without leaking memory. It is
// not a persistence layer: evicted fits are simply discarded (spec's
// "no persistence" non-goal applies to fit state, not to this registry's
// bookkeeping).
package fitsession
