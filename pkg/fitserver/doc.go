// Package fitserver exposes a small REST + WebSocket surface over the
// fit-level API: create fits, place holders, transition their state, read
// an attribute, and run Fit.Validate. The WebSocket
// connection pushes an "invalidated" event naming the holder/attribute
// pairs evicted by the most recent mutation, letting a connected client
// know which previously-read values are stale without polling. This is a
// demo/integration surface around the engine, not a gameplay network
// protocol: each connection drives its own *fit.Fit by ID, and no
// computation state is shared between fits.
package fitserver
