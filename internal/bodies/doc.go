// Package bodies holds the compiled-in table of celestial bodies shown by the
// simulation: one star and the eight planets.
//
// The table is read-only. Every accessor returns copies, so callers can never
// mutate the registry:
//
//   - [All]: every body in display order (Sun first)
//   - [Planets]: the orbiting bodies only
//   - [Lookup]: a single body by name
//
// Sizes and distances are scene units, not kilometres or AU; angular speeds are
// radians per second of simulation time.
package bodies
