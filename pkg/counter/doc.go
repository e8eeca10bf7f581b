// Package counter implements the bounded integer control used for the
// occupancy field: paired increment/decrement actions that clamp to an
// inclusive range instead of wrapping.
package counter
