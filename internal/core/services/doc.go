// Package services implements the driving port interfaces.
// Services contain the core extraction logic: thread resolution, pair
// assembly, ordering and numbering. They orchestrate calls to driven
// ports (adapters).
//
// Services are pure Go with no CGO.
package services
