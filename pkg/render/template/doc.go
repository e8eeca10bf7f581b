// Package template defines the template seam frontends render screens
// through, independent of the engine behind it.
package template
