// Package validation checks submitted value trees and reports issues keyed
// by dotted field paths, so renderers can attach them to descriptors.
package validation
