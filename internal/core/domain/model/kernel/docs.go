// Package kernel holds the shared value objects of the order marketplace domain:
// identifiers and actor roles. These types carry no lifecycle of their own and are
// used by every aggregate and domain service.
package kernel
