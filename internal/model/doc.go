// Package model defines shared data types used across the co-pilot client.
//
// Conventions:
//   - Language and Status are string enums matching the wire protocol values
//   - Insight IDs are uuid.UUID, generated locally on receipt
//   - Snapshots are value copies; callers never share slices with the manager
package model
