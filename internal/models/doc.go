// Package models defines the core domain models for SplitPal.
//
// # Aggregates
//
//   - User: a registered account identified by a unique phone number
//   - Group: a named set of members, stored as phone numbers
//   - Transaction: a recorded expense; owns its Split list
//   - Split: the portion of a transaction one member owes the payer
//
// # Read models
//
// TimelineEntry, TimelinePage, TransactionDetail and Dashboard are derived
// views produced by the service layer. They are never persisted.
//
// # Design Principles
//
//  1. Relationships are id strings, never pointers between aggregates
//  2. A Transaction and its Splits are saved and loaded together
//  3. Amounts are integers in the smallest currency unit
//  4. JSON tags define the wire shape used by the RPC transport
package models
