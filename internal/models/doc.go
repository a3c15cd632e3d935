// Package models defines the core domain models for the Patungan backend.
//
// # Models
//
//   - User: registered account, referenced by member ids everywhere else
//   - Group: a circle of users who split bills together
//   - Bill: one receipt with line items, a payer and adjustments
//   - BillItem: one line on a receipt with its assignee set
//   - Invoice / DebtRecord: the settled "who owes whom" snapshot
//
// # Design principles
//
//  1. All monetary fields are int64 amounts in the smallest currency unit
//     (whole Rupiah). Floats never touch money.
//  2. Relationships use ID strings instead of pointers, so models marshal
//     cleanly and avoid circular references.
//  3. Bill mutations (ToggleAssignment, SplitEqually) return an updated
//     copy instead of mutating in place, keeping the engine testable
//     without any shared state.
//  4. A Bill moves Draft → Assigned → Settled and never backwards; Settled
//     bills are frozen into an Invoice and excluded from later ones.
package models
