// Package finance keeps a personal finance book: income and expenses, and a
// small stock portfolio funded by what is left of them.
//
// The book is made of three lists:
//   - Categories: the labels offered for incomes and expenses. Editing them
//     never rewrites history, recorded transactions keep their label.
//   - Ledger: the append-only list of income and expense transactions.
//   - Portfolio: the append-only list of buy and sell actions. Holdings are
//     derived from it using weighted average costing, and the profit/loss of a
//     sell is frozen when it is recorded.
//
// Every derived figure (balances, breakdowns, trends, holdings) is computed
// from these lists on each call, nothing is cached.
//
// A Book is a value. Changes are made through reducer methods that return
// the new Book, failed changes return the receiver unchanged so that the
// lists only ever contain valid entries.
//
// The whole Book is persisted as a single JSON snapshot document, see
// EncodeSnapshot and DecodeSnapshot.
//
// This package serves as the foundational logic for the `fin` command-line
// tool.
package finance
