// Package pnl computes portfolio profit and loss.
//
// Two independent calculations live here: valuing open positions against
// fresh market quotes (unrealized), and reconciling settlements with fill
// history into a realized ledger. Both are pure functions over fetched data;
// nothing in this package performs I/O.
package pnl
