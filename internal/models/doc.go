// Package models defines the core domain records for paperbroker.
//
// The three persisted records mirror the store's tables:
//   - User: a registered account with a virtual cash balance
//   - Symbol: a tradable stock, created lazily on first trade
//   - Transaction: one signed entry in the append-only trade ledger
//
// Holdings are intentionally not a persisted model: the ledger is the
// sole source of truth and net share counts are derived from it on
// every read. Monetary fields use shopspring decimals throughout so
// cash and price arithmetic never passes through floats.
package models
