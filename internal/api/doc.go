// Package api provides the authenticated Kalshi REST API client.
//
// REST endpoints:
//   - Production: https://api.elections.kalshi.com/trade-api/v2
//   - Demo: https://demo-api.kalshi.co/trade-api/v2
//
// Every request carries KALSHI-ACCESS-KEY, KALSHI-ACCESS-TIMESTAMP and
// KALSHI-ACCESS-SIGNATURE headers generated per attempt. Failures are
// normalized into *APIError; rate limiting and server errors retry under
// separate budgets, authentication failures never retry.
//
// The client issues requests sequentially over one shared connection pool.
// It is not designed for concurrent use by multiple goroutines.
package api
