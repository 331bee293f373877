// Package model defines the domain types shared across the trading client.
//
// All prices and money amounts are integer cents. Timestamps are
// microseconds since epoch unless noted otherwise.
package model
