// Package instrument contains core domain types shared by the SCPI wrapper
// and the gateway.
//
// It defines Identity (the parsed *IDN? answer), Actor (who sent a command)
// and State (what the gateway last did) with Clone helpers to avoid leaking
// internal references.
package instrument
