// Package monitor polls an instrument query on an interval and prints
// timestamped values until the context ends.
package monitor
