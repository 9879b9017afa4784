// Package setter writes a value to an instrument setting and retries until
// the instrument reads the same value back.
package setter
