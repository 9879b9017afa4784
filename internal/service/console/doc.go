// Package console runs one instrument action and prints the result.
//
// Actions: list, id, query, write, read, reset, init, value, ascii, binary.
package console
