// Package scpi talks to instruments with SCPI commands.
//
// An Instrument resolves a port such as "COM3", "/dev/ttyUSB0" or
// "TCPIP0::10.0.0.5::5025::SOCKET" into a VISA resource, keeps one session
// open and serializes every exchange. Hierarchical commands are built with
// Property:
//
//	volt := inst.Property("SOUR").Child("VOLT")
//	resp, err := volt.Call(ctx)       // SOUR:VOLT?
//	_, err = volt.Call(ctx, 5)        // SOUR:VOLT 5
//
// When a handshake is configured, every write and query is followed by a read
// that must return the handshake message.
package scpi
