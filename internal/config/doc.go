// Package config defines the settings used by the scpi commands and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds the instrument connection, the gateway listen address
// and state file, and a timeout shared by commands and gateway calls:
//
//	instrument:
//	  port: /dev/ttyUSB0
//	  backend: "@sim"
//	  handshake: OK
//	  params:
//	    timeout: 500
//	    read_termination: '\r\n'
//	gateway:
//	  listen_address: ":5050"
//	timeout: 5s
package config
