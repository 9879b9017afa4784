// Package sim provides simulated instruments for tests and demos.
//
// Devices are described in YAML: fixed dialogues, properties with getter and
// setter templates validated against specs, an error response, an optional
// handshake and end-of-message strings. Resources map VISA names onto
// devices. The built-in definition (default.yaml) backs the "@sim" backend;
// "path/to/file.yaml@sim" loads a custom one.
//
// A minimal definition:
//
//	devices:
//	  dmm:
//	    dialogues:
//	      - q: "*IDN?"
//	        r: "ACME,DMM,1,1.0"
//	    properties:
//	      range:
//	        default: "10"
//	        getter: {q: "RANG?", r: "{:d}"}
//	        setter: {q: "RANG {}"}
//	        specs: {type: int, min: 1, max: 1000}
//	resources:
//	  ASRL1::INSTR:
//	    device: dmm
package sim
