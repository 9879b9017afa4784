package pb

// Metadata keys carrying the caller identity on every InstrumentService call.
const (
	MetadataActorHostname = "x-actor-hostname"
	MetadataActorUsername = "x-actor-username"
)

// Field names of the Identify and GetState structs.
const (
	FieldResource        = "resource"
	FieldIdentity        = "identity"
	FieldReadTermination = "read_termination"
	FieldTimestamp       = "timestamp"
	FieldLastActor       = "last_actor"
	FieldHostname        = "hostname"
	FieldUsername        = "username"
	FieldLastCommand     = "last_command"
	FieldManufacturer    = "manufacturer"
	FieldModel           = "model"
	FieldSerial          = "serial"
	FieldFirmware        = "firmware"
)
