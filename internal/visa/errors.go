package visa

import "errors"

var (
	// ErrTimeout is returned when a read does not complete before the deadline.
	ErrTimeout = errors.New("timeout expired before operation completed")
	// ErrClosed is returned by I/O on a resource whose session is closed.
	ErrClosed = errors.New("resource session is closed")
	// ErrResourceNotFound is returned when a backend has no such resource.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrUnsupportedResource is returned for resource classes a backend cannot open.
	ErrUnsupportedResource = errors.New("resource type is not supported by backend")
	// ErrInvalidResourceName is returned when a resource name cannot be parsed.
	ErrInvalidResourceName = errors.New("invalid resource name")
	// ErrUnknownParam is returned by Params.Set for unknown attribute names.
	ErrUnknownParam = errors.New("unknown resource parameter")
	// ErrInvalidBlock is returned for malformed IEEE 488.2 binary blocks.
	ErrInvalidBlock = errors.New("invalid IEEE 488.2 block")
	// ErrReadTooLarge is returned for reads above MaxReadSize.
	ErrReadTooLarge = errors.New("read size exceeds limit")
	// ErrUnknownDatatype is returned for unsupported binary datatypes.
	ErrUnknownDatatype = errors.New("unknown binary datatype")
)
