package pb

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/easy-scpi/internal/domain/instrument"
)

// IdentityToStruct converts an identity into its struct form.
func IdentityToStruct(identity domain.Identity) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldManufacturer: structpb.NewStringValue(identity.Manufacturer),
		FieldModel:        structpb.NewStringValue(identity.Model),
		FieldSerial:       structpb.NewStringValue(identity.Serial),
		FieldFirmware:     structpb.NewStringValue(identity.Firmware),
	}}
}

// IdentityFromStruct is the inverse of IdentityToStruct; nil yields a zero identity.
func IdentityFromStruct(s *structpb.Struct) domain.Identity {
	fields := s.GetFields()

	return domain.Identity{
		Manufacturer: fields[FieldManufacturer].GetStringValue(),
		Model:        fields[FieldModel].GetStringValue(),
		Serial:       fields[FieldSerial].GetStringValue(),
		Firmware:     fields[FieldFirmware].GetStringValue(),
	}
}

// StateToStruct converts the gateway state into the struct returned by GetState.
// The timestamp is RFC 3339 and omitted when zero, as is a missing actor.
func StateToStruct(state *domain.State) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldResource:    structpb.NewStringValue(state.ResourceID),
		FieldIdentity:    structpb.NewStructValue(IdentityToStruct(state.Identity)),
		FieldLastCommand: structpb.NewStringValue(state.LastCommand),
	}

	if !state.Timestamp.IsZero() {
		fields[FieldTimestamp] = structpb.NewStringValue(state.Timestamp.UTC().Format(time.RFC3339Nano))
	}

	if state.LastActor != nil {
		fields[FieldLastActor] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			FieldHostname: structpb.NewStringValue(state.LastActor.Hostname),
			FieldUsername: structpb.NewStringValue(state.LastActor.Username),
		}})
	}

	return &structpb.Struct{Fields: fields}
}

// StateFromStruct is the inverse of StateToStruct.
func StateFromStruct(s *structpb.Struct) (*domain.State, error) {
	fields := s.GetFields()

	state := &domain.State{
		ResourceID:  fields[FieldResource].GetStringValue(),
		Identity:    IdentityFromStruct(fields[FieldIdentity].GetStructValue()),
		LastCommand: fields[FieldLastCommand].GetStringValue(),
	}

	if raw := fields[FieldTimestamp].GetStringValue(); raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", FieldTimestamp, err)
		}

		state.Timestamp = ts
	}

	if actor := fields[FieldLastActor].GetStructValue(); actor != nil {
		state.LastActor = &domain.Actor{
			Hostname: actor.GetFields()[FieldHostname].GetStringValue(),
			Username: actor.GetFields()[FieldUsername].GetStringValue(),
		}
	}

	return state, nil
}
