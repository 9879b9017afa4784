package instrument

import "strings"

// identityFields is the number of fields in an IEEE 488.2 *IDN? answer.
const identityFields = 4

// Identity is the answer to *IDN?.
type Identity struct {
	// Manufacturer is the first field.
	Manufacturer string
	// Model is the second field.
	Model string
	// Serial is the third field, often "0" when the vendor omits it.
	Serial string
	// Firmware is the fourth field; extra commas stay inside it.
	Firmware string
}

// ParseIdentity splits a *IDN? answer. Missing fields are left empty.
func ParseIdentity(idn string) Identity {
	parts := strings.SplitN(strings.TrimSpace(idn), ",", identityFields)

	fields := make([]string, identityFields)
	for i, part := range parts {
		fields[i] = strings.TrimSpace(part)
	}

	return Identity{
		Manufacturer: fields[0],
		Model:        fields[1],
		Serial:       fields[2],
		Firmware:     fields[3],
	}
}

// String renders the identity in *IDN? form.
func (i Identity) String() string {
	return strings.Join([]string{i.Manufacturer, i.Model, i.Serial, i.Firmware}, ",")
}

// IsZero reports whether no field is set.
func (i Identity) IsZero() bool {
	return i == Identity{}
}
