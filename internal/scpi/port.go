package scpi

import (
	"fmt"
	"regexp"
	"strings"
)

// goosWindows selects the Windows port rules.
const goosWindows = "windows"

// Port prefixes handled by both rule sets.
var busPrefixes = []string{"USB", "GPIB", "TCPIP"}

// ResourcePattern turns a port into a resource name pattern using the rules of goos.
//
// USB, GPIB and TCPIP ports ending in INSTR or SOCKET are full resource names;
// other ones become "<port>::.*::INSTR". On Windows "COMn" becomes
// "ASRL((?:COM)?n)::INSTR" and other ports are invalid. Elsewhere any other
// port is a serial device path: "ttyUSB0" and "/dev/ttyUSB0" become
// "ASRL/ttyUSB0::INSTR" and "ASRL/dev/ttyUSB0::INSTR".
func ResourcePattern(port, goos string) (string, error) {
	name := strings.ToUpper(port)

	if hasAnyPrefix(name, busPrefixes) {
		if strings.HasSuffix(name, "INSTR") || strings.HasSuffix(name, "SOCKET") {
			return port, nil
		}

		return port + "::.*::INSTR", nil
	}

	if goos == goosWindows {
		if !strings.HasPrefix(name, "COM") {
			return "", fmt.Errorf("%w: %q must start with one of COM, USB, GPIB, TCPIP", ErrInvalidPort, port)
		}

		return "ASRL((?:COM)?" + port[len("COM"):] + ")::INSTR", nil
	}

	if port == "" {
		return "", fmt.Errorf("%w: empty port", ErrInvalidPort)
	}

	pattern := port
	if !strings.HasPrefix(pattern, "ASRL") {
		if strings.HasPrefix(pattern, "/") {
			pattern = "ASRL" + pattern
		} else {
			pattern = "ASRL/" + pattern
		}
	}

	if !strings.HasSuffix(pattern, "::INSTR") {
		pattern += "::INSTR"
	}

	return pattern, nil
}

// MatchResource returns the text of the single resource matched by pattern.
// Matching is case-insensitive and anchored at the start of each name.
func MatchResource(pattern string, resources []string) (string, error) {
	re, err := regexp.Compile("(?i)^(?:" + pattern + ")")
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a valid pattern: %w", ErrInvalidPort, pattern, err)
	}

	var matches []string

	for _, res := range resources {
		if loc := re.FindStringIndex(res); loc != nil {
			matches = append(matches, res[loc[0]:loc[1]])
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w %s", ErrNoMatchingResource, pattern)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w matching %s: %s", ErrMultipleResources, pattern, strings.Join(matches, ", "))
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}
