package negotiate

import (
	"fmt"
	"strconv"

	"github.com/basincreek/gogarmin/internal/protoerr"
)

// ProtocolTuple is one (tag, number) entry in a device's Protocol Array
// (spec §3): tag is 'P', 'L', 'A', or 'D'.
type ProtocolTuple struct {
	Tag    byte
	Number uint16
}

// DecodeProtocolArray parses a Protocol Array payload: a run of 4-byte ASCII
// groups, each one letter tag followed by a 3-digit zero-padded number
// (e.g. "A100"), packed with no separators or terminator.
func DecodeProtocolArray(payload []byte) ([]ProtocolTuple, error) {
	if len(payload)%4 != 0 {
		return nil, fmt.Errorf("negotiate: protocol array payload length %d is not a multiple of 4", len(payload))
	}
	tuples := make([]ProtocolTuple, 0, len(payload)/4)
	for i := 0; i < len(payload); i += 4 {
		tag := payload[i]
		if tag != 'P' && tag != 'L' && tag != 'A' && tag != 'D' {
			return nil, fmt.Errorf("negotiate: unrecognized protocol tag %q at offset %d", tag, i)
		}
		num, err := strconv.Atoi(string(payload[i+1 : i+4]))
		if err != nil {
			return nil, fmt.Errorf("negotiate: malformed protocol number %q at offset %d: %w", payload[i+1:i+4], i, err)
		}
		tuples = append(tuples, ProtocolTuple{Tag: tag, Number: uint16(num)})
	}
	return tuples, nil
}

// EncodeProtocolArray serialises tuples back to wire form. Used by tests
// building fixtures and by simulated-device test harnesses.
func EncodeProtocolArray(tuples []ProtocolTuple) []byte {
	out := make([]byte, 0, len(tuples)*4)
	for _, t := range tuples {
		out = append(out, t.Tag)
		out = append(out, []byte(fmt.Sprintf("%03d", t.Number))...)
	}
	return out
}

// RoleBinding names the application protocol and datatype schemas resolved
// for one logical role.
type RoleBinding struct {
	Proto     string
	Datatypes []string
}

// ProtocolSet is the resolved binding after negotiation (spec §3): link and
// command protocol plus a role-to-binding map. Every role the caller
// invokes must resolve here or the call fails with ProtocolNotSupported.
type ProtocolSet struct {
	LinkProtocol    string
	CommandProtocol string
	Roles           map[string]RoleBinding
}

// Resolve returns the binding for role, or ProtocolNotSupported if the set
// has no entry for it (spec §3, §7).
func (ps ProtocolSet) Resolve(role string) (RoleBinding, error) {
	b, ok := ps.Roles[role]
	if !ok {
		return RoleBinding{}, &protoerr.ProtocolNotSupported{Role: role}
	}
	return b, nil
}

// commandProtoNumbers are the application protocol numbers that represent
// the command protocol itself (A010/A011) rather than a transfer role.
var commandProtoNumbers = map[uint16]bool{10: true, 11: true}

// roleForProto maps an application protocol number to the logical role it
// represents (spec §4.5's grouping rule). Image/screenshot transfer protocol
// numbers are not specified in the published protocol numbering the way the
// fitness and navigation families are; this implementation assigns them the
// conventional A900 (image) and A901 (screenshot) slots used by this
// library's test fixtures and documents that choice in the design notes.
func roleForProto(num uint16) (role string, ok bool) {
	switch {
	case num == 100:
		return "waypoint_transfer", true
	case num == 200 || num == 201:
		return "route_transfer", true
	case num == 300 || num == 301 || num == 302:
		return "track_transfer", true
	case num == 400:
		return "proximity", true
	case num == 500:
		return "almanac", true
	case num == 600 || num == 601:
		return "datetime", true
	case num == 650:
		return "flightbook", true
	case num == 700:
		return "position_init", true
	case num == 800:
		return "pvt", true
	case num == 906:
		return "laps", true
	case num == 1000:
		return "runs", true
	case num >= 1002 && num <= 1009:
		return "workouts", true
	case num == 1012:
		return "courses", true
	case num == 900:
		return "image_transfer", true
	case num == 901:
		return "screenshot_transfer", true
	default:
		return "", false
	}
}

// GroupProtocolArray implements the Protocol Array grouping rule (spec §3,
// §4.5, §8): tuples group into stacks, each starting with 'P' then one 'L',
// then one or more 'A' entries; A010/A011 is the command protocol, every
// other 'A' opens a role that consumes the 'D' entries immediately following
// it up to the next 'A' or 'P'.
func GroupProtocolArray(tuples []ProtocolTuple) (ProtocolSet, error) {
	ps := ProtocolSet{Roles: make(map[string]RoleBinding)}

	i := 0
	for i < len(tuples) {
		t := tuples[i]
		switch t.Tag {
		case 'P':
			i++
		case 'L':
			ps.LinkProtocol = fmt.Sprintf("L%03d", t.Number)
			i++
		case 'A':
			if commandProtoNumbers[t.Number] {
				ps.CommandProtocol = fmt.Sprintf("A%03d", t.Number)
				i++
				continue
			}
			protoName := fmt.Sprintf("A%03d", t.Number)
			role, known := roleForProto(t.Number)
			i++
			var datatypes []string
			for i < len(tuples) && tuples[i].Tag == 'D' {
				datatypes = append(datatypes, fmt.Sprintf("D%03d", tuples[i].Number))
				i++
			}
			if known {
				ps.Roles[role] = RoleBinding{Proto: protoName, Datatypes: datatypes}
			}
		case 'D':
			return ProtocolSet{}, &protoerr.ProtocolViolation{Diagnostic: "datatype tuple with no preceding application protocol"}
		default:
			return ProtocolSet{}, fmt.Errorf("negotiate: unexpected tag %q", t.Tag)
		}
	}
	return ps, nil
}
