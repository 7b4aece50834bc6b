package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/basincreek/gogarmin/internal/monitoring"
	"github.com/basincreek/gogarmin/internal/protoerr"
)

// TransferBinding names the application protocol and datatype schemas bound
// to one logical role (spec §3 ProtocolSet).
type TransferBinding struct {
	Proto     string   `json:"proto"`
	Datatypes []string `json:"datatypes"`
}

// Entry is one device catalog row: a product_id/software_version range
// mapping to a link protocol, command protocol, and the transfer roles the
// device is assumed to support (spec §4.4).
type Entry struct {
	ProductIDMin       uint16
	ProductIDMax       uint16
	SoftwareVersionMin uint16
	SoftwareVersionMax uint16
	LinkProtocol       string
	CommandProtocol    string
	Transfers          map[string]TransferBinding
	PhysicalHint       string
}

// defaultMinimalEntry is returned for very old product ids absent from the
// table: L001 + A010 + waypoint transfer only (spec §4.4).
func defaultMinimalEntry(productID uint16) Entry {
	return Entry{
		ProductIDMin:    productID,
		ProductIDMax:    productID,
		LinkProtocol:    "L001",
		CommandProtocol: "A010",
		Transfers: map[string]TransferBinding{
			"waypoint_transfer": {Proto: "A100", Datatypes: []string{"D100"}},
		},
		PhysicalHint: "serial",
	}
}

// veryOldProductIDCutoff is the product_id boundary below which an absent
// catalog entry still yields the default minimal stack rather than
// UnknownDevice (spec §4.4): the earliest handheld units predate the
// catalog's range coverage but are known to speak at least L001/A010/D100.
const veryOldProductIDCutoff = 20

// Lookup returns the first catalog entry whose product_id and
// software_version ranges both contain the given values. When the table
// holds more than one matching entry, the first (lowest row id) is
// authoritative and a warning is logged (spec §9 open question). Absent any
// match, product ids below veryOldProductIDCutoff get the default minimal
// stack; anything else is UnknownDevice.
func (db *DB) Lookup(productID, softwareVersion uint16) (Entry, error) {
	rows, err := db.Query(
		`SELECT product_id_min, product_id_max, software_version_min, software_version_max,
		        link_protocol, command_protocol, transfers_json, physical_hint
		 FROM catalog_entries
		 WHERE ? BETWEEN product_id_min AND product_id_max
		   AND ? BETWEEN software_version_min AND software_version_max
		 ORDER BY id ASC`,
		productID, softwareVersion,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("catalog: lookup query: %w", err)
	}
	defer rows.Close()

	var matches []Entry
	for rows.Next() {
		var e Entry
		var transfersJSON string
		if err := rows.Scan(&e.ProductIDMin, &e.ProductIDMax, &e.SoftwareVersionMin, &e.SoftwareVersionMax,
			&e.LinkProtocol, &e.CommandProtocol, &transfersJSON, &e.PhysicalHint); err != nil {
			return Entry{}, fmt.Errorf("catalog: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(transfersJSON), &e.Transfers); err != nil {
			return Entry{}, fmt.Errorf("catalog: decode transfers for product %d-%d: %w", e.ProductIDMin, e.ProductIDMax, err)
		}
		matches = append(matches, e)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, fmt.Errorf("catalog: row iteration: %w", err)
	}

	if len(matches) > 1 {
		monitoring.Logf("catalog: ambiguous match for product_id=%d software_version=%d (%d overlapping entries); using the first", productID, softwareVersion, len(matches))
	}
	if len(matches) > 0 {
		return matches[0], nil
	}

	if productID < veryOldProductIDCutoff {
		return defaultMinimalEntry(productID), nil
	}

	return Entry{}, &protoerr.UnknownDevice{ProductID: productID, SoftwareVersion: softwareVersion}
}
