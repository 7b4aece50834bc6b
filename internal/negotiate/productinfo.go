// Package negotiate implements capability negotiation (spec §4.5): the
// A000/A001 product inquiry and, on A001-capable devices, the runtime
// Protocol Array discovery that supersedes the static device catalog.
package negotiate

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ProductInfo is the decoded Product Data Reply (spec §3): immutable once
// received.
type ProductInfo struct {
	ProductID       uint16
	SoftwareVersion uint16 // stored as hundredths, e.g. 230 means 2.30
	Descriptions    []string
}

// DecodeProductInfo decodes a Product Data Reply payload: product_id,
// software_version, then one or more NUL-terminated description strings
// filling the remainder of the payload.
func DecodeProductInfo(payload []byte) (ProductInfo, error) {
	if len(payload) < 4 {
		return ProductInfo{}, fmt.Errorf("negotiate: product data reply too short: %d bytes", len(payload))
	}
	info := ProductInfo{
		ProductID:       binary.LittleEndian.Uint16(payload[0:2]),
		SoftwareVersion: binary.LittleEndian.Uint16(payload[2:4]),
	}
	rest := payload[4:]
	for len(rest) > 0 {
		i := bytes.IndexByte(rest, 0)
		if i < 0 {
			info.Descriptions = append(info.Descriptions, string(rest))
			break
		}
		if i > 0 {
			info.Descriptions = append(info.Descriptions, string(rest[:i]))
		}
		rest = rest[i+1:]
	}
	return info, nil
}

// EncodeProductInfo encodes info as a Product Data Reply payload. Used by
// tests that simulate a device.
func EncodeProductInfo(info ProductInfo) []byte {
	var buf bytes.Buffer
	var head [4]byte
	binary.LittleEndian.PutUint16(head[0:2], info.ProductID)
	binary.LittleEndian.PutUint16(head[2:4], info.SoftwareVersion)
	buf.Write(head[:])
	for _, d := range info.Descriptions {
		buf.WriteString(d)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// DecodeExtendedProductData decodes the optional Extended Product Data
// packet (packet_id 248): additional NUL-terminated descriptive strings
// appended to ProductInfo.Descriptions by the caller.
func DecodeExtendedProductData(payload []byte) []string {
	var out []string
	rest := payload
	for len(rest) > 0 {
		i := bytes.IndexByte(rest, 0)
		if i < 0 {
			out = append(out, string(rest))
			break
		}
		if i > 0 {
			out = append(out, string(rest[:i]))
		}
		rest = rest[i+1:]
	}
	return out
}
