package negotiate

import (
	"github.com/basincreek/gogarmin/internal/catalog"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/protoerr"
)

// Result is the outcome of capability negotiation: the device's immutable
// product identity and the resolved protocol set (spec §3, §4.5).
type Result struct {
	Product ProductInfo
	Set     ProtocolSet
}

// Negotiate runs the session-start capability negotiation sequence (spec
// §4.5): Product Data Request/Reply, optional Extended Product Data
// drain, and either a Protocol Array reply (which overrides the static
// catalog) or a catalog lookup keyed by the received ProductInfo.
func Negotiate(l link.Link, cat *catalog.DB) (Result, error) {
	if err := l.Send(link.Packet{ID: datatype.PidProductRequest}); err != nil {
		return Result{}, err
	}

	reply, err := l.Receive()
	if err != nil {
		return Result{}, err
	}
	if reply.ID != datatype.PidProductReply {
		return Result{}, &protoerr.ProtocolViolation{
			PacketID: reply.ID, HavePID: true,
			Diagnostic: "expected product data reply",
		}
	}
	product, err := DecodeProductInfo(reply.Payload)
	if err != nil {
		return Result{}, err
	}

	// Drain any Extended Product Data and, at most, one Protocol Array. A
	// receive error here (read timeout, most commonly) is not fatal: older
	// devices simply have nothing further to say, which is the signal to
	// fall back to the static catalog rather than a Protocol Array.
	var protoArrayPayload []byte
draining:
	for {
		pkt, err := l.Receive()
		if err != nil {
			break draining
		}
		switch pkt.ID {
		case datatype.PidExtendedProduct:
			product.Descriptions = append(product.Descriptions, DecodeExtendedProductData(pkt.Payload)...)
		case datatype.PidProtocolArray:
			protoArrayPayload = pkt.Payload
		default:
			break draining
		}
	}

	if protoArrayPayload != nil {
		tuples, err := DecodeProtocolArray(protoArrayPayload)
		if err != nil {
			return Result{}, err
		}
		set, err := GroupProtocolArray(tuples)
		if err != nil {
			return Result{}, err
		}
		return Result{Product: product, Set: set}, nil
	}

	entry, err := cat.Lookup(product.ProductID, product.SoftwareVersion)
	if err != nil {
		return Result{}, err
	}
	set := ProtocolSet{
		LinkProtocol:    entry.LinkProtocol,
		CommandProtocol: entry.CommandProtocol,
		Roles:           make(map[string]RoleBinding, len(entry.Transfers)),
	}
	for role, binding := range entry.Transfers {
		set.Roles[role] = RoleBinding{Proto: binding.Proto, Datatypes: binding.Datatypes}
	}
	return Result{Product: product, Set: set}, nil
}
