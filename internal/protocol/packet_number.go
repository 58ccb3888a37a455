package protocol

// DecodePacketNumber calculates the packet number based on the received packet number,
// its length and the last seen packet number.
// The implementation is taken from the algorithm in RFC 9000, appendix A.3.
// `largest` is the largest packet number seen in this packet number space so far;
// the reconstructed number is the value within half the encoding window of largest+1
// whose low bits equal wirePN.
func DecodePacketNumber(length PacketNumberLen, largest, wirePN PacketNumber) PacketNumber {
	expected := largest + 1
	win := PacketNumber(1) << (length * 8)
	hwin := win / 2
	mask := win - 1
	candidate := (expected & ^mask) | wirePN
	if candidate <= expected-hwin && candidate < MaxPacketNumber+1-win {
		return candidate + win
	}
	if candidate > expected+hwin && candidate >= win {
		return candidate - win
	}
	return candidate
}

// EncodePacketNumber truncates a packet number to its low length*8 bits,
// the form it is carried in on the wire.
func EncodePacketNumber(pn PacketNumber, length PacketNumberLen) PacketNumber {
	return pn & (PacketNumber(1)<<(length*8) - 1)
}

// PacketNumberLengthForHeader gets the minimum length of the packet number field
// that allows the receiver to reconstruct pn unambiguously.
// base is the reference point the peer will decode against
// (its largest received packet number in this space, plus one).
// It returns the smallest length l such that pn lies strictly inside
// [base - 2^(l*8-1), base + 2^(l*8-1)).
func PacketNumberLengthForHeader(pn, base PacketNumber) PacketNumberLen {
	for _, l := range []PacketNumberLen{PacketNumberLen1, PacketNumberLen2, PacketNumberLen3} {
		hwin := PacketNumber(1) << (l*8 - 1)
		if pn >= base-hwin && pn < base+hwin {
			return l
		}
	}
	return PacketNumberLen4
}
