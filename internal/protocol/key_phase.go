package protocol

// KeyPhaseBit is the key phase bit of a short header packet
type KeyPhaseBit uint8

const (
	// KeyPhaseUndefined is an undefined key phase. Long header packets don't
	// carry a key phase bit.
	KeyPhaseUndefined KeyPhaseBit = iota
	// KeyPhaseZero is key phase 0
	KeyPhaseZero
	// KeyPhaseOne is key phase 1
	KeyPhaseOne
)

func (p KeyPhaseBit) String() string {
	switch p {
	case KeyPhaseZero:
		return "0"
	case KeyPhaseOne:
		return "1"
	default:
		return "undefined"
	}
}
