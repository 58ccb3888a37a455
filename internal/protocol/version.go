package protocol

import "fmt"

// Version is a version number as defined by the QUIC versions specific packet header
type Version uint32

// The version numbers, making grepping easier
const (
	// VersionUnknown is an invalid version
	VersionUnknown Version = 0
	// Version1 is RFC 9000
	Version1 Version = 0x1
)

// SupportedVersions lists the versions that this codec supports,
// in descending order of preference.
var SupportedVersions = []Version{Version1}

// IsValidVersion says if the version is known to this codec
func IsValidVersion(v Version) bool {
	return IsSupportedVersion(SupportedVersions, v)
}

// IsSupportedVersion returns true if the server supports this version
func IsSupportedVersion(supported []Version, v Version) bool {
	for _, t := range supported {
		if t == v {
			return true
		}
	}
	return false
}

func (vn Version) String() string {
	switch vn {
	case VersionUnknown:
		return "unknown"
	case Version1:
		return "v1"
	default:
		return fmt.Sprintf("%#x", uint32(vn))
	}
}
