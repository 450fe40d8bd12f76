// Package netmath holds the IPv4 and bit arithmetic shared by the puzzle
// generators. Every value is an unsigned 32-bit integer; arithmetic wraps
// modulo 2^32 and never panics.
package netmath

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	octetCount = 4
	maxOctet   = 255
	// MaxCIDR is the longest IPv4 prefix.
	MaxCIDR = 32
)

// ParseIP converts a dotted-decimal string into its big-endian integer form.
func ParseIP(dotted string) (uint32, error) {
	parts := strings.Split(dotted, ".")
	if len(parts) != octetCount {
		return 0, fmt.Errorf("%w: %q is not 4 octets", ErrInvalidFormat, dotted)
	}
	var ip uint32
	for _, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return 0, fmt.Errorf("%w: octet %q is not numeric", ErrInvalidFormat, part)
		}
		v, err := strconv.Atoi(part)
		if err != nil || v > maxOctet {
			return 0, fmt.Errorf("%w: octet %q outside 0-255", ErrInvalidFormat, part)
		}
		ip = ip<<8 | uint32(v)
	}
	return ip, nil
}

// FormatIP renders ip as four dot-separated decimal octets.
func FormatIP(ip uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(ip>>24), byte(ip>>16), byte(ip>>8), byte(ip))
}

// BinaryString renders ip as 32 '0'/'1' characters, most significant bit first.
func BinaryString(ip uint32) string {
	return fmt.Sprintf("%032b", ip)
}

// DottedBinary renders ip as four 8-bit groups joined by dots.
func DottedBinary(ip uint32) string {
	s := BinaryString(ip)
	return s[0:8] + "." + s[8:16] + "." + s[16:24] + "." + s[24:32]
}

// Byte8 renders the low 8 bits of v as a zero-padded binary string.
func Byte8(v int) string {
	return fmt.Sprintf("%08b", uint8(v))
}

// Hex renders v in uppercase hexadecimal without padding ("A", "FF", "108").
func Hex(v int) string {
	return strings.ToUpper(strconv.FormatInt(int64(v), 16))
}

// ValidCIDR reports whether cidr is a valid IPv4 prefix length.
func ValidCIDR(cidr int) bool {
	return cidr >= 0 && cidr <= MaxCIDR
}

// Mask returns the subnet mask with the top cidr bits set. Out-of-range
// prefixes are clamped to [0,32].
func Mask(cidr int) uint32 {
	switch {
	case cidr <= 0:
		return 0
	case cidr >= MaxCIDR:
		return ^uint32(0)
	}
	return ^uint32(0) << (MaxCIDR - cidr)
}

// Wildcard is the inverse of Mask.
func Wildcard(cidr int) uint32 {
	return ^Mask(cidr)
}

// Network returns the network address of ip within a /cidr subnet.
func Network(ip uint32, cidr int) uint32 {
	return ip & Mask(cidr)
}

// Broadcast returns the broadcast address of ip within a /cidr subnet.
func Broadcast(ip uint32, cidr int) uint32 {
	return Network(ip, cidr) | Wildcard(cidr)
}

// FirstHost is the address right after the network address.
func FirstHost(ip uint32, cidr int) uint32 {
	return Network(ip, cidr) + 1
}

// LastHost is the address right before the broadcast address.
func LastHost(ip uint32, cidr int) uint32 {
	return Broadcast(ip, cidr) - 1
}

// UsableHosts returns 2^(32-cidr) - 2, clamped at zero for /31 and /32.
func UsableHosts(cidr int) int {
	if cidr < 0 {
		cidr = 0
	}
	if cidr >= MaxCIDR-1 {
		return 0
	}
	return (1 << (MaxCIDR - cidr)) - 2
}

// Contains reports whether ip falls inside network/cidr.
func Contains(ip, network uint32, cidr int) bool {
	mask := Mask(cidr)
	return ip&mask == network&mask
}

// MaskString is a convenience for FormatIP(Mask(cidr)).
func MaskString(cidr int) string {
	return FormatIP(Mask(cidr))
}
