package tutor

import (
	"strings"
)

// Topic is a hint category.
type Topic string

// Hint topics.
const (
	TopicBinary  Topic = "binary"
	TopicHex     Topic = "hex"
	TopicSubnet  Topic = "subnet"
	TopicRoute   Topic = "route"
	TopicGeneral Topic = "general"
)

var hintDB = map[Topic][]string{
	TopicBinary: {
		"Remember: Binary is Base-2. Each position is a power of 2 (1, 2, 4, 8...)",
		"To convert Decimal to Binary, try subtracting the largest power of 2 possible.",
		"8 bits make a Byte. The max value is 255 (11111111).",
		"Binary 1 is On, 0 is Off.",
		"128 + 64 + 32 + 16 + 8 + 4 + 2 + 1 = 255.",
	},
	TopicHex: {
		"Hexadecimal is Base-16. It uses 0-9 and A-F.",
		"A=10, B=11, C=12, D=13, E=14, F=15.",
		"Each Hex digit represents 4 binary bits (a nibble).",
		"0xFF is 255 in Decimal.",
		"Colors are often represented in Hex (RRGGBB).",
	},
	TopicSubnet: {
		"The /number (CIDR) tells you how many bits are locked for the Network.",
		"Subnet Mask: 1s are Network, 0s are Host.",
		"Broadcast Address is always the last IP in the subnet (all host bits set to 1).",
		"Network Address is the first IP (all host bits set to 0).",
		"Usable hosts = Total IPs - 2 (Network + Broadcast).",
	},
	TopicRoute: {
		"Routers look at the Destination IP to decide where to send packets.",
		"Longest Prefix Match: The most specific route (highest /CIDR) wins.",
		"If an IP is inside the range of a subnet, it can be routed there.",
		"TTL (Time To Live) prevents packets from looping forever.",
	},
	TopicGeneral: {
		"Analyze the pattern. Break it down into smaller steps.",
		"Check your math. Computers are exact!",
		"Try visualizing the bits.",
		"Don't rush. Accuracy beats speed.",
	},
}

// keywords are tried in order; the first topic with a match wins.
var keywords = []struct {
	topic Topic
	words []string
}{
	{TopicBinary, []string{"binary", "bit", "decimal"}},
	{TopicHex, []string{"hex"}},
	{TopicSubnet, []string{"subnet", "ip", "cidr", "mask"}},
	{TopicRoute, []string{"route", "hop", "packet"}},
}

// Classify picks the hint topic for a concept and its detail text by substring
// match on the lowercased text.
func Classify(concept, detail string) Topic {
	text := strings.ToLower(concept + " " + detail)
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(text, w) {
				return k.topic
			}
		}
	}
	return TopicGeneral
}

// Hints returns the table entries for topic.
func Hints(topic Topic) []string {
	out := make([]string, len(hintDB[topic]))
	copy(out, hintDB[topic])
	return out
}
