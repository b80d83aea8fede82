package nntp

import "strings"

// Capabilities is the set of capability tokens a server advertised. It
// is rebuilt wholesale on every CAPABILITIES exchange, never merged.
type Capabilities []string

// Has reports whether the server advertised the given capability.
// Comparison is case-insensitive, as capability labels are.
func (c Capabilities) Has(label string) bool {
	for _, have := range c {
		if strings.EqualFold(have, label) {
			return true
		}
	}
	return false
}

// ParseCapabilities converts a CAPABILITIES response into the advertised
// token set. Each body line contributes its whitespace-separated tokens.
func ParseCapabilities(resp *RawResponse) (Capabilities, error) {
	if _, err := resp.FailUnless(KindCapabilities); err != nil {
		return nil, err
	}

	var caps Capabilities
	for _, line := range resp.Body() {
		caps = append(caps, strings.Fields(lossyString(line))...)
	}
	return caps, nil
}
