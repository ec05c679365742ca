// Package nvp implements PayPal's legacy name-value-pair wire encoding: a
// flat key=value&key=value string where numeric key suffixes act as an
// implicit schema for repeated and nested fields.
package nvp

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mutinyhq/paypal-go/ordered"
	pkgerrors "github.com/mutinyhq/paypal-go/pkg/errors"
)

// suffixPattern splits a key into its shortest prefix and the trailing run
// of digits, e.g. L_ERRORCODE0 -> (L_ERRORCODE, 0).
var suffixPattern = regexp.MustCompile(`^(.+?)(\d+)$`)

// Encode serializes a mapping into the NVP wire format. Top-level entries are
// emitted in insertion order:
//
//   - scalar:     key=value
//   - list:       key1=v1&key2=v2&... (1-based element suffix)
//   - nested map: key0=innerKey%3DinnerValue, first entry only
//
// The nested-map form is the protocol's own quirk: only the first entry of a
// nested mapping reaches the wire, with the inner key and an escaped "="
// embedded in the value. Servers expect exactly this shape, so entries beyond
// the first are dropped rather than encoded.
//
// The wire format cannot carry deeper structure. Maps nested below the first
// level and lists containing non-scalar elements are rejected with an error
// instead of being mis-encoded.
func Encode(m *ordered.Map) (string, error) {
	var out []string
	for _, p := range m.Pairs() {
		switch p.Value.Kind() {
		case ordered.KindMap:
			inner := p.Value.Map().Pairs()
			if len(inner) == 0 {
				continue
			}
			first := inner[0]
			if first.Value.Kind() != ordered.KindScalar {
				return "", fmt.Errorf("nvp: field %q: nested value under %q is a %s, only scalars can be embedded",
					p.Key, first.Key, first.Value.Kind())
			}
			out = append(out, fmt.Sprintf("%s0=%s%%3D%s", p.Key, first.Key, escape(first.Value.Scalar())))
		case ordered.KindList:
			for n, item := range p.Value.List() {
				if item.Kind() != ordered.KindScalar {
					return "", fmt.Errorf("nvp: field %q: list element %d is a %s, lists may only hold scalars",
						p.Key, n, item.Kind())
				}
				out = append(out, fmt.Sprintf("%s%d=%s", p.Key, n+1, escape(item.Scalar())))
			}
		default:
			out = append(out, fmt.Sprintf("%s=%s", p.Key, escape(p.Value.Scalar())))
		}
	}
	return strings.Join(out, "&"), nil
}

// Decode parses an NVP wire payload back into a mapping. Keys carrying a
// trailing digit suffix are grouped, in order of first appearance, into a
// list under their bare prefix; all other keys become scalar entries.
// Duplicate raw keys overwrite: the last value wins while the first
// occurrence keeps its position.
//
// Note decode is not the inverse of Encode for nested maps: a pair encoded as
// K0=x%3D1 decodes to the list {"K": ["x=1"]}, not back into a nested map.
// That asymmetry is inherited from the protocol.
func Decode(payload string) (*ordered.Map, error) {
	raw := ordered.New()
	for _, pair := range strings.Split(payload, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, &pkgerrors.DecodeError{Format: "nvp", Detail: fmt.Sprintf("pair %q has no '='", pair)}
		}
		raw.Set(key, ordered.String(value))
	}

	out := ordered.New()
	for _, p := range raw.Pairs() {
		value, err := url.QueryUnescape(p.Value.Scalar())
		if err != nil {
			return nil, &pkgerrors.DecodeError{Format: "nvp", Detail: fmt.Sprintf("key %q: %v", p.Key, err)}
		}
		if groups := suffixPattern.FindStringSubmatch(p.Key); groups != nil {
			out.Append(groups[1], ordered.String(value))
		} else {
			out.Set(p.Key, ordered.String(value))
		}
	}
	return out, nil
}

// escape percent-encodes a value for the NVP wire. Spaces are encoded as %20
// rather than "+", matching what the provider's NVP endpoints emit.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
