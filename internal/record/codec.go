// Package record converts destruction records to and from the compact
// string form kept in a location's key/value store.
//
// A stored value is "{debrisKind}/{token}" where token is one of
//
//	(O)27      plain entity, qualified id
//	(BC)13     big entity, qualified id
//	(D3)27     crop at growth phase 3, seed or forage crop id 27
//	(D0)-1     tilled soil with nothing on it
package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spreadingweeds/extension/pkg/core"
)

// ErrDecode is returned for any stored value that is not a valid record.
var ErrDecode = errors.New("malformed destruction record")

const (
	// TilledSoilToken marks a record for bare tilled soil.
	TilledSoilToken = "(D0)-1"

	ObjectPrefix        = "(O)"
	BigCraftablePrefix  = "(BC)"
	cropPrefix          = "(D"
	cropTokenHeaderSize = len("(D0)")
)

// Encode renders r as a stored value. Crop phases are clamped to
// [0, core.MaxCropPhase].
func Encode(r core.DestructionRecord) string {
	var token string
	switch r.Category {
	case core.CategoryCropAtPhase:
		token = fmt.Sprintf("%s%d)%s", cropPrefix, core.ClampPhase(r.CropPhase), r.ItemID)
	case core.CategoryTilledSoilOnly:
		token = TilledSoilToken
	default:
		token = r.ItemID
	}
	return r.DebrisKind + "/" + token
}

// Decode parses a stored value. It never panics; every input that does not
// match one of the known token shapes yields an error wrapping ErrDecode.
func Decode(value string) (core.DestructionRecord, error) {
	var r core.DestructionRecord

	kind, token, ok := strings.Cut(value, "/")
	if !ok {
		return r, fmt.Errorf("%w: no separator in %q", ErrDecode, value)
	}
	r.DebrisKind = kind

	switch {
	case token == TilledSoilToken:
		r.Category = core.CategoryTilledSoilOnly

	case strings.HasPrefix(token, cropPrefix):
		if len(token) <= cropTokenHeaderSize || token[3] != ')' {
			return core.DestructionRecord{}, fmt.Errorf("%w: bad crop token %q", ErrDecode, token)
		}
		phase := token[2]
		if phase < '0' || phase > '9' {
			return core.DestructionRecord{}, fmt.Errorf("%w: bad crop phase in %q", ErrDecode, token)
		}
		r.Category = core.CategoryCropAtPhase
		r.CropPhase = int(phase - '0')
		r.ItemID = token[cropTokenHeaderSize:]

	case strings.HasPrefix(token, BigCraftablePrefix) && len(token) > len(BigCraftablePrefix):
		r.Category = core.CategoryBigEntity
		r.ItemID = token

	case strings.HasPrefix(token, ObjectPrefix) && len(token) > len(ObjectPrefix):
		r.Category = core.CategoryPlainEntity
		r.ItemID = token

	default:
		return core.DestructionRecord{}, fmt.Errorf("%w: unrecognized token %q", ErrDecode, token)
	}

	return r, nil
}

// QualifyObject prefixes an unqualified object id with (O). Ids that are
// already qualified are returned unchanged.
func QualifyObject(id string) string {
	if strings.HasPrefix(id, "(") {
		return id
	}
	return ObjectPrefix + id
}
