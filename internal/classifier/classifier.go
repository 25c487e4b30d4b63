// Package classifier turns a nightly "debris spread onto this tile" signal
// into a destruction record, or decides nothing worth recording happened.
package classifier

import (
	"slices"
	"strings"

	"github.com/spreadingweeds/extension/internal/record"
	"github.com/spreadingweeds/extension/internal/registry"
	"github.com/spreadingweeds/extension/pkg/core"
)

// Skip reasons.
const (
	ReasonGreenRain        = "green rain"
	ReasonExemptKind       = "exempt object kind"
	ReasonExemptItem       = "exempt item"
	ReasonNothingDestroyed = "nothing destroyed"
	ReasonIgnoredTerrain   = "ignored terrain feature"
	ReasonUnknownCrop      = "crop without an id"
)

// Outcome is either a recorded destruction or a skip with a reason.
type Outcome struct {
	Record   core.DestructionRecord
	Reason   string
	recorded bool
}

// Recorded wraps a record.
func Recorded(r core.DestructionRecord) Outcome {
	return Outcome{Record: r, recorded: true}
}

// Skipped reports that nothing is recorded for a tile.
func Skipped(reason string) Outcome {
	return Outcome{Reason: reason}
}

// IsRecorded reports whether the outcome carries a record.
func (o Outcome) IsRecorded() bool {
	return o.recorded
}

// Exemption is a predicate checked before classification. The first match
// wins and the tile is skipped with its reason.
type Exemption struct {
	Reason string
	Match  func(core.TileDestroyed) bool
}

// GreenRain exempts every tile while green rain falls on the location.
func GreenRain() Exemption {
	return Exemption{
		Reason: ReasonGreenRain,
		Match:  func(in core.TileDestroyed) bool { return in.GreenRain },
	}
}

// ExemptKinds exempts objects of the given kinds.
func ExemptKinds(kinds ...core.ObjectKind) Exemption {
	return Exemption{
		Reason: ReasonExemptKind,
		Match: func(in core.TileDestroyed) bool {
			return in.Object != nil && in.Object.Kind != core.ObjectPlain && slices.Contains(kinds, in.Object.Kind)
		},
	}
}

// ExemptItems exempts objects with the given qualified ids.
func ExemptItems(ids ...string) Exemption {
	return Exemption{
		Reason: ReasonExemptItem,
		Match: func(in core.TileDestroyed) bool {
			return in.Object != nil && slices.Contains(ids, in.Object.QualifiedID)
		},
	}
}

// DefaultExemptions covers green rain, fences, chests, artifact spots and
// mushroom logs.
func DefaultExemptions() []Exemption {
	return []Exemption{
		GreenRain(),
		ExemptKinds(core.ObjectFence, core.ObjectChest),
		ExemptItems("(O)590", "(BC)MushroomLog"),
	}
}

// counts reports whether a removed object is a real destruction. Unnamed
// objects and litter do not count.
func counts(o *core.RemovedObject) bool {
	return o != nil && o.Name != "" && o.Category != core.LitterCategory
}

// Classify decides what, if anything, was destroyed on a tile. It never
// writes anything.
func Classify(in core.TileDestroyed, reg registry.Registry, exemptions []Exemption) Outcome {
	for _, ex := range exemptions {
		if ex.Match(in) {
			return Skipped(ex.Reason)
		}
	}

	if in.Terrain != nil && in.Terrain.Kind != core.TerrainTilledSoil && in.Terrain.Kind != core.TerrainFlooring {
		return Skipped(ReasonIgnoredTerrain)
	}

	debris := DebrisKind(in.DebrisKind, reg)

	if counts(in.Object) {
		cat := core.CategoryPlainEntity
		if in.Object.Big || strings.HasPrefix(in.Object.QualifiedID, record.BigCraftablePrefix) {
			cat = core.CategoryBigEntity
		}
		return Recorded(core.DestructionRecord{
			DebrisKind:  debris,
			Category:    cat,
			ItemID:      in.Object.QualifiedID,
			DisplayName: in.Object.DisplayName,
		})
	}

	if in.Terrain == nil {
		return Skipped(ReasonNothingDestroyed)
	}

	switch in.Terrain.Kind {
	case core.TerrainFlooring:
		if in.Terrain.FlooringItemID == "" {
			return Skipped(ReasonNothingDestroyed)
		}
		return Recorded(core.DestructionRecord{
			DebrisKind: debris,
			Category:   core.CategoryPlainEntity,
			ItemID:     record.QualifyObject(in.Terrain.FlooringItemID),
		})
	default:
		crop := in.Terrain.Crop
		if crop == nil {
			return Recorded(core.DestructionRecord{
				DebrisKind: debris,
				Category:   core.CategoryTilledSoilOnly,
			})
		}
		id := CropIdentity(crop, reg)
		if id == "" {
			return Skipped(ReasonUnknownCrop)
		}
		return Recorded(core.DestructionRecord{
			DebrisKind: debris,
			Category:   core.CategoryCropAtPhase,
			ItemID:     id,
			CropPhase:  core.ClampPhase(crop.CurrentPhase),
		})
	}
}

// CropIdentity returns the unqualified id a crop is remembered by: its
// forage crop id when the harvest is a forage item, its seed id otherwise.
func CropIdentity(crop *core.Crop, reg registry.Registry) string {
	if crop.ForageCropID != "" && reg != nil && reg.IsForage(record.QualifyObject(crop.HarvestItemID)) {
		return crop.ForageCropID
	}
	return crop.SeedID
}

// DebrisKind resolves the debris qualified id to its internal name, falling
// back to the raw id. Slashes are replaced so the stored value stays
// decodable.
func DebrisKind(id string, reg registry.Registry) string {
	name := id
	if reg != nil {
		if n, ok := reg.InternalName(id); ok {
			name = n
		}
	}
	return strings.ReplaceAll(name, "/", "_")
}
