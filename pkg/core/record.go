// pkg/core/record.go
package core

import "fmt"

// Category is the kind of thing that was destroyed on a tile.
type Category int

const (
	CategoryPlainEntity Category = iota
	CategoryBigEntity
	CategoryCropAtPhase
	CategoryTilledSoilOnly
)

func (c Category) String() string {
	switch c {
	case CategoryPlainEntity:
		return "PlainEntity"
	case CategoryBigEntity:
		return "BigEntity"
	case CategoryCropAtPhase:
		return "CropAtPhase"
	case CategoryTilledSoilOnly:
		return "TilledSoilOnly"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// MaxCropPhase is the highest growth phase that can be stored.
const MaxCropPhase = 9

// DestructionRecord is one overnight destruction on one tile.
//
// ItemID is a qualified id ("(O)27", "(BC)13") for plain and big entities,
// the unqualified seed or forage crop id ("27") for crops, and empty for
// tilled soil. DisplayName is resolved lazily and never persisted.
type DestructionRecord struct {
	DebrisKind  string
	Category    Category
	ItemID      string
	CropPhase   int
	DisplayName string
}

// IsCrop reports whether the record describes a crop.
func (r DestructionRecord) IsCrop() bool {
	return r.Category == CategoryCropAtPhase
}

// IsTilledSoilOnly reports whether only the tilled soil was lost.
func (r DestructionRecord) IsTilledSoilOnly() bool {
	return r.Category == CategoryTilledSoilOnly
}

// ClampPhase bounds a crop growth phase to [0, MaxCropPhase].
func ClampPhase(phase int) int {
	if phase < 0 {
		return 0
	}
	if phase > MaxCropPhase {
		return MaxCropPhase
	}
	return phase
}

// CropDisplayMode selects how destroyed crops are drawn.
type CropDisplayMode string

const (
	CropGrowingPlant     CropDisplayMode = "Growing Plant"
	CropSeedPacket       CropDisplayMode = "Seed Packet"
	CropHarvestedProduce CropDisplayMode = "Harvested Produce"
)

// ParseCropDisplayMode maps a config value onto a mode. Unknown values
// fall back to CropGrowingPlant.
func ParseCropDisplayMode(s string) CropDisplayMode {
	switch CropDisplayMode(s) {
	case CropSeedPacket:
		return CropSeedPacket
	case CropHarvestedProduce:
		return CropHarvestedProduce
	default:
		return CropGrowingPlant
	}
}
