// pkg/core/events.go
package core

// ObjectKind distinguishes placed objects with special handling.
type ObjectKind string

const (
	ObjectPlain ObjectKind = ""
	ObjectFence ObjectKind = "fence"
	ObjectChest ObjectKind = "chest"
)

// LitterCategory is the object category of debris litter, which never
// counts as a destroyed object.
const LitterCategory = -999

// RemovedObject is an entity the host removed from a tile.
type RemovedObject struct {
	QualifiedID string     `json:"qualifiedId" yaml:"qualifiedId"`
	Name        string     `json:"name" yaml:"name"`
	DisplayName string     `json:"displayName" yaml:"displayName"`
	Category    int        `json:"category" yaml:"category"`
	Kind        ObjectKind `json:"kind" yaml:"kind"`
	Big         bool       `json:"big" yaml:"big"`
}

// TerrainKind is the type of a terrain feature.
type TerrainKind string

const (
	TerrainTilledSoil TerrainKind = "tilledSoil"
	TerrainFlooring   TerrainKind = "flooring"
	TerrainGrass      TerrainKind = "grass"
	TerrainTree       TerrainKind = "tree"
	TerrainOther      TerrainKind = "other"
)

// Crop growing in tilled soil.
type Crop struct {
	SeedID        string `json:"seedId" yaml:"seedId"`
	HarvestItemID string `json:"harvestItemId" yaml:"harvestItemId"`
	ForageCropID  string `json:"forageCropId" yaml:"forageCropId"`
	CurrentPhase  int    `json:"currentPhase" yaml:"currentPhase"`
}

// RemovedTerrain is a terrain feature the host removed from a tile.
type RemovedTerrain struct {
	Kind           TerrainKind `json:"kind" yaml:"kind"`
	Crop           *Crop       `json:"crop,omitempty" yaml:"crop,omitempty"`
	FlooringItemID string      `json:"flooringItemId,omitempty" yaml:"flooringItemId,omitempty"`
}

// TileDestroyed is the nightly signal that debris spread onto a tile.
// DebrisKind is the qualified id of the debris that was placed.
type TileDestroyed struct {
	Location   string
	Tile       TilePos
	Day        int
	DebrisKind string
	Object     *RemovedObject
	Terrain    *RemovedTerrain
	GreenRain  bool
}

// TileObject is what currently occupies a tile, as seen by the renderer.
type TileObject struct {
	QualifiedID      string
	IsDebrisOrForage bool
}
