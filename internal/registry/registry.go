// Package registry resolves item and crop identities to names and visuals.
package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spreadingweeds/extension/internal/record"
	"github.com/spreadingweeds/extension/internal/render"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownItem is returned for ids the registry has no data for.
	ErrUnknownItem = errors.New("unknown item")
	// ErrUnknownFormat is returned for catalog files that are neither YAML nor TOML.
	ErrUnknownFormat = errors.New("unknown catalog format")
)

// ForageTag marks items that grow wild.
const ForageTag = "forage_item"

//go:embed catalog.yaml
var defaultCatalog []byte

// Registry is the entity registry the classifier, report builder and
// overlay depend on.
type Registry interface {
	DisplayName(qualifiedID string) (string, error)
	InternalName(qualifiedID string) (string, bool)
	IsForage(qualifiedID string) bool
	CropData(seedID string) (Crop, bool)
	CreateItem(qualifiedID string) (render.Drawable, error)
	CreateCrop(seedID string, phase int) (render.CropSprite, error)
}

// Item is one catalog entry. ID is qualified.
type Item struct {
	ID           string   `yaml:"id" toml:"id"`
	InternalName string   `yaml:"internalName" toml:"internalName"`
	DisplayName  string   `yaml:"displayName" toml:"displayName"`
	SpriteIndex  int      `yaml:"spriteIndex" toml:"spriteIndex"`
	Tags         []string `yaml:"tags,omitempty" toml:"tags,omitempty"`
}

// Big reports whether the item is a big craftable.
func (i Item) Big() bool {
	return strings.HasPrefix(i.ID, record.BigCraftablePrefix)
}

// Crop is the growth data of a crop, keyed by its unqualified seed id.
type Crop struct {
	SeedID        string   `yaml:"seedId" toml:"seedId"`
	HarvestItemID string   `yaml:"harvestItemId" toml:"harvestItemId"`
	DaysInPhase   []int    `yaml:"daysInPhase" toml:"daysInPhase"`
	// TintColors are "R G B", "R G B A" or "#RRGGBB" strings. Names
	// such as "Red" are not recognized and leave the crop untinted.
	TintColors    []string `yaml:"tintColors,omitempty" toml:"tintColors,omitempty"`
	Texture       string   `yaml:"texture,omitempty" toml:"texture,omitempty"`
	Row           int      `yaml:"row" toml:"row"`
}

// CatalogFile is the on-disk shape of a catalog.
type CatalogFile struct {
	Items []Item `yaml:"items" toml:"items"`
	Crops []Crop `yaml:"crops" toml:"crops"`
}

// Catalog is a Registry backed by static item and crop data.
type Catalog struct {
	items map[string]Item
	crops map[string]Crop
}

// NewCatalog indexes the given data. Later duplicates replace earlier ones.
func NewCatalog(f CatalogFile) *Catalog {
	c := &Catalog{
		items: make(map[string]Item, len(f.Items)),
		crops: make(map[string]Crop, len(f.Crops)),
	}
	for _, it := range f.Items {
		c.items[it.ID] = it
	}
	for _, cr := range f.Crops {
		c.crops[cr.SeedID] = cr
	}
	return c
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, "yaml")
}

// Load reads a catalog file, choosing the decoder by extension.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}
	return Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes catalog data in the given format ("yaml", "yml" or "toml").
func Parse(data []byte, format string) (*Catalog, error) {
	var f CatalogFile
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to decode toml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return NewCatalog(f), nil
}

// Merge adds the entries of other, replacing entries with the same id.
func (c *Catalog) Merge(other *Catalog) {
	for id, it := range other.items {
		c.items[id] = it
	}
	for id, cr := range other.crops {
		c.crops[id] = cr
	}
}

// Item returns the catalog entry for a qualified id.
func (c *Catalog) Item(qualifiedID string) (Item, bool) {
	it, ok := c.items[qualifiedID]
	return it, ok
}

// DisplayName implements Registry.
func (c *Catalog) DisplayName(qualifiedID string) (string, error) {
	it, ok := c.items[qualifiedID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownItem, qualifiedID)
	}
	if it.DisplayName != "" {
		return it.DisplayName, nil
	}
	return it.InternalName, nil
}

// InternalName implements Registry.
func (c *Catalog) InternalName(qualifiedID string) (string, bool) {
	it, ok := c.items[qualifiedID]
	if !ok || it.InternalName == "" {
		return "", false
	}
	return it.InternalName, true
}

// IsForage implements Registry.
func (c *Catalog) IsForage(qualifiedID string) bool {
	it, ok := c.items[qualifiedID]
	return ok && slices.Contains(it.Tags, ForageTag)
}

// CropData implements Registry.
func (c *Catalog) CropData(seedID string) (Crop, bool) {
	cr, ok := c.crops[seedID]
	return cr, ok
}

// CreateItem implements Registry.
func (c *Catalog) CreateItem(qualifiedID string) (render.Drawable, error) {
	it, ok := c.items[qualifiedID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, qualifiedID)
	}
	if it.Big() {
		return render.ItemSprite{Sprite: render.BigCraftableSprite(it.SpriteIndex), Tall: true}, nil
	}
	return render.ItemSprite{Sprite: render.ObjectSprite(it.SpriteIndex)}, nil
}

// CreateCrop implements Registry. The tint is left to the caller, see
// render.CropSprite.Tinted.
func (c *Catalog) CreateCrop(seedID string, phase int) (render.CropSprite, error) {
	cr, ok := c.crops[seedID]
	if !ok {
		return render.CropSprite{}, fmt.Errorf("%w: crop %s", ErrUnknownItem, seedID)
	}
	return render.CropSprite{
		Texture:    cr.Texture,
		Row:        cr.Row,
		PhaseCount: len(cr.DaysInPhase),
		Phase:      phase,
		Tints:      cr.TintColors,
	}, nil
}
