package models

import "strings"

// MaterialKey identifies one raw material in the briquette mix.
// Immutable identity; display labels live in MaterialLabels.
type MaterialKey string

const (
	MaterialSawdust     MaterialKey = "sawdust"
	MaterialWoodShaving MaterialKey = "wood_shaving"
	MaterialWoodPowder  MaterialKey = "wood_powder"
	MaterialPeanutHusk  MaterialKey = "peanut_husk"
	MaterialFireCut     MaterialKey = "fire_cut"
)

// MaterialOrder fixes the per-material iteration order everywhere
// (consumption, breakdown rows, reports). FIFO costs depend on it.
var MaterialOrder = []MaterialKey{
	MaterialSawdust,
	MaterialWoodShaving,
	MaterialWoodPowder,
	MaterialPeanutHusk,
	MaterialFireCut,
}

var MaterialLabels = map[MaterialKey]string{
	MaterialSawdust:     "Sawdust",
	MaterialWoodShaving: "Wood Shaving",
	MaterialWoodPowder:  "Wood Powder",
	MaterialPeanutHusk:  "Peanut Husk",
	MaterialFireCut:     "Fire Cut",
}

func (m MaterialKey) Label() string {
	if label, ok := MaterialLabels[m]; ok {
		return label
	}
	return string(m)
}

// materialAliases maps normalized item names (lowercase, separators
// stripped) to material keys. Receipt lines reference material items by
// free-text name, so spelling variants have to resolve here.
var materialAliases = map[string]MaterialKey{
	"sawdust":      MaterialSawdust,
	"woodshaving":  MaterialWoodShaving,
	"woodshavings": MaterialWoodShaving,
	"woodpowder":   MaterialWoodPowder,
	"peanuthusk":   MaterialPeanutHusk,
	"firecut":      MaterialFireCut,
}

// ResolveMaterialName maps a material item's display name to its ledger
// key. Unknown names return ok=false and the receipt line is ignored.
func ResolveMaterialName(name string) (MaterialKey, bool) {
	normalized := strings.ToLower(name)
	for _, sep := range []string{" ", "_", "-"} {
		normalized = strings.ReplaceAll(normalized, sep, "")
	}
	key, ok := materialAliases[normalized]
	return key, ok
}

// MachineCodes identifies which machine assets count as briquette
// output and which one is the dryer. Matching is case-insensitive.
type MachineCodes struct {
	Briquette []string
	Dryer     string
}

func DefaultMachineCodes() MachineCodes {
	return MachineCodes{
		Briquette: []string{"MCH-0001", "MCH-0002"},
		Dryer:     "MCH-0003",
	}
}

func (m MachineCodes) IsBriquette(code string) bool {
	for _, c := range m.Briquette {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

func (m MachineCodes) IsDryer(code string) bool {
	return strings.EqualFold(m.Dryer, code)
}
