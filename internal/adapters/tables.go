package adapters

import "strings"

// Rule maps a vocabulary key or keyword to a registry category.
type Rule struct {
	Pattern  string
	Category string
}

// RuleSet is an ordered list of rules; the first match wins.
type RuleSet []Rule

// Exact returns the category of the first rule whose pattern equals value.
func (rs RuleSet) Exact(value string) (string, bool) {
	for _, r := range rs {
		if r.Pattern == value {
			return r.Category, true
		}
	}
	return "", false
}

// Contains returns the category of the first rule whose pattern occurs in any
// of the values, compared case-insensitively.
func (rs RuleSet) Contains(values ...string) (string, bool) {
	lowered := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			lowered = append(lowered, strings.ToLower(v))
		}
	}
	if len(lowered) == 0 {
		return "", false
	}
	for _, r := range rs {
		pattern := strings.ToLower(r.Pattern)
		for _, v := range lowered {
			if strings.Contains(v, pattern) {
				return r.Category, true
			}
		}
	}
	return "", false
}

// Registry categories produced by the tables.
const (
	CategoryWater            = "Water"
	CategoryEnergy           = "Energy"
	CategoryTribal           = "Tribal"
	CategoryCleanEnergy      = "Clean Energy, Buildings, and Manufacturing"
	CategoryLegacyPollution  = "Legacy Pollution"
	CategoryEcosystem        = "Ecosystem Restoration"
	CategoryWildfire         = "Wildland Fire Management"
	CategoryDrought          = "Drought"
	CategoryOther            = "Other"
	CategoryClimate          = "Climate and Environment"
	CategoryEnvironmentalPro = "Environmental Protection"
)

// Tables holds every source's category mapping. Build once with
// DefaultTables and share by pointer; adapters never mutate it.
type Tables struct {
	BIAProjectTypes RuleSet
	BIAFallback     string

	DOEManufacturing string
	DOETechnologies  RuleSet
	DOEFallback      string

	DOIProgramAreas RuleSet
	DOIKeywords     RuleSet
	DOIFallback     string

	EPAInvestment      RuleSet
	EPAProgramKeywords RuleSet
	EPAFallback        string

	NOAAGoals           RuleSet
	NOAAProgramKeywords RuleSet
	NOAAFallback        string

	USBRKeywords RuleSet
	USBRFallback string
}

// DefaultTables returns the built-in category vocabularies.
func DefaultTables() *Tables {
	return &Tables{
		BIAProjectTypes: RuleSet{
			{"Irrigation", CategoryWater},
			{"Power", CategoryEnergy},
			{"Dam", CategoryWater},
			{"Safety of Dams", CategoryWater},
			{"Water", CategoryWater},
		},
		BIAFallback: CategoryTribal,

		DOEManufacturing: CategoryCleanEnergy,
		DOETechnologies: RuleSet{
			{"Hydroelectric", CategoryCleanEnergy},
			{"Solar", CategoryCleanEnergy},
			{"Wind", CategoryCleanEnergy},
			{"Nuclear", CategoryCleanEnergy},
			{"Geothermal", CategoryCleanEnergy},
			{"Battery", CategoryCleanEnergy},
		},
		DOEFallback: CategoryEnergy,

		DOIProgramAreas: RuleSet{
			{"Legacy Pollution", CategoryLegacyPollution},
			{"Ecosystem Restoration", CategoryEcosystem},
			{"Water", CategoryWater},
			{"Wildfire", CategoryWildfire},
			{"Drought", CategoryDrought},
		},
		DOIKeywords: RuleSet{
			{"orphan", CategoryLegacyPollution},
			{"mine", CategoryLegacyPollution},
			{"restoration", CategoryEcosystem},
			{"fire", CategoryWildfire},
			{"drought", CategoryDrought},
			{"water", CategoryWater},
		},
		DOIFallback: CategoryOther,

		EPAInvestment: RuleSet{
			{"Water Infrastructure", CategoryWater},
			{"Clean Water", CategoryWater},
			{"Drinking Water", CategoryWater},
			{"Brownfields", CategoryLegacyPollution},
			{"Superfund", CategoryLegacyPollution},
			{"Air Quality", CategoryClimate},
			{"Climate", CategoryClimate},
			{"Environmental Justice", CategoryClimate},
		},
		EPAProgramKeywords: RuleSet{
			{"water", CategoryWater},
			{"drinking", CategoryWater},
			{"air", CategoryClimate},
			{"pollution", CategoryClimate},
			{"emissions", CategoryClimate},
		},
		EPAFallback: CategoryEnvironmentalPro,

		NOAAGoals: RuleSet{
			{"Wildfire", CategoryWildfire},
			{"Climate", CategoryClimate},
			{"Fisheries", CategoryEcosystem},
			{"Ocean", CategoryEcosystem},
			{"Weather", CategoryClimate},
			{"Multi-Hazard", CategoryClimate},
		},
		NOAAProgramKeywords: RuleSet{
			{"fish", CategoryEcosystem},
			{"marine", CategoryEcosystem},
			{"habitat", CategoryEcosystem},
			{"coastal", CategoryEcosystem},
			{"climate", CategoryClimate},
			{"weather", CategoryClimate},
			{"forecast", CategoryClimate},
			{"wildfire", CategoryWildfire},
		},
		NOAAFallback: CategoryClimate,

		USBRKeywords: RuleSet{
			{"Water", CategoryWater},
			{"Drought", CategoryDrought},
			{"Dam", CategoryWater},
			{"Ecosystem", CategoryEcosystem},
			{"Rural", CategoryWater},
		},
		USBRFallback: CategoryWater,
	}
}

// Categories returns every category the tables can produce, sorted by first
// appearance.
func (t *Tables) Categories() []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(c string) {
		if c == "" {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, rs := range []RuleSet{
		t.BIAProjectTypes, t.DOETechnologies, t.DOIProgramAreas, t.DOIKeywords,
		t.EPAInvestment, t.EPAProgramKeywords, t.NOAAGoals, t.NOAAProgramKeywords, t.USBRKeywords,
	} {
		for _, r := range rs {
			add(r.Category)
		}
	}
	for _, c := range []string{
		t.BIAFallback, t.DOEManufacturing, t.DOEFallback, t.DOIFallback,
		t.EPAFallback, t.NOAAFallback, t.USBRFallback,
	} {
		add(c)
	}
	return out
}
