// Package sponsorblock integrates community-flagged segments: fetching
// them from a SponsorBlock server, translating preset names into
// removal and marking policies, and reconciling cut windows against
// segments the downloader already removed.
package sponsorblock

import "strings"

// Segment categories recognized by the SponsorBlock database.
const (
	CategorySponsor     = "sponsor"
	CategorySelfPromo   = "selfpromo"
	CategoryInteraction = "interaction"
	CategoryIntro       = "intro"
	CategoryOutro       = "outro"
	CategoryPreview     = "preview"
)

// AllCategories lists every supported category.
var AllCategories = []string{
	CategorySponsor,
	CategorySelfPromo,
	CategoryInteraction,
	CategoryIntro,
	CategoryOutro,
	CategoryPreview,
}

// Preset names a removal/marking policy.
type Preset string

const (
	PresetDefault      Preset = "default"
	PresetModerate     Preset = "moderate"
	PresetAggressive   Preset = "aggressive"
	PresetConservative Preset = "conservative"
	PresetMinimal      Preset = "minimal"
	PresetDisabled     Preset = "disabled"
)

var presets = map[Preset]bool{
	PresetDefault:      true,
	PresetModerate:     true,
	PresetAggressive:   true,
	PresetConservative: true,
	PresetMinimal:      true,
	PresetDisabled:     true,
}

// ParsePreset normalizes a user-supplied preset name.
func ParsePreset(s string) (Preset, bool) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PresetDefault, true
	}
	return p, presets[p]
}

// Config returns the categories the preset cuts out of the media and
// the categories it only marks as chapters. Unknown presets use the
// default policy.
func (p Preset) Config() (remove, mark []string) {
	switch p {
	case PresetModerate:
		return []string{CategorySponsor, CategoryInteraction, CategoryOutro},
			[]string{CategorySelfPromo, CategoryIntro, CategoryPreview}
	case PresetAggressive:
		return []string{CategorySponsor, CategorySelfPromo, CategoryInteraction,
			CategoryIntro, CategoryOutro, CategoryPreview}, nil
	case PresetConservative:
		return []string{CategorySponsor, CategoryOutro},
			[]string{CategoryInteraction, CategorySelfPromo, CategoryIntro, CategoryPreview}
	case PresetMinimal:
		return []string{CategorySponsor},
			[]string{CategorySelfPromo, CategoryInteraction, CategoryIntro,
				CategoryOutro, CategoryPreview}
	case PresetDisabled:
		return nil, nil
	default:
		return []string{CategorySponsor, CategoryInteraction, CategorySelfPromo},
			[]string{CategoryIntro, CategoryPreview, CategoryOutro}
	}
}

// Params renders the yt-dlp arguments implementing the preset. A fully
// disabled preset turns SponsorBlock processing off explicitly.
func (p Preset) Params() []string {
	remove, mark := p.Config()
	if len(remove) == 0 && len(mark) == 0 {
		return []string{"--no-sponsorblock"}
	}
	var params []string
	if len(remove) > 0 {
		params = append(params,
			"--sponsorblock-remove", strings.Join(remove, ","),
			"--no-force-keyframes-at-cuts")
	}
	if len(mark) > 0 {
		params = append(params, "--sponsorblock-mark", strings.Join(mark, ","))
	}
	return params
}
