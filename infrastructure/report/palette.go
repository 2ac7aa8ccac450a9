package report

import "retailenroll/models"

type rgb [3]int

// Palette is the set of colours a tier's document is drawn with.
type Palette struct {
	Primary   rgb
	Secondary rgb
	Accent    rgb
	HeaderBg  rgb
	Text      rgb
	DarkText  rgb
	Border    rgb
	Badge     rgb
}

var palettes = map[models.Tier]Palette{
	models.TierPlatinum: {
		Primary:   rgb{45, 52, 54},
		Secondary: rgb{99, 110, 114},
		Accent:    rgb{189, 195, 199},
		HeaderBg:  rgb{30, 39, 46},
		Text:      rgb{236, 240, 241},
		DarkText:  rgb{44, 62, 80},
		Border:    rgb{180, 180, 180},
		Badge:     rgb{108, 122, 137},
	},
	models.TierGold: {
		Primary:   rgb{183, 149, 11},
		Secondary: rgb{243, 156, 18},
		Accent:    rgb{241, 196, 15},
		HeaderBg:  rgb{94, 68, 0},
		Text:      rgb{255, 248, 220},
		DarkText:  rgb{92, 64, 0},
		Border:    rgb{200, 170, 100},
		Badge:     rgb{218, 165, 32},
	},
	models.TierExecutive: {
		Primary:   rgb{120, 15, 15},
		Secondary: rgb{192, 57, 43},
		Accent:    rgb{231, 76, 60},
		HeaderBg:  rgb{65, 12, 12},
		Text:      rgb{255, 245, 245},
		DarkText:  rgb{69, 10, 10},
		Border:    rgb{180, 100, 100},
		Badge:     rgb{155, 29, 29},
	},
}

var defaultPalette = Palette{
	Primary:   rgb{44, 62, 80},
	Secondary: rgb{52, 73, 94},
	Accent:    rgb{76, 175, 80},
	HeaderBg:  rgb{33, 47, 61},
	Text:      rgb{255, 255, 255},
	DarkText:  rgb{50, 50, 50},
	Border:    rgb{180, 180, 180},
	Badge:     rgb{39, 174, 96},
}

// PaletteFor returns the tier palette, or the neutral one when no tier is selected.
func PaletteFor(t models.Tier) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return defaultPalette
}
