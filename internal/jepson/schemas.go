// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jepson

import "github.com/pdiddy/flora-engine/internal/schema"

// rangePat matches the Jepson measurement-range notation, including
// parenthetical outlier bounds: "8--25", "5--7(9)", "(1)3--30(50)".
const rangePat = `(?:\(\d+(?:\.\d+)?\))?\d+(?:\.\d+)?--\d+(?:\.\d+)?(?:\(\d+(?:\.\d+)?\))?`

// mmPat is rangePat with the millimeter unit attached.
const mmPat = rangePat + ` ?mm`

// jepsonSet is the built-in schema set for Jepson eFlora descriptions.
// Field order matters: more specific patterns are declared before the
// generic ones so the first match wins. Labels in the vocabulary without
// a schema ("chromosomes", "ecology", ...) are carried through as text.
var jepsonSet = schema.MustCompileSet(schema.SetDef{
	Vocabulary: []string{
		"habit", "stem", "leaf", "inflorescence", "flower", "fruit",
		"seed", "chromosomes", "ecology", "elevation",
		"bioregional distribution", "distribution outside california",
		"flowering time", "note", "toxicity",
	},
	Schemas: []schema.Def{
		{
			Label: "habit",
			Fields: []schema.FieldDef{
				{Name: "height", Kind: "range", Patterns: []string{`(` + rangePat + ` ?[a-z]+)`}},
				{Name: "growth form", Kind: "enum", Patterns: []string{
					`((?:shrub|tree|herb|annual|perennial|vine|thicket-forming)(?: or (?:shrub|tree|herb|annual|perennial|vine|thicket-forming))*)`,
				}},
			},
		},
		{
			Label: "stem",
			Fields: []schema.FieldDef{
				{Name: "prickles", Patterns: []string{`prickles\s+([^.;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "count", Kind: "enum", Patterns: []string{`(few[- ]to[- ]many|few|many)`}},
						{Name: "grouping", Kind: "enum", Patterns: []string{`(paired[- ]or[- ]not|paired)`}},
						{Name: "length", Kind: "range", Patterns: []string{`(` + mmPat + `)`}},
						{Name: "shape", Patterns: []string{`(thick-based[- ]and[- ]compressed|thick-based|compressed)`}},
						{Name: "curvature", Patterns: []string{`(generally[- ]curved[- ]\(straight\)|curved|straight)`}},
					},
				}},
			},
		},
		{
			Label: "leaf",
			Fields: []schema.FieldDef{
				{Name: "axis", Patterns: []string{`axis\s+([^;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "trichome form", Patterns: []string{`((?:\+- )?shaggy-hairy|glabrous)`}},
						{Name: "hair length", Patterns: []string{`hairs to ([^,;]+)`}},
						{Name: "glandularity", Kind: "enum", Patterns: []string{`(glandless or glandular|glandular or not|glandless|glandular)`}},
					},
				}},
				{Name: "leaflets", Patterns: []string{`leaflets\s+([^;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "count", Kind: "range", Patterns: []string{`(` + rangePat + `)`}},
						{Name: "surface", Patterns: []string{`((?:\+- )?hairy|glabrous)`}},
						{Name: "glandularity", Patterns: []string{`(sometimes glandular|glandless|glandular)`}},
					},
				}},
				{Name: "terminal leaflet", Patterns: []string{`terminal leaflet\s+([^;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "length", Kind: "range", Patterns: []string{`(` + mmPat + `)`}},
						{Name: "shape", Patterns: []string{`((?:\+- )?(?:ob)?ovate(?:-elliptic)?|elliptic|oblong)`}},
						{Name: "widest", Patterns: []string{`widest (at or below middle|at or above middle|at middle|below middle|above middle)`}},
						{Name: "tip", Patterns: []string{`tip (rounded to acute|rounded|acute|obtuse)`}},
						{Name: "margins", Patterns: []string{`margins ((?:single- or double-|single-|double-)toothed)`}},
					},
				}},
			},
		},
		{
			Label: "inflorescence",
			Fields: []schema.FieldDef{
				{Name: "flower count", Kind: "range", Patterns: []string{`(` + rangePat + `)-flowered`}},
				{Name: "pedicels", Patterns: []string{`pedicels\s+([^;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "length", Kind: "range", Patterns: []string{`((?:\+- )?` + mmPat + `)`}},
						{Name: "surface", Patterns: []string{`((?:\+- )?hairy|glabrous)`}},
						{Name: "glandularity", Patterns: []string{`(glandless|glandular)`}},
					},
				}},
			},
		},
		{
			Label: "flower",
			Fields: []schema.FieldDef{
				{Name: "hypanthium", Patterns: []string{`hypanthium\s+([^;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "width", Kind: "range", Patterns: []string{`(` + mmPat + `) wide at flower`, `(` + mmPat + `) wide`}},
						{Name: "surface", Patterns: []string{`(glabrous to sparsely hairy|sparsely hairy|glabrous|hairy)`}},
						{Name: "glandularity", Patterns: []string{`(glandless|glandular)`}},
						{Name: "neck width", Kind: "range", Patterns: []string{`neck (` + mmPat + `) wide`}},
					},
				}},
				{Name: "sepals", Patterns: []string{`sepals\s+([^;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "glandularity", Kind: "enum", Patterns: []string{`(glandular or not|glandless|glandular)`}},
						{Name: "margin", Patterns: []string{`(entire|toothed|lobed)`}},
						{Name: "tip", Patterns: []string{`tip ([^,;]+)`}},
					},
				}},
				{Name: "petals", Patterns: []string{`petals\s+([^;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "length", Kind: "range", Patterns: []string{`(` + mmPat + `)`}},
						{Name: "color", Kind: "enum", Patterns: []string{`(pink|white|yellow|red|purple|cream)`}},
					},
				}},
				{Name: "pistils", Patterns: []string{`pistils\s+([^.;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "count", Kind: "range", Patterns: []string{`(` + rangePat + `)`}},
					},
				}},
			},
		},
		{
			Label: "fruit",
			Fields: []schema.FieldDef{
				{Name: "width", Kind: "range", Patterns: []string{`(` + mmPat + `) wide`}},
				{Name: "shape", Patterns: []string{`(\(?ob\)?ovoid|spheric|ellipsoid)`}},
				{Name: "sepals", Patterns: []string{`sepals\s+([^;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "position", Patterns: []string{`(erect|spreading|reflexed)`}},
						{Name: "persistence", Patterns: []string{`(persistent|deciduous)`}},
					},
				}},
				{Name: "achenes", Patterns: []string{`achenes\s+([^.;]+)`}, Child: &schema.Def{
					Fields: []schema.FieldDef{
						{Name: "length", Kind: "range", Patterns: []string{`(` + mmPat + `)`}},
					},
				}},
			},
		},
	},
})
