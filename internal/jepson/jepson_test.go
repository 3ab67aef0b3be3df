// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jepson

import (
	"reflect"
	"testing"

	"github.com/pdiddy/flora-engine/internal/schema"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// rosaDescription is a full Jepson eFlora description (Rosa californica).
const rosaDescription = `Habit: shrub or thicket-forming, 8--25 dm. Stem: prickles few to many, paired or not, 3--15 mm, thick-based and compressed, generally curved (straight). Leaf: axis +- shaggy-hairy (+- glabrous), hairs to 1 mm, glandless or glandular; leaflets 5--7(9), +- hairy, sometimes glandular; terminal leaflet generally 15--50 mm, +- ovate-elliptic, generally widest at or below middle, tip rounded to acute, margins single- or double-toothed, glandular or not. Inflorescence: (1)3--30(50)-flowered; pedicels generally +- 5--20 mm, generally +- hairy, glandless. Flower: hypanthium 3--5.5 mm wide at flower, glabrous to sparsely hairy, glandless, neck 2--4.5 mm wide; sepals glandular or not, entire, tip generally +- equal to body, entire; petals generally 15--25 mm, pink; pistils 20--40. Fruit: generally 8--15(20) mm wide, generally (ob)ovoid; sepals generally erect, persistent; achenes generally 3.5--4.5 mm. Chromosomes: n=14.
Ecology: Generally +- moist areas, especially streambanks; Elevation: < 1800 m. Bioregional Distribution: CA-FP (exc CaRH, SNH, Teh); Distribution Outside California: southern Oregon, northern Baja California. Flowering Time: Feb--Nov`

func childNames(n *types.FeatureNode) []string {
	names := make([]string, len(n.Children))
	for i, c := range n.Children {
		names[i] = c.Name
	}
	return names
}

func findOne(t *testing.T, root *types.FeatureNode, name string) *types.FeatureNode {
	t.Helper()
	nodes := root.Find(name)
	if len(nodes) != 1 {
		t.Fatalf("Find(%q) returned %d nodes, want 1", name, len(nodes))
	}
	return nodes[0]
}

func TestParse_HabitScenario(t *testing.T) {
	root := Default().Parse("Habit: shrub, 8--25 dm.")

	if root.Name != RootName {
		t.Fatalf("root name = %q, want %q", root.Name, RootName)
	}
	if got := childNames(root); !reflect.DeepEqual(got, []string{"habit"}) {
		t.Fatalf("root children = %v, want [habit]", got)
	}

	h := findOne(t, root, "height").Value
	if h.Kind != types.KindRange || h.Low != 8 || h.High != 25 || h.Unit != "dm" {
		t.Errorf("height = %+v, want Range(8, 25, dm)", *h)
	}
}

func TestParse_LeafletOutlierScenario(t *testing.T) {
	root := Default().Parse("Leaf: leaflets 5--7(9).")

	count := findOne(t, root, "count").Value
	if count.Kind != types.KindRange || count.Low != 5 || count.High != 7 {
		t.Fatalf("leaflet count = %+v, want Range(5, 7)", *count)
	}
	if count.HighOutlier == nil || *count.HighOutlier != 9 {
		t.Errorf("leaflet count high outlier = %v, want 9", count.HighOutlier)
	}
}

func TestParse_UnknownLabelBucket(t *testing.T) {
	root := Default().Parse("Foo: bar baz.")

	if got := childNames(root); !reflect.DeepEqual(got, []string{UnrecognizedName}) {
		t.Fatalf("root children = %v, want [%s]", got, UnrecognizedName)
	}

	bucket := root.Children[0]
	if got := childNames(bucket); !reflect.DeepEqual(got, []string{"foo"}) {
		t.Fatalf("bucket children = %v, want [foo]", got)
	}
	if text := bucket.Children[0].Value.Text; text != "Foo: bar baz." {
		t.Errorf("unrecognized text = %q, want the full clause", text)
	}
}

func TestParse_DocumentOrder(t *testing.T) {
	root := Default().Parse("Stem: prickles few to many. Leaf: axis hairy.")
	if got := childNames(root); !reflect.DeepEqual(got, []string{"stem", "leaf"}) {
		t.Fatalf("root children = %v, want [stem leaf]", got)
	}
}

func TestParse_UnlabeledLeadingText(t *testing.T) {
	root := Default().Parse("Erect thorny shrub. Habit: shrub, 8--25 dm.")

	if got := childNames(root); !reflect.DeepEqual(got, []string{UnlabeledName, "habit"}) {
		t.Fatalf("root children = %v, want [%s habit]", got, UnlabeledName)
	}
	if text := root.Children[0].Value.Text; text != "Erect thorny shrub." {
		t.Errorf("unlabeled text = %q", text)
	}
}

func TestParse_VocabularyLabelWithoutSchema(t *testing.T) {
	root := Default().Parse("Chromosomes: n=14.")

	c := findOne(t, root, "chromosomes")
	if c.Value == nil || c.Value.Kind != types.KindText || c.Value.Text != "n=14." {
		t.Errorf("chromosomes = %+v, want Text(n=14.)", c.Value)
	}
}

func TestParse_AbsentLabelsAbsentFromTree(t *testing.T) {
	root := Default().Parse("Habit: shrub.")
	if nodes := root.Find("stem"); len(nodes) != 0 {
		t.Errorf("tree contains stem node for a description without one")
	}
}

func TestParse_ColonInProseIsNotALabel(t *testing.T) {
	root := Default().Parse("Note: compare the (Rosa:Woodsii) forms.")

	// A single note clause; "Rosa:" is glued to the paren and can't open one.
	if got := childNames(root); !reflect.DeepEqual(got, []string{"note"}) {
		t.Fatalf("root children = %v, want [note]", got)
	}
}

func TestParse_FullDescription(t *testing.T) {
	root := Default().Parse(rosaDescription)

	want := []string{
		"habit", "stem", "leaf", "inflorescence", "flower", "fruit",
		"chromosomes", "ecology", "elevation", "bioregional distribution",
		"distribution outside california", "flowering time",
	}
	if got := childNames(root); !reflect.DeepEqual(got, want) {
		t.Fatalf("root children = %v, want %v", got, want)
	}

	// Habit: enumerated growth form plus height range.
	form := findOne(t, root, "growth form").Value
	if form.Kind != types.KindEnum || form.Chosen != "shrub" ||
		!reflect.DeepEqual(form.Alternatives, []string{"thicket-forming"}) {
		t.Errorf("growth form = %+v, want Enum(shrub | thicket-forming)", *form)
	}

	// Stem: the prickles sub-clause yields all five fields in order.
	prickles := findOne(t, root, "prickles")
	wantP := []string{"count", "grouping", "length", "shape", "curvature"}
	if got := childNames(prickles); !reflect.DeepEqual(got, wantP) {
		t.Fatalf("prickles children = %v, want %v", got, wantP)
	}
	grouping := prickles.Children[1].Value
	if grouping.Chosen != "paired" || !reflect.DeepEqual(grouping.Alternatives, []string{"not paired"}) {
		t.Errorf("grouping = %+v, want Enum(paired | not paired)", *grouping)
	}

	// Leaf: axis, leaflets, and terminal leaflet in document order.
	leaf := findOne(t, root, "leaf")
	wantL := []string{"axis", "leaflets", "terminal leaflet"}
	if got := childNames(leaf); !reflect.DeepEqual(got, wantL) {
		t.Fatalf("leaf children = %v, want %v", got, wantL)
	}
	hairs := findOne(t, root, "hair length").Value
	if hairs.Kind != types.KindScalar || hairs.Number != 1 || hairs.Unit != "mm" {
		t.Errorf("hair length = %+v, want Scalar(1, mm)", *hairs)
	}

	// Inflorescence: flower count keeps both outlier bounds.
	fc := findOne(t, root, "flower count").Value
	if fc.Low != 3 || fc.High != 30 {
		t.Fatalf("flower count = %+v, want Range(3, 30)", *fc)
	}
	if fc.LowOutlier == nil || *fc.LowOutlier != 1 || fc.HighOutlier == nil || *fc.HighOutlier != 50 {
		t.Errorf("flower count outliers = %v, %v, want 1 and 50", fc.LowOutlier, fc.HighOutlier)
	}

	// Pedicel length carries the approximation marker through.
	pl := findOne(t, root, "pedicels").Children[0].Value
	if pl.Kind != types.KindRange || pl.Low != 5 || pl.High != 20 || !pl.Approximate {
		t.Errorf("pedicel length = %+v, want approximate Range(5, 20)", *pl)
	}

	// Flower: hypanthium width uses the more specific "wide at flower"
	// pattern; decimals survive.
	hw := findOne(t, root, "hypanthium").Children[0].Value
	if hw.Low != 3 || hw.High != 5.5 || hw.Unit != "mm" {
		t.Errorf("hypanthium width = %+v, want Range(3, 5.5, mm)", *hw)
	}

	// Fruit: width range with a high outlier.
	fruit := findOne(t, root, "fruit")
	fw := fruit.Children[0].Value
	if fw.Low != 8 || fw.High != 15 || fw.HighOutlier == nil || *fw.HighOutlier != 20 {
		t.Errorf("fruit width = %+v, want Range(8, 15) with outlier 20", *fw)
	}

	// Schema-less vocabulary labels survive as text leaves.
	eco := findOne(t, root, "ecology")
	if eco.Value == nil || eco.Value.Kind != types.KindText {
		t.Errorf("ecology = %+v, want a text leaf", eco.Value)
	}
}

func TestParse_Deterministic(t *testing.T) {
	p := Default()
	a := p.Parse(rosaDescription).Doc()
	b := p.Parse(rosaDescription).Doc()
	if !reflect.DeepEqual(a, b) {
		t.Error("parsing the same description twice produced different trees")
	}
}

func TestNew_CustomSet(t *testing.T) {
	set, err := schema.CompileSet(schema.SetDef{
		Vocabulary: []string{"ecology"},
		Schemas: []schema.Def{{
			Label: "habit",
			Fields: []schema.FieldDef{
				{Name: "height", Kind: "range", Patterns: []string{`(\d+--\d+ ?[a-z]+)`}},
			},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	root := New(set).Parse("Habit: 8--25 dm. Ecology: moist areas. Stem: prickles few.")

	// stem is outside this set's vocabulary.
	if got := childNames(root); !reflect.DeepEqual(got, []string{"habit", "ecology", UnrecognizedName}) {
		t.Fatalf("root children = %v", got)
	}
}
