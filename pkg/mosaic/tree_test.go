package mosaic

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

type splitShape struct {
	dir Direction
	pct float64
}

func shapes(l *Layout) []splitShape {
	var out []splitShape
	l.Walk(func(n Node, _ int) {
		if n.IsSplit() {
			out = append(out, splitShape{n.Direction, n.SplitPercentage})
		}
	})
	return out
}

func TestFromTree_Leaf(t *testing.T) {
	l := FromTree(Leaf("only"))
	assertTiles(t, l, "only")
	if l.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", l.NodeCount())
	}
	mustValidate(t, l)
}

func TestFromTree_Nil(t *testing.T) {
	l := FromTree(nil)
	if !l.IsEmpty() {
		t.Error("FromTree(nil) not empty")
	}
}

func TestFromTree_ParentFirstIDs(t *testing.T) {
	l := editorLayout()
	rootID, _ := l.Root()
	if rootID != "node_0" {
		t.Errorf("root = %q, want node_0", rootID)
	}
	for _, n := range l.Nodes() {
		if n.HasParent() && compareIDs(n.Parent, n.ID) >= 0 {
			t.Errorf("node %q created before its parent %q", n.ID, n.Parent)
		}
	}
	mustValidate(t, l)
}

func TestFromTree_ClampsPercentage(t *testing.T) {
	l := FromTree(VerticalTree(Leaf("a"), HorizontalTree(Leaf("b"), Leaf("c"), 95), 10))
	want := []splitShape{{Vertical, 20}, {Horizontal, 80}}
	if got := shapes(l); !slices.Equal(got, want) {
		t.Errorf("splits = %v, want %v", got, want)
	}
	mustValidate(t, l)
}

func TestFromTree_CollapsesHalfSplit(t *testing.T) {
	l := FromTree(HorizontalTree(Leaf("a"), &Tree{Direction: Vertical, Second: Leaf("b")}, 50))
	assertTiles(t, l, "a", "b")
	if l.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", l.NodeCount())
	}
	mustValidate(t, l)
}

func TestToTree_Empty(t *testing.T) {
	if tree, ok := Empty().ToTree(); ok || tree != nil {
		t.Errorf("ToTree() = %v, %v, want nil, false", tree, ok)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	trees := []*Tree{
		Leaf("solo"),
		HorizontalTree(Leaf("a"), Leaf("b"), 40),
		HorizontalTree(
			Leaf("sidebar"),
			VerticalTree(Leaf("editor"), VerticalTree(Leaf("console"), Leaf("log"), 75), 70),
			25,
		),
		VerticalTree(HorizontalTree(Leaf("a"), Leaf("b"), 5), Leaf("c"), 100),
	}
	for _, tree := range trees {
		l1 := FromTree(tree)
		back, ok := l1.ToTree()
		if !ok {
			t.Fatal("ToTree() = false")
		}
		l2 := FromTree(back)
		mustValidate(t, l2)
		if !slices.Equal(l1.AllTiles(), l2.AllTiles()) {
			t.Errorf("tiles = %v, want %v", l2.AllTiles(), l1.AllTiles())
		}
		if !slices.Equal(shapes(l1), shapes(l2)) {
			t.Errorf("splits = %v, want %v", shapes(l2), shapes(l1))
		}
		if !slices.Equal(tree.Tiles(), l1.AllTiles()) {
			t.Errorf("Tree.Tiles() = %v, want %v", tree.Tiles(), l1.AllTiles())
		}
	}
}

func TestTreeJSON(t *testing.T) {
	tree := HorizontalTree(Leaf("a"), VerticalTree(Leaf("b"), Leaf("c"), 70), 40)
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := `{"Split":{"direction":"Horizontal","first":{"Leaf":"a"},` +
		`"second":{"Split":{"direction":"Vertical","first":{"Leaf":"b"},"second":{"Leaf":"c"},"split_percentage":70}},` +
		`"split_percentage":40}}`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}

	var back Tree
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !slices.Equal(back.Tiles(), tileIDs("a", "b", "c")) {
		t.Errorf("Tiles() = %v", back.Tiles())
	}
	if back.Second.Direction != Vertical || back.Second.SplitPercentage != 70 {
		t.Errorf("nested split = %+v", back.Second)
	}
}

func TestTreeJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty object", `{}`},
		{"both variants", `{"Leaf":"a","Split":{"direction":"Horizontal","first":{"Leaf":"a"},"second":{"Leaf":"b"},"split_percentage":50}}`},
		{"missing child", `{"Split":{"direction":"Horizontal","first":{"Leaf":"a"},"split_percentage":50}}`},
		{"bad direction", `{"Split":{"direction":"Diagonal","first":{"Leaf":"a"},"second":{"Leaf":"b"},"split_percentage":50}}`},
		{"not json", `Leaf`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tree Tree
			if err := json.Unmarshal([]byte(tt.input), &tree); err == nil {
				t.Errorf("Unmarshal(%s) succeeded", tt.input)
			}
		})
	}

	var tree Tree
	err := json.Unmarshal([]byte(`{"Split":{"direction":"Vertical","second":{"Leaf":"b"}}}`), &tree)
	if !errors.Is(err, ErrIncompleteSplit) {
		t.Errorf("err = %v, want ErrIncompleteSplit", err)
	}
}
