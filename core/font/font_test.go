package font

import (
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	xfont "golang.org/x/image/font"
)

type sw struct {
	s xfont.Style
	w xfont.Weight
}

func TestGuess(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	for k, v := range map[string]sw{
		"fonts/Clarendon-bold.ttf":               {xfont.StyleNormal, xfont.WeightBold},
		"Microsoft/Gill Sans MT Bold Italic.ttf": {xfont.StyleItalic, xfont.WeightBold},
		"Cambria Math.ttf":                       {xfont.StyleNormal, xfont.WeightNormal},
	} {
		style, weight := GuessStyleAndWeight(k)
		t.Logf("style = %d, weight = %d", style, weight)
		if style != v.s || weight != v.w {
			t.Errorf("expected different style or weight for %s", k)
		}
	}
}

func TestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	if ok, _ := Matches("fonts/Clarendon-bold.ttf", xfont.StyleNormal, xfont.WeightBold); !ok {
		t.Errorf("expected match for Clarendon, haven't")
	}
	if ok, _ := Matches("Microsoft/Gill Sans MT Bold Italic.ttf", xfont.StyleItalic, xfont.WeightBold); !ok {
		t.Errorf("expected match for Gill, haven't")
	}
	if ok, _ := Matches("Cambria Math.ttf", xfont.StyleNormal, xfont.WeightNormal); !ok {
		t.Errorf("expected match for Cambria Math, haven't")
	}
	if ok, conf := Matches("Cambria Math.ttf", xfont.StyleItalic, xfont.WeightBlack); ok || conf != NoMatch {
		t.Errorf("expected no match for Cambria Math against italic/black")
	}
}

func TestClosestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	candidates := []string{"Clarendon-Regular.ttf", "Clarendon-Bold.ttf", "Clarendon-BoldItalic.ttf"}
	i := ClosestMatch(candidates, xfont.StyleItalic, xfont.WeightBold)
	if i != 2 {
		t.Errorf("expected closest match to be Clarendon-BoldItalic.ttf, got index %d", i)
	}
}

func TestNormalizeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	n := NormalizeFontname("Clarendon", xfont.StyleItalic, xfont.WeightBold)
	if n != "clarendon/italic/3" {
		t.Errorf("expected different normalized name for clarendon, got %s", n)
	}
}

func TestOpenOpenTypeCaseCreation(t *testing.T) {
	f := FallbackFont()
	tc, err := f.PrepareCase(12.0)
	if err != nil {
		t.Logf("cannot create OT face for [%s]\n", f.Fontname)
		t.Fatal(err)
	}
	metrics := tc.font.Metrics()
	fmt.Printf("interline spacing for [%s]@%.1fpt is %s\n", f.Fontname, tc.size, metrics.Height)
}

func TestTypefaceIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	f := FallbackFont()
	tf1 := NewTypeface(f)
	tf2 := NewTypeface(f)
	if tf1.UniqueID() != tf2.UniqueID() {
		t.Errorf("expected two typefaces over the same font to share an identity")
	}
	other := NewTypeface(FallbackFont())
	if tf1.UniqueID() != other.UniqueID() {
		t.Errorf("expected fallback font singleton to yield a stable identity")
	}
}
