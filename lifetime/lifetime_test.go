package lifetime

import "testing"

func TestForEachSelector(t *testing.T) {
	for _, s := range []Selector{L8, L18, L32} {
		p := For(s)
		if p.LogLifetime == 0 {
			t.Fatalf("%v: LogLifetime must be set", s)
		}
		if p.Epochs() != uint64(1)<<p.LogLifetime {
			t.Fatalf("%v: Epochs() = %d, want 2^%d", s, p.Epochs(), p.LogLifetime)
		}
		if p.BottomTreeSize() != uint64(1)<<p.TopDepth() {
			t.Fatalf("%v: BottomTreeSize() must equal 2^TopDepth()", s)
		}
		if 2*p.TopDepth() != uint(p.LogLifetime) {
			t.Fatalf("%v: TopDepth()*2 must equal LogLifetime", s)
		}
		if p.ParamTag() != p.LogLifetime {
			t.Fatalf("%v: ParamTag() must currently equal LogLifetime", s)
		}
	}
}

func TestSelectorsAreDistinguishable(t *testing.T) {
	tags := map[uint8]Selector{}
	for _, s := range []Selector{L8, L18, L32} {
		tag := For(s).ParamTag()
		if other, ok := tags[tag]; ok {
			t.Fatalf("selectors %v and %v collide on ParamTag %d", s, other, tag)
		}
		tags[tag] = s
	}
}

func TestString(t *testing.T) {
	cases := map[Selector]string{L8: "2^8", L18: "2^18", L32: "2^32"}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("%v.String() = %q, want %q", s, got, want)
		}
	}
}
