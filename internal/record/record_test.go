package record

import "testing"

func TestParentRef(t *testing.T) {
	if !TopLevel().IsTopLevel() || (ParentRef{}) != TopLevel() {
		t.Fatalf("zero value must be top-level")
	}
	if ParentFromInt(NoParent) != TopLevel() {
		t.Fatalf("NoParent should map to top-level")
	}

	p := ParentFromInt(0)
	if id, ok := p.ID(); !ok || id != 0 {
		t.Fatalf("ParentFromInt(0) = %v, want parent 0", p)
	}
	if p.Int() != 0 || TopLevel().Int() != NoParent {
		t.Fatalf("unexpected integer forms")
	}
	if p.String() != "0" || TopLevel().String() != "top-level" {
		t.Fatalf("unexpected strings: %q %q", p.String(), TopLevel().String())
	}
}
