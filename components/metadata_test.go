package components

import (
	"testing"

	"github.com/pthm-cable/gridsoup/traits"
)

func TestAgeShade(t *testing.T) {
	tests := []struct {
		age  int
		want uint8
	}{
		{0, 100},
		{1, 110},
		{15, 250},
		{16, 255},
		{1000, 255},
		{-3, 100},
	}
	for _, tt := range tests {
		if got := AgeShade(tt.age); got != tt.want {
			t.Errorf("AgeShade(%d) = %d, want %d", tt.age, got, tt.want)
		}
	}
}

func TestGeneFieldDescriptorsFollowGeneOrder(t *testing.T) {
	fields := GeneFieldDescriptors()
	if len(fields) != traits.NumTraits+1 {
		t.Fatalf("got %d gene fields, want %d", len(fields), traits.NumTraits+1)
	}
	for i, name := range traits.Names {
		if fields[i].ID != name {
			t.Errorf("field %d is %q, want %q", i, fields[i].ID, name)
		}
		if !fields[i].IsBar {
			t.Errorf("field %q should render as a bar", name)
		}
	}
	if last := fields[traits.NumTraits]; last.ID != "point_funds" || last.IsBar {
		t.Errorf("last field = %+v, want plain point_funds", last)
	}
}
