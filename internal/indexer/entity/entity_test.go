package entity

import (
	"reflect"
	"testing"
)

func TestAddLookup(t *testing.T) {
	x := New("person", 8)
	x.Add("Jane Doe", 0)
	x.Add("jane  doe", 2)
	x.Add("Jane Doe", 2)
	x.Add("John Smith", 1)
	x.Add("   ", 3)

	tests := []struct {
		name   string
		want   []uint32
		wantOK bool
	}{
		{"Jane Doe", []uint32{0, 2}, true},
		{"JANE DOE", []uint32{0, 2}, true},
		{" John\tSmith ", []uint32{1}, true},
		{"Nobody", []uint32{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, ok := x.Lookup(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got := set.ToArray(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("docs = %v, want %v", got, tt.want)
			}
		})
	}
	if x.Len() != 2 {
		t.Errorf("Len = %d, want 2", x.Len())
	}
	if x.Kind() != "person" {
		t.Errorf("Kind = %q", x.Kind())
	}
	if x.Buckets() != 8 {
		t.Errorf("Buckets = %d, want 8", x.Buckets())
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"Acme Corp":        "acme corp",
		"  Acme \n Corp  ": "acme corp",
		"":                 "",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
