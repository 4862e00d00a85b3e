package typeid

import (
	"strings"
	"testing"
)

func TestNewSkeletonID(t *testing.T) {
	a, b := NewSkeletonID(), NewSkeletonID()
	if !strings.HasPrefix(a, PrefixSkeleton+"_") {
		t.Errorf("id %q lacks prefix", a)
	}
	if a == b {
		t.Errorf("ids repeat: %q", a)
	}
	if err := Validate(a, PrefixSkeleton); err != nil {
		t.Errorf("Validate(%q): %v", a, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", NewSkeletonID(), false},
		{"wrong prefix", New("user"), true},
		{"garbage", "skel_not-an-id", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id, PrefixSkeleton)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
