package main

import (
	"testing"

	"github.com/Faultbox/meshgauss/pkg/math"
)

func TestParseMat3(t *testing.T) {
	tests := []struct {
		in      string
		want    math.Mat3
		wantErr bool
	}{
		{"1,0,0,0,1,0,0,0,1", math.Mat3Identity(), false},
		{" 2, 0.5,0, 0.5,3,0, 0,0,4 ", math.Mat3{2, 0.5, 0, 0.5, 3, 0, 0, 0, 4}, false},
		{"1,2,3", math.Mat3{}, true},
		{"1,0,0,0,x,0,0,0,1", math.Mat3{}, true},
	}

	for _, tt := range tests {
		got, err := parseMat3(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMat3(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMat3(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
