package strokematch

import (
	"testing"

	"github.com/pkg/errors"
)

func TestMatchStrokeOrder(t *testing.T) {
	horizontal := Stroke{{X: 100, Y: 500}, {X: 900, Y: 500}}
	vertical := Stroke{{X: 500, Y: 900}, {X: 500, Y: 100}}
	reference := []Stroke{horizontal, vertical}

	tests := []struct {
		name       string
		user       []Stroke
		assignment []int
		reversed   []bool
		inOrder    bool
	}{
		{"same order", []Stroke{horizontal, vertical}, []int{0, 1}, []bool{false, false}, true},
		{"swapped order", []Stroke{vertical, horizontal}, []int{1, 0}, []bool{false, false}, false},
		{"reversed direction", []Stroke{horizontal.Reversed(), vertical}, []int{0, 1}, []bool{true, false}, false},
		{"missing stroke", []Stroke{vertical}, []int{1}, []bool{false}, false},
		{"extra stroke", []Stroke{horizontal, vertical, {{X: 0, Y: 0}, {X: 10, Y: 10}}}, []int{0, 1, -1}, []bool{false, false, false}, false},
	}
	for _, tt := range tests {
		order, err := MatchStrokeOrder(reference, tt.user)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if len(order.Assignment) != len(tt.assignment) {
			t.Errorf("%s: expected assignment %v, got %v", tt.name, tt.assignment, order.Assignment)
			continue
		}
		for i := range tt.assignment {
			if order.Assignment[i] != tt.assignment[i] {
				t.Errorf("%s: expected assignment %v, got %v", tt.name, tt.assignment, order.Assignment)
				break
			}
			if order.Reversed[i] != tt.reversed[i] {
				t.Errorf("%s: expected reversed %v, got %v", tt.name, tt.reversed, order.Reversed)
				break
			}
		}
		if order.InOrder != tt.inOrder {
			t.Errorf("%s: expected in order %v, got %v", tt.name, tt.inOrder, order.InOrder)
		}
	}
}

func TestMatchStrokeOrderErrors(t *testing.T) {
	if _, err := MatchStrokeOrder(nil, []Stroke{{{X: 0, Y: 0}, {X: 1, Y: 1}}}); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("Expected ErrInvalidParameters, got %v", err)
	}
	reference := []Stroke{{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	if _, err := MatchStrokeOrder(reference, []Stroke{{{X: 3, Y: 3}}}); !errors.Is(err, ErrDegenerateStroke) {
		t.Errorf("Expected ErrDegenerateStroke, got %v", err)
	}
}
