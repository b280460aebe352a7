package utils

import "testing"

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		want      string
	}{
		{"single name single surname", "Ana", "Diaz", "a.diaz"},
		{"short surname kept whole", "Ana", "Gil", "a.gil"},
		{"long surname truncated to four", "Pedro", "Martinez", "p.mart"},
		{"two first names", "Jose Luis", "Garcia Perez", "jl.garp"},
		{"accents stripped", "María", "Pérez", "m.pere"},
		{"accented double surname", "Ángel", "Muñoz López", "a.munl"},
		{"extra whitespace ignored", "  Ana  ", "  Diaz  ", "a.diaz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveUsername(tt.firstName, tt.lastName); got != tt.want {
				t.Fatalf("DeriveUsername(%q, %q) = %q, want %q", tt.firstName, tt.lastName, got, tt.want)
			}
		})
	}
}
