package location

import "testing"

func TestDeriveIDDeterministic(t *testing.T) {
	a := Location{Name: "New York", State: "New York", Country: "US", Lat: 40.7127281, Lon: -74.0060152}
	b := Location{Name: "New York", State: "New York", Country: "US", Lat: 40.71274, Lon: -74.00603}

	// Coordinates agree to 4 decimal places, so the IDs must match.
	if DeriveID(a) != DeriveID(b) {
		t.Fatalf("expected equal IDs, got %q and %q", DeriveID(a), DeriveID(b))
	}

	want := "new-york-new-york-us-40.7127--74.0060"
	if got := DeriveID(a); got != want {
		t.Fatalf("expected ID %q, got %q", want, got)
	}
}

func TestDeriveIDOmitsEmptyState(t *testing.T) {
	loc := Location{Name: "London", Country: "GB", Lat: 51.5073219, Lon: -0.1276474}

	want := "london-gb-51.5073--0.1276"
	if got := DeriveID(loc); got != want {
		t.Fatalf("expected ID %q, got %q", want, got)
	}
}

func TestDeriveIDDistinguishesCoordinates(t *testing.T) {
	a := Location{Name: "Springfield", Country: "US", Lat: 39.7817, Lon: -89.6501}
	b := Location{Name: "Springfield", Country: "US", Lat: 42.1015, Lon: -72.5898}

	if DeriveID(a) == DeriveID(b) {
		t.Fatalf("different coordinates must produce different IDs")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{
			name: "with state",
			loc:  Location{Name: "Denver", State: "Colorado", Country: "US"},
			want: "Denver, Colorado, US",
		},
		{
			name: "without state",
			loc:  Location{Name: "Paris", Country: "FR"},
			want: "Paris, FR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.loc); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
