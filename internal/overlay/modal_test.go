package overlay

import "testing"

func TestPlace(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		fg   string
		bg   string
		want string
	}{
		{
			name: "inside",
			x:    1, y: 1,
			fg:   "ab\ncd",
			bg:   "......\n......\n......",
			want: "......\n.ab...\n.cd...",
		},
		{
			name: "pads short background lines",
			x:    4, y: 0,
			fg:   "xy",
			bg:   "..",
			want: "..  xy",
		},
		{
			name: "extends background rows",
			x:    0, y: 1,
			fg:   "a\nb",
			bg:   "...",
			want: "...\na\nb",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Place(tc.x, tc.y, tc.fg, tc.bg); got != tc.want {
				t.Fatalf("expected\n%q\ngot\n%q", tc.want, got)
			}
		})
	}
}
