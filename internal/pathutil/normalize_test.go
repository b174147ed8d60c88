package pathutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"/data/":       "/data",
		"/data/./a/..": "/data",
		"rel/dir/":     "rel/dir",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBreadcrumb(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, "/"},
		{[]string{"Folder", "Folder2"}, "/Folder/Folder2"},
		{[]string{"/home/user", "src"}, "/home/user/src"},
		{[]string{"/"}, "/"},
	}
	for _, tt := range tests {
		if got := Breadcrumb(tt.names); got != tt.want {
			t.Fatalf("Breadcrumb(%q) = %q, want %q", tt.names, got, tt.want)
		}
	}
}
