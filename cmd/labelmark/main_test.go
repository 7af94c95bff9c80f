package main

import (
	"reflect"
	"testing"
)

func TestRewriteImageLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"labelmark"},
			want: []string{"labelmark"},
		},
		{
			name: "image key first token",
			in:   []string{"labelmark", "img-12"},
			want: []string{"labelmark", "images", "show", "img-12"},
		},
		{
			name: "image key after value flag",
			in:   []string{"labelmark", "--api-url", "http://api.test/api/v1", "img-12"},
			want: []string{"labelmark", "--api-url", "http://api.test/api/v1", "images", "show", "img-12"},
		},
		{
			name: "image key after equals flag",
			in:   []string{"labelmark", "--format=yaml", "img-12"},
			want: []string{"labelmark", "--format=yaml", "images", "show", "img-12"},
		},
		{
			name: "image key after bool flag",
			in:   []string{"labelmark", "--pretty", "img-12"},
			want: []string{"labelmark", "--pretty", "images", "show", "img-12"},
		},
		{
			name: "image key after double dash",
			in:   []string{"labelmark", "--timeout", "5s", "--", "img-12"},
			want: []string{"labelmark", "--timeout", "5s", "images", "show", "--", "img-12"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"labelmark", "images", "show", "img-12"},
			want: []string{"labelmark", "images", "show", "img-12"},
		},
		{
			name: "non-numeric key not rewritten",
			in:   []string{"labelmark", "img-abc"},
			want: []string{"labelmark", "img-abc"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"labelmark", "wat"},
			want: []string{"labelmark", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := rewriteImageLookupArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteImageLookupArgs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
