package services

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var sampleTags = []string{
	"v1.15.1",
	"v1.15.0",
	"v1.14.2",
	"v1.14.1",
	"v1.14.0",
	"v1.14.0-beta.0",
	"v1.7.9",
}

func TestExcludeTags(t *testing.T) {
	tests := []struct {
		name       string
		tags       []string
		exclusions []string
		want       []string
	}{
		{
			name:       "drops beta and v1.7",
			tags:       sampleTags,
			exclusions: []string{"beta", "v1.7"},
			want:       []string{"v1.15.1", "v1.15.0", "v1.14.2", "v1.14.1", "v1.14.0"},
		},
		{
			name:       "no exclusions keeps everything",
			tags:       sampleTags,
			exclusions: nil,
			want:       sampleTags,
		},
		{
			name:       "empty substring is ignored",
			tags:       []string{"v1.1.0", "v1.2.0"},
			exclusions: []string{""},
			want:       []string{"v1.1.0", "v1.2.0"},
		},
		{
			name:       "everything excluded",
			tags:       []string{"v1.8.0", "v1.8.1"},
			exclusions: []string{"v1.8"},
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExcludeTags(tt.tags, tt.exclusions)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExcludeTags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLatestPerFamily(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{
			name: "newest patch per family",
			tags: []string{"v1.15.1", "v1.15.0", "v1.14.2", "v1.14.1", "v1.13.1"},
			want: []string{"v1.15.1", "v1.14.2", "v1.13.1"},
		},
		{
			name: "first seen wins even when interleaved",
			tags: []string{"v1.15.1", "v1.14.2", "v1.15.0", "v1.14.1"},
			want: []string{"v1.15.1", "v1.14.2"},
		},
		{
			name: "major versions are separate families",
			tags: []string{"v2.1.0", "v1.1.3", "v1.1.2"},
			want: []string{"v2.1.0", "v1.1.3"},
		},
		{
			name: "empty input",
			tags: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LatestPerFamily(tt.tags)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LatestPerFamily() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckFamilyOrder(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		wantErr bool
	}{
		{name: "sorted", tags: sampleTags},
		{name: "families interleaved but each newest first", tags: []string{"v1.15.1", "v1.14.2", "v1.15.0"}},
		{name: "patch out of order", tags: []string{"v1.15.0", "v1.15.1"}, wantErr: true},
		{name: "prerelease after release is fine", tags: []string{"v1.14.0", "v1.14.0-beta.0"}},
		{name: "release after prerelease is not", tags: []string{"v1.14.0-beta.0", "v1.14.0"}, wantErr: true},
		{name: "unparseable tags ignored", tags: []string{"nightly", "v1.2.0", "latest"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFamilyOrder(tt.tags)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFamilyOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrFamilyOrder) {
				t.Errorf("CheckFamilyOrder() error = %v, want ErrFamilyOrder", err)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tags := []string{"v1.15.1", "v1.14.2", "v1.13.1"}
	tests := []struct {
		n    int
		want []string
	}{
		{n: 0, want: tags},
		{n: -1, want: tags},
		{n: 1, want: []string{"v1.15.1"}},
		{n: 2, want: []string{"v1.15.1", "v1.14.2"}},
		{n: 10, want: tags},
	}

	for _, tt := range tests {
		got := Truncate(tags, tt.n)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Truncate(n=%d) mismatch (-want +got):\n%s", tt.n, diff)
		}
	}
}

func TestSelectVersions(t *testing.T) {
	exclusions := []string{"beta", "v1.7"}

	got, err := SelectVersions(sampleTags, exclusions, 0, true)
	if err != nil {
		t.Fatalf("SelectVersions() error = %v", err)
	}
	if diff := cmp.Diff([]string{"v1.15.1", "v1.14.2"}, got); diff != "" {
		t.Errorf("SelectVersions() mismatch (-want +got):\n%s", diff)
	}

	got, err = SelectVersions(sampleTags, exclusions, 1, true)
	if err != nil {
		t.Fatalf("SelectVersions(n=1) error = %v", err)
	}
	if diff := cmp.Diff([]string{"v1.15.1"}, got); diff != "" {
		t.Errorf("SelectVersions(n=1) mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectVersions_Idempotent(t *testing.T) {
	exclusions := []string{"beta", "v1.7"}

	first, err := SelectVersions(sampleTags, exclusions, 0, true)
	if err != nil {
		t.Fatalf("first pass error = %v", err)
	}
	second, err := SelectVersions(first, exclusions, 0, true)
	if err != nil {
		t.Fatalf("second pass error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass changed the selection (-first +second):\n%s", diff)
	}
}

func TestSelectVersions_Unordered(t *testing.T) {
	tags := []string{"v1.15.0", "v1.15.1"}

	if _, err := SelectVersions(tags, nil, 0, true); !errors.Is(err, ErrFamilyOrder) {
		t.Errorf("strict SelectVersions() error = %v, want ErrFamilyOrder", err)
	}

	got, err := SelectVersions(tags, nil, 0, false)
	if err != nil {
		t.Fatalf("lenient SelectVersions() error = %v", err)
	}
	if diff := cmp.Diff([]string{"v1.15.0"}, got); diff != "" {
		t.Errorf("lenient SelectVersions() mismatch (-want +got):\n%s", diff)
	}
}
