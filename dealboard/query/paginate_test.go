package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/web-source-dev/dealboard/types"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		spec types.PaginationSpec
		want Page[int]
	}{
		{
			name: "first page",
			spec: types.PaginationSpec{PageIndex: 0, PageSize: 2},
			want: Page[int]{Items: []int{1, 2}, TotalPages: 3, PageIndex: 0},
		},
		{
			name: "partial last page",
			spec: types.PaginationSpec{PageIndex: 2, PageSize: 2},
			want: Page[int]{Items: []int{5}, TotalPages: 3, PageIndex: 2},
		},
		{
			name: "clamped past the end",
			spec: types.PaginationSpec{PageIndex: 9, PageSize: 2},
			want: Page[int]{Items: []int{5}, TotalPages: 3, PageIndex: 2, Clamped: true},
		},
		{
			name: "exact fit",
			spec: types.PaginationSpec{PageIndex: 0, PageSize: 5},
			want: Page[int]{Items: []int{1, 2, 3, 4, 5}, TotalPages: 1, PageIndex: 0},
		},
		{
			name: "unpaginated",
			spec: types.Unpaginated(),
			want: Page[int]{Items: []int{1, 2, 3, 4, 5}, TotalPages: 1, PageIndex: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paginate(items, tt.spec)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Paginate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	got, err := Paginate([]string{}, types.PaginationSpec{PageIndex: 3, PageSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	want := Page[string]{Items: []string{}, TotalPages: 1, PageIndex: 0, Clamped: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Paginate(empty) mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginateDoesNotAlias(t *testing.T) {
	items := []int{1, 2, 3}
	got, err := Paginate(items, types.PaginationSpec{PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	got.Items[0] = 99
	if items[0] != 1 {
		t.Error("page shares storage with the input")
	}
}

func TestPaginateInvalid(t *testing.T) {
	for _, spec := range []types.PaginationSpec{
		{PageSize: 0},
		{PageSize: -3},
		{PageIndex: -1, PageSize: 10},
	} {
		if _, err := Paginate([]int{1}, spec); !types.IsConfigError(err) {
			t.Errorf("Paginate(%+v) error = %v, want a config error", spec, err)
		}
	}
}
