package item

import (
	"testing"

	"homestock/internal/core/apperror"
)

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []SortField
		wantErr bool
	}{
		{
			name: "empty spec yields default",
			spec: "",
			want: []SortField{{Column: "expiration"}},
		},
		{
			name: "whitespace spec yields default",
			spec: "   ",
			want: []SortField{{Column: "expiration"}},
		},
		{
			name: "single ascending field",
			spec: "name",
			want: []SortField{{Column: "name"}},
		},
		{
			name: "single descending field",
			spec: "-amount",
			want: []SortField{{Column: "amount", Desc: true}},
		},
		{
			name: "camelCase field maps to column",
			spec: "createdAt",
			want: []SortField{{Column: "created_at"}},
		},
		{
			name: "multiple fields",
			spec: "-expiration,name",
			want: []SortField{
				{Column: "expiration", Desc: true},
				{Column: "name"},
			},
		},
		{
			name:    "unknown field rejected",
			spec:    "id",
			wantErr: true,
		},
		{
			name:    "unknown field among valid ones rejected",
			spec:    "name,shelf",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSortSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if appErr, ok := apperror.AsAppError(err); !ok || appErr.Code != apperror.CodeValidation {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSortSpec failed: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("field count mismatch\nwant: %v\ngot:  %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field %d mismatch\nwant: %+v\ngot:  %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}
