package postgres

import (
	"strings"
	"testing"

	"homestock/internal/domain/item"
)

func TestOrderClauses(t *testing.T) {
	tests := []struct {
		name string
		sort []item.SortField
		want []string
	}{
		{
			name: "default ascending",
			sort: item.DefaultSort(),
			want: []string{"expiration ASC"},
		},
		{
			name: "descending",
			sort: []item.SortField{{Column: "amount", Desc: true}},
			want: []string{"amount DESC"},
		},
		{
			name: "mixed directions",
			sort: []item.SortField{
				{Column: "expiration", Desc: true},
				{Column: "name"},
			},
			want: []string{"expiration DESC", "name ASC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orderClauses(tt.sort)
			if len(got) != len(tt.want) {
				t.Fatalf("clause count mismatch\nwant: %v\ngot:  %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("clause %d mismatch\nwant: %s\ngot:  %s", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSearchQuery(t *testing.T) {
	sql, args, err := searchQuery("milk", item.DefaultSort()).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	// Search matches name, barcode and enrichment product name with one
	// case-insensitive pattern each.
	for _, fragment := range []string{
		"name ILIKE $1",
		"barcode ILIKE $2",
		"product_data->>'product_name' ILIKE $3",
		"ORDER BY expiration ASC",
	} {
		if !strings.Contains(sql, fragment) {
			t.Errorf("SQL missing %q\ngot: %s", fragment, sql)
		}
	}
	if strings.Contains(strings.Split(sql, " FROM ")[0], "product_data,") || strings.HasSuffix(strings.Split(sql, " FROM ")[0], "product_data") {
		t.Errorf("search projection must not include enrichment data\ngot: %s", sql)
	}

	if len(args) != 3 {
		t.Fatalf("args count = %d, want 3", len(args))
	}
	for i, arg := range args {
		if arg != "%milk%" {
			t.Errorf("arg %d = %v, want %%milk%%", i, arg)
		}
	}
}
