package stage

import "testing"

func TestValidateName(t *testing.T) {
	if err := ValidateName("In Review"); err != nil {
		t.Fatalf("valid name rejected: %v", err)
	}
	for _, bad := range []string{"", " padded", "with\ttab", string(make([]byte, MaxNameLength+1))} {
		if err := ValidateName(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNormalizeOrders(t *testing.T) {
	metas := []Meta{
		{Name: "Done", Order: 9},
		{Name: "Todo", Order: 1},
		{Name: "Doing", Order: 4},
	}
	NormalizeOrders(metas)

	want := []string{"Todo", "Doing", "Done"}
	for i, name := range want {
		if metas[i].Name != name || metas[i].Order != i {
			t.Fatalf("position %d: expected %s/%d, got %s/%d", i, name, i, metas[i].Name, metas[i].Order)
		}
	}
}

func TestUnmarshalListLegacy(t *testing.T) {
	metas, err := UnmarshalList([]byte(`["Todo","Doing","Done"]`))
	if err != nil {
		t.Fatalf("legacy list failed: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("expected 3 metas, got %d", len(metas))
	}
	if metas[2].Name != "Done" || metas[2].Order != 2 {
		t.Fatalf("legacy order not preserved: %+v", metas[2])
	}
}

func TestUnmarshalListSorts(t *testing.T) {
	metas, err := UnmarshalList([]byte(`[{"name":"B","order":2},{"name":"A","order":1}]`))
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if metas[0].Name != "A" {
		t.Fatalf("expected sorted metas, got %+v", metas)
	}
}
