package api

import "testing"

func TestLatestCacheUpsertGet(t *testing.T) {
	c := NewLatestCache()
	if _, ok := c.Get("b1"); ok {
		t.Fatal("empty cache should miss")
	}
	c.Upsert("b1", 1, 2, 50, 0.1, 0.2, "2025-06-01T08:00:00Z")
	c.Upsert("b1", 1, 2, 60, 0.1, 0.2, "2025-06-01T09:00:00Z")
	got, ok := c.Get("b1")
	if !ok || got.Fill != 60 {
		t.Fatalf("got %+v ok=%v, want latest fill 60", got, ok)
	}
}

func TestLatestCacheIgnoresEmptyID(t *testing.T) {
	c := NewLatestCache()
	c.Upsert("", 1, 2, 50, 0, 0, "")
	if len(c.List()) != 0 {
		t.Fatal("empty bin id should not be stored")
	}
}

func TestLatestCacheListSorted(t *testing.T) {
	c := NewLatestCache()
	c.Upsert("b2", 0, 0, 10, 0, 0, "")
	c.Upsert("b1", 0, 0, 20, 0, 0, "")
	list := c.List()
	if len(list) != 2 || list[0].BinID != "b1" || list[1].BinID != "b2" {
		t.Fatalf("list = %+v, want sorted by bin id", list)
	}
}
