package fingerprint

import "testing"

func sampleItems() []Item {
	return []Item{
		{ID: "b2", Title: "Severance", MediaType: "series", Creator: "Dan Erickson", ReleaseDate: "2022-02-18", Status: "watching"},
		{ID: "a1", Title: "Hades", MediaType: "game", Creator: "Supergiant Games", ReleaseDate: "2020-09-17", Status: "completed"},
		{ID: "c3", Title: "Random Access Memories", MediaType: "music", Creator: "Daft Punk", ReleaseDate: "2013-05-17", Status: "owned"},
	}
}

func TestBuild_Deterministic(t *testing.T) {
	first := Build(sampleItems())
	second := Build(sampleItems())

	if first != second {
		t.Errorf("Expected identical fingerprints for identical input, got %q and %q", first, second)
	}
	if len(first) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(first))
	}
}

func TestBuild_OrderInsensitive(t *testing.T) {
	items := sampleItems()
	reversed := make([]Item, len(items))
	for i, item := range items {
		reversed[len(items)-1-i] = item
	}

	if Build(items) != Build(reversed) {
		t.Error("Expected fingerprint to be independent of input order")
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	firstID := items[0].ID

	Build(items)

	if items[0].ID != firstID {
		t.Error("Expected Build to leave the input slice untouched")
	}
}

func TestBuild_SensitiveToChanges(t *testing.T) {
	base := Build(sampleItems())

	mutations := []struct {
		name   string
		mutate func(items []Item)
	}{
		{"status change", func(items []Item) { items[0].Status = "completed" }},
		{"title change", func(items []Item) { items[1].Title = "Hades II" }},
		{"creator change", func(items []Item) { items[2].Creator = "Justice" }},
		{"release date change", func(items []Item) { items[0].ReleaseDate = "2022-02-19" }},
		{"media type change", func(items []Item) { items[1].MediaType = "movie" }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			items := sampleItems()
			tt.mutate(items)
			if Build(items) == base {
				t.Error("Expected fingerprint to change")
			}
		})
	}
}

func TestBuild_AddRemoveItems(t *testing.T) {
	items := sampleItems()
	base := Build(items)

	added := append(sampleItems(), Item{ID: "d4", Title: "Dune", MediaType: "movie", Status: "wishlist"})
	if Build(added) == base {
		t.Error("Expected fingerprint to change when an item is added")
	}

	if Build(items[:2]) == base {
		t.Error("Expected fingerprint to change when an item is removed")
	}
}

func TestBuild_Empty(t *testing.T) {
	empty := Build(nil)
	alsoEmpty := Build([]Item{})

	if empty != alsoEmpty {
		t.Errorf("Expected nil and empty slices to produce the same fingerprint")
	}
	if empty == Build(sampleItems()) {
		t.Error("Expected empty fingerprint to differ from a populated one")
	}
}
