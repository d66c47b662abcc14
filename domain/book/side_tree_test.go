package book

import "testing"

func TestSideTreeUpsertFindDelete(t *testing.T) {
	tree := NewSideTree(Ask)
	pl1 := tree.Upsert(1000000)
	if pl1 == nil {
		t.Fatal("Upsert failed")
	}
	if pl2 := tree.Find(1000000); pl2 != pl1 {
		t.Error("Find did not return same PriceLevel")
	}

	tree.Upsert(2000000)
	if tree.Best().Price != 1000000 {
		t.Error("expected ask best=1000000")
	}

	if !tree.Delete(1000000) {
		t.Error("Delete failed")
	}
	if tree.Find(1000000) != nil {
		t.Error("expected level 1000000 to be gone")
	}
}

func TestSideTreeOrderingPerSide(t *testing.T) {
	prices := []int64{195900, 195500, 196020, 195500, 194000}

	asks := NewSideTree(Ask)
	bids := NewSideTree(Bid)
	for _, p := range prices {
		asks.Upsert(p)
		bids.Upsert(p)
	}

	if asks.Size() != 4 || bids.Size() != 4 {
		t.Fatalf("duplicate upsert changed size: asks=%d bids=%d", asks.Size(), bids.Size())
	}
	if asks.Best().Price != 194000 {
		t.Errorf("ask best should be lowest price, got %d", asks.Best().Price)
	}
	if bids.Best().Price != 196020 {
		t.Errorf("bid best should be highest price, got %d", bids.Best().Price)
	}

	wantAsks := []int64{194000, 195500, 195900, 196020}
	for k, want := range wantAsks {
		if got := asks.AtRank(k).Price; got != want {
			t.Errorf("ask rank %d: got %d want %d", k, got, want)
		}
	}
	wantBids := []int64{196020, 195900, 195500, 194000}
	for k, want := range wantBids {
		if got := bids.AtRank(k).Price; got != want {
			t.Errorf("bid rank %d: got %d want %d", k, got, want)
		}
	}
}

func TestSideTreeRankOutOfRange(t *testing.T) {
	tree := NewSideTree(Bid)
	if tree.AtRank(0) != nil {
		t.Error("expected nil rank on empty tree")
	}
	tree.Upsert(100)
	if tree.AtRank(1) != nil {
		t.Error("expected nil for rank beyond size")
	}
	if tree.AtRank(-1) != nil {
		t.Error("expected nil for negative rank")
	}
}

func TestSideTreeDeleteNonExistent(t *testing.T) {
	tree := NewSideTree(Ask)
	if tree.Delete(123) {
		t.Error("expected false when deleting non-existent level")
	}
}

func TestSideTreeEmptyBest(t *testing.T) {
	if NewSideTree(Ask).Best() != nil || NewSideTree(Bid).Best() != nil {
		t.Error("expected nil best on empty tree")
	}
}

func TestSideTreeBestSurvivesDeletes(t *testing.T) {
	tree := NewSideTree(Ask)
	for _, p := range []int64{50, 10, 40, 20, 30} {
		tree.Upsert(p)
	}
	wantOrder := []int64{10, 20, 30, 40, 50}
	for _, want := range wantOrder {
		if got := tree.Best().Price; got != want {
			t.Fatalf("best: got %d want %d", got, want)
		}
		tree.Delete(want)
	}
	if tree.Size() != 0 {
		t.Errorf("tree should be empty, size=%d", tree.Size())
	}
}
