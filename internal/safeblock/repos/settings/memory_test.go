package settings

import (
	"testing"
	"time"

	"github.com/haukened/safe-block/internal/safeblock/common/clock"
	"github.com/haukened/safe-block/internal/safeblock/domain"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	clk := clock.NewMockClock(time.Unix(1_700_000_000, 0))
	repo := NewMemory(clk)
	t.Cleanup(func() { _ = repo.Close() })

	if _, ok, err := repo.Load(); ok || err != nil {
		t.Fatalf("empty repo Load: ok=%v err=%v", ok, err)
	}
	if st := repo.Stats(); st.Present || st.Version != 0 {
		t.Fatalf("empty stats: %+v", st)
	}

	s := domain.NewSettings().WithPasswordHash("MTIzNA==")
	_, _ = s.AddCustomURL("a.com")
	if err := repo.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the caller's copy must not leak into the repository.
	s.CustomBlockedURLs[0] = "mutated.com"

	got, ok, err := repo.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.CustomBlockedURLs[0] != "a.com" || got.Hash() != "MTIzNA==" {
		t.Fatalf("unexpected record: %+v", got)
	}

	clk.Advance(time.Minute)
	if err := repo.Save(got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st := repo.Stats()
	if !st.Present || st.Version != 2 || st.UpdatedUnix != 1_700_000_060 {
		t.Fatalf("stats after two saves: %+v", st)
	}

	if err := repo.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := repo.Load(); ok {
		t.Fatalf("record survived Delete")
	}
}
