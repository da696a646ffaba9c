package repository

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	types "github.com/okian/talentmatch/internal/domain/types"
)

// makeEntries builds n ranking entries with a realistic score spread:
// a thin excellent band, a wide middle, and a long tail, all rounded
// to two decimals so ties actually occur.
func makeEntries(n int, seed int64) []types.Entry {
	rng := rand.New(rand.NewSource(seed))
	entries := make([]types.Entry, 0, n)
	for i := 0; i < n; i++ {
		var score float64
		switch {
		case i < n/20:
			score = 80 + rng.Float64()*20
		case i < n/2:
			score = 55 + rng.Float64()*30
		default:
			score = rng.Float64() * 60
		}
		score = math.Round(score*100) / 100
		entries = append(entries, types.Entry{
			EmployeeID: fmt.Sprintf("EMP-%06d", i),
			FinalScore: score,
		})
	}
	return entries
}

func BenchmarkTreapStore_Replace(b *testing.B) {
	for _, size := range []int{100, 1_000, 10_000, 100_000} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			ctx := context.Background()
			store := NewTreapStore(ctx)
			defer store.Close()

			entries := makeEntries(size, 1)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := store.Replace(ctx, entries); err != nil {
					b.Fatalf("Replace failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkTreapStore_TopN(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	if err := store.Replace(ctx, makeEntries(100_000, 2)); err != nil {
		b.Fatalf("Replace failed: %v", err)
	}

	for _, limit := range []int{10, 100, 1_000} {
		b.Run(fmt.Sprintf("limit_%d", limit), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.TopN(ctx, limit); err != nil {
					b.Fatalf("TopN failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkTreapStore_Rank(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	const size = 100_000
	if err := store.Replace(ctx, makeEntries(size, 3)); err != nil {
		b.Fatalf("Replace failed: %v", err)
	}

	rng := rand.New(rand.NewSource(4))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := fmt.Sprintf("EMP-%06d", rng.Intn(size))
		if _, err := store.Rank(ctx, id); err != nil {
			b.Fatalf("Rank failed: %v", err)
		}
	}
}

func BenchmarkTreapStore_ParallelReads(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	const size = 100_000
	if err := store.Replace(ctx, makeEntries(size, 5)); err != nil {
		b.Fatalf("Replace failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewSource(6))
		for pb.Next() {
			switch rng.Intn(3) {
			case 0:
				if _, err := store.TopN(ctx, 50); err != nil {
					b.Errorf("TopN failed: %v", err)
					return
				}
			case 1:
				id := fmt.Sprintf("EMP-%06d", rng.Intn(size))
				if _, err := store.Rank(ctx, id); err != nil {
					b.Errorf("Rank failed: %v", err)
					return
				}
			default:
				store.Count(ctx)
			}
		}
	})
}
