package reward

import (
	"math/rand/v2"

	"github.com/alexanderramin/grove/internal/clock"
	"github.com/alexanderramin/grove/internal/domain"
	"github.com/google/uuid"
)

// Minter creates badges. The random source is injected so tests can pin
// the category/emoji sequence; award counts are never randomized, only
// badge content.
type Minter struct {
	rng *rand.Rand
	clk clock.Clock
}

// NewMinter creates a Minter with the given random source and clock.
func NewMinter(rng *rand.Rand, clk clock.Clock) *Minter {
	return &Minter{rng: rng, clk: clk}
}

// NewSystemMinter creates a production Minter: system clock, random seed.
func NewSystemMinter() *Minter {
	return &Minter{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		clk: clock.System{},
	}
}

// Mint creates one badge with a uniformly random category and a uniformly
// random emoji from that category's fixed palette, stamped with the
// current time.
func (m *Minter) Mint() domain.Badge {
	category := domain.Categories[m.rng.IntN(len(domain.Categories))]
	palette := domain.Palettes[category]
	return domain.Badge{
		ID:       uuid.New().String(),
		Emoji:    palette[m.rng.IntN(len(palette))],
		Category: category,
		EarnedAt: m.clk.Now(),
	}
}

// MintN creates n badges in order, each with an independently random
// category.
func (m *Minter) MintN(n int) []domain.Badge {
	badges := make([]domain.Badge, 0, n)
	for i := 0; i < n; i++ {
		badges = append(badges, m.Mint())
	}
	return badges
}
