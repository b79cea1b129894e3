package brackets

import (
	"fmt"
	"math/rand"

	"github.com/padelpoint/tournament-system/models"
)

// GroupDraft is a generated group before persistence.
type GroupDraft struct {
	GroupNumber int
	Name        string
	Entries     []Entry
}

// BuildGroups partitions entries into balanced round-robin groups. It picks
// the smallest group count that keeps every group within [minSize, maxSize],
// shuffles the entries and slices them greedily so sizes stay even.
func BuildGroups(rng *rand.Rand, entries []Entry, minSize, maxSize int) ([]*GroupDraft, error) {
	if minSize > maxSize {
		return nil, fmt.Errorf("minimum group size %d exceeds maximum %d", minSize, maxSize)
	}
	if maxSize > models.MaxGroupSize {
		return nil, fmt.Errorf("maximum group size %d exceeds the allowed %d", maxSize, models.MaxGroupSize)
	}
	n := len(entries)
	if n < minSize {
		return nil, fmt.Errorf("need at least %d participants to form a group, have %d", minSize, n)
	}

	groupCount := (n + maxSize - 1) / maxSize
	if groupCount*minSize > n {
		return nil, fmt.Errorf("%d participants cannot be split into groups of %d to %d", n, minSize, maxSize)
	}

	pool := shuffled(defaultRand(rng), entries)

	groups := make([]*GroupDraft, 0, groupCount)
	remaining := n
	offset := 0
	for i := 0; i < groupCount; i++ {
		size := remaining / (groupCount - i)
		if size < minSize {
			size = minSize
		}
		if size > maxSize {
			size = maxSize
		}
		group := &GroupDraft{
			GroupNumber: i + 1,
			Name:        models.GroupName(i + 1),
			Entries:     pool[offset : offset+size],
		}
		groups = append(groups, group)
		offset += size
		remaining -= size
	}

	// Hard post-condition, not a soft target: every group must hold 3 to 5
	// participants.
	for _, g := range groups {
		if len(g.Entries) < models.MinGroupSize || len(g.Entries) > models.MaxGroupSize {
			return nil, fmt.Errorf("group %d ended up with %d participants, want %d to %d",
				g.GroupNumber, len(g.Entries), models.MinGroupSize, models.MaxGroupSize)
		}
	}

	return groups, nil
}
