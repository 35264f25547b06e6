package repository

import (
	"sort"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

// rosterOrder pins the featured agents to the top of the public roster.
var rosterOrder = map[string]int{
	"Sandy":                0,
	"AI Tax Agent":         1,
	"Jennifer Constantino": 2,
}

// sortRoster orders agents by the fixed featured names, then leaves the rest
// in the order they were created. agents must already be in creation order.
func sortRoster(agents []entity.Agent) {
	sort.SliceStable(agents, func(i, j int) bool {
		return rosterRank(agents[i]) < rosterRank(agents[j])
	})
}

func rosterRank(a entity.Agent) int {
	if rank, ok := rosterOrder[a.Name]; ok {
		return rank
	}
	return len(rosterOrder)
}
