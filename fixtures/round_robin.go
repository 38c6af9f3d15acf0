// Package fixtures generates tournament schedules from team lists.
package fixtures

// Pairing is one scheduled encounter between two teams.
type Pairing struct {
	TeamAID int
	TeamBID int
}

// Round groups the pairings played together in one round.
type Round struct {
	Number   int
	Pairings []Pairing
}

// RoundRobin builds a single round-robin schedule using the circle method:
// one team stays fixed while the rest rotate one slot per round. With an odd
// team count a bye slot is inserted and pairings against it are skipped, so
// every team sits out exactly one round.
func RoundRobin(teamIDs []int) []Round {
	if len(teamIDs) < 2 {
		return nil
	}

	const bye = 0
	ids := make([]int, len(teamIDs))
	copy(ids, teamIDs)
	if len(ids)%2 != 0 {
		ids = append(ids, bye)
	}

	n := len(ids)
	rounds := make([]Round, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := Round{Number: r + 1, Pairings: make([]Pairing, 0, n/2)}
		for i := 0; i < n/2; i++ {
			a, b := ids[i], ids[n-1-i]
			if a == bye || b == bye {
				continue
			}
			round.Pairings = append(round.Pairings, Pairing{TeamAID: a, TeamBID: b})
		}
		rounds = append(rounds, round)

		// Rotate everything but the first slot.
		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}
	return rounds
}

// TotalMatches returns the number of pairings in a schedule.
func TotalMatches(rounds []Round) int {
	total := 0
	for _, round := range rounds {
		total += len(round.Pairings)
	}
	return total
}
