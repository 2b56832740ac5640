package entities

type Candidate struct {
	ID        uint64
	Name      string
	VoteCount uint64
}

// ElectionStats summarizes registry and vote record sizes.
type ElectionStats struct {
	Candidates int
	VotesCast  int
	Holders    int
}
