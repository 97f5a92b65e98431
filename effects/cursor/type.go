package cursor

var (
	_ Payload = CurrentIndex{}
	_ Payload = Size{}
	_ Payload = Move{}
	_ Payload = Resize{}
	_ Payload = History{}
)

// Payload is a sealed interface for cursor operations. Every payload names the
// list it targets, which is also its partition key, so operations on one list
// are served in order by a single worker.
type Payload interface {
	PartitionKey() string
	payload()
}

// CurrentIndex asks for the list's current position.
type CurrentIndex struct {
	List string
}

func (p CurrentIndex) PartitionKey() string { return p.List }
func (p CurrentIndex) payload()             {}

// Size asks for the list's element count.
type Size struct {
	List string
}

func (p Size) PartitionKey() string { return p.List }
func (p Size) payload()             {}

// Move sets the list's position. Index must lie in [0, size).
type Move struct {
	List  string
	Index int
}

func (p Move) PartitionKey() string { return p.List }
func (p Move) payload()             {}

// Resize changes the list's element count, pulling the index back inside it.
type Resize struct {
	List string
	Size int
}

func (p Resize) PartitionKey() string { return p.List }
func (p Resize) payload()             {}

// History asks for the list's recent moves, oldest first.
type History struct {
	List string
}

func (p History) PartitionKey() string { return p.List }
func (p History) payload()             {}
