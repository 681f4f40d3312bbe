package batch

import "fmt"

// Failure describes one document the store refused during an unordered bulk insert.
type Failure struct {
	Index   int
	ID      string
	Code    int
	Message string
}

// Counts is the outcome of an unordered bulk insert. Inserted+Failed always equals the input size.
type Counts struct {
	Inserted int
	Failed   int
	Failures []Failure
}

// Total returns the number of documents submitted.
func (c Counts) Total() int { return c.Inserted + c.Failed }

// Partial reports whether some, but not all, documents failed.
func (c Counts) Partial() bool { return c.Failed > 0 && c.Inserted > 0 }

// String renders the counts for log lines and CLI output.
func (c Counts) String() string {
	return fmt.Sprintf("%d inserted, %d failed", c.Inserted, c.Failed)
}
