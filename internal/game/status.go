package game

import "fmt"

type Status int

const (
	Running Status = iota
	Won
	Lost
	Stuck
)

var statusNames = [...]string{
	Running: "running",
	Won:     "won",
	Lost:    "lost",
	Stuck:   "stuck",
}

func (s Status) String() string {
	if 0 <= s && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) Over() bool { return s != Running }

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", b)
}

type Strategy string

const (
	SafeMove   Strategy = "safe"
	RandomMove Strategy = "random"
)

// Move is one probe made by the agent.
type Move struct {
	Cell     Cell     `json:"cell"`
	Strategy Strategy `json:"strategy"`
	// Count is the number of neighbouring mines; -1 when the probe hit a mine.
	Count int  `json:"count"`
	Mine  bool `json:"mine"`
}
