package chip8

const (
	StackLimit = 16 // Maximum call depth
)

/// Stack holds the return addresses of subroutine calls.
///
type Stack struct {
	data  [StackLimit]uint16
	depth int
}

/// Push a return address, reporting false when the stack is full.
///
func (s *Stack) Push(address uint16) bool {
	if s.Full() {
		return false
	}

	s.data[s.depth] = address
	s.depth++

	return true
}

/// Pop the most recent return address.
///
func (s *Stack) Pop() (address uint16, ok bool) {
	address, ok = s.Peek()
	if ok {
		s.depth--
	}
	return
}

func (s *Stack) Peek() (address uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.data[s.depth-1], true
}

func (s *Stack) Depth() int {
	return s.depth
}

func (s *Stack) Empty() bool {
	return s.depth == 0
}

func (s *Stack) Full() bool {
	return s.depth == StackLimit
}

func (s *Stack) Reset() {
	*s = Stack{}
}
