package lock

import "fmt"

type Error struct {
	Op  string
	Err error
}

func (e Error) Error() string {
	return fmt.Sprintf("lock: op: %q err: %q", e.Op, e.Err)
}
