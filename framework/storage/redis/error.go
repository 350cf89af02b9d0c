package redis

import "fmt"

type Error struct {
	Op  string
	Err error
}

func (e Error) Error() string {
	return fmt.Sprintf("redisstore: op: %q err: %q", e.Op, e.Err)
}

func (e Error) Unwrap() error { return e.Err }
