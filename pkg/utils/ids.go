package utils

import (
	"fmt"
	"sync/atomic"
	"time"
)

var idSeq uint64

// nextID builds "<prefix>-<utc ns>-<seq>". The timestamp keeps ids roughly
// monotonic and the atomic sequence guarantees uniqueness within the
// process, so an id is never reused even after its entry is deleted.
func nextID(prefix string) string {
	n := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&idSeq, 1)
	return fmt.Sprintf("%s-%d-%d", prefix, n, s)
}

// GenID generates a unique chat message ID.
func GenID() string { return nextID("msg") }

// GenThreadID generates a unique Q&A thread ID.
func GenThreadID() string { return nextID("thread") }

// GenReplyID generates a reply ID. Uniqueness is only relied upon within a
// single thread; replies are addressed as (thread id, reply id).
func GenReplyID() string { return nextID("reply") }
