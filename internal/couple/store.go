package couple

import "context"

// Store persists the single couple document. Update applies one mutation
// as a serialized read-modify-write cycle: implementations must guarantee
// that concurrent updates never interleave, so invariants like "at most
// two users" and "invite code consumed exactly once" hold under racing
// requests. Both methods return detached snapshots.
type Store interface {
	Load(ctx context.Context) (State, error)
	Update(ctx context.Context, apply func(*State) error) (State, error)
}
