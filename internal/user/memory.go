package user

import "context"

// MemoryDirectory is an in-memory credential directory. It is the default
// backend; a real deployment substitutes the Postgres directory through the
// same Repository interface.
type MemoryDirectory struct {
	principals map[string]Principal
}

// NewMemoryDirectory creates a directory holding the given principals keyed by username
func NewMemoryDirectory(principals []Principal) *MemoryDirectory {
	byName := make(map[string]Principal, len(principals))
	for _, p := range principals {
		byName[p.Username] = p
	}
	return &MemoryDirectory{principals: byName}
}

// NewSeededDirectory creates a directory preloaded with the demo account
// johndoe (password "secret", bcrypt hashed).
func NewSeededDirectory() *MemoryDirectory {
	return NewMemoryDirectory([]Principal{
		{
			Username:       "johndoe",
			FullName:       "John Doe",
			Email:          "johndoe@example.com",
			HashedPassword: "$2b$12$EixZaYVK1fsbw1ZfbX3OXePaWxn96p36WQoeG6Lruj3vjPGga31lW",
			Disabled:       false,
		},
	})
}

// GetByUsername looks up a principal by username
func (d *MemoryDirectory) GetByUsername(_ context.Context, username string) (*Principal, error) {
	p, ok := d.principals[username]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy so callers cannot mutate the directory
	out := p
	return &out, nil
}
