package block

// Store is the owned in-memory state for a planning session: the current set
// of blocks and availability windows. Callers construct one explicitly and
// pass it where needed; there is no package-level instance.
//
// Store is not safe for concurrent use. The TUI runs it on a single goroutine
// and async work communicates through messages, never by sharing the store.
type Store struct {
	blocks  []*TimeBlock
	windows []*AvailabilityWindow
	nextID  int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Blocks returns the blocks. The slice is a copy but the elements are shared;
// callers that mutate a block must go through Replace or Upsert.
func (s *Store) Blocks() []*TimeBlock {
	return append([]*TimeBlock(nil), s.blocks...)
}

// Windows returns the availability windows as a copied slice.
func (s *Store) Windows() []*AvailabilityWindow {
	return append([]*AvailabilityWindow(nil), s.windows...)
}

// Find returns the block with the given id, or nil.
func (s *Store) Find(id int64) *TimeBlock {
	for _, b := range s.blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Add inserts a block, assigning an id if it has none.
func (s *Store) Add(b *TimeBlock) {
	if b.ID == 0 {
		b.ID = s.nextID
	}
	if b.ID >= s.nextID {
		s.nextID = b.ID + 1
	}
	s.blocks = append(s.blocks, b)
}

// Upsert replaces the block with the same id, or adds it.
func (s *Store) Upsert(b *TimeBlock) {
	for i, existing := range s.blocks {
		if existing.ID == b.ID {
			s.blocks[i] = b
			return
		}
	}
	s.Add(b)
}

// Remove deletes the block with the given id. Returns ErrBlockNotFound if it
// does not exist.
func (s *Store) Remove(id int64) error {
	for i, b := range s.blocks {
		if b.ID == id {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			return nil
		}
	}
	return ErrBlockNotFound
}

// ReplaceBlocks swaps in a whole new block set. Merges from the auto-schedule
// collaborator land through this so the change is all-or-nothing.
func (s *Store) ReplaceBlocks(blocks []*TimeBlock) {
	s.blocks = append([]*TimeBlock(nil), blocks...)
	for _, b := range s.blocks {
		if b.ID >= s.nextID {
			s.nextID = b.ID + 1
		}
	}
}

// AddWindow validates and inserts an availability window.
func (s *Store) AddWindow(w *AvailabilityWindow) error {
	if err := ValidateWindow(w, s.windows); err != nil {
		return err
	}
	if w.ID == 0 {
		w.ID = s.nextID
	}
	if w.ID >= s.nextID {
		s.nextID = w.ID + 1
	}
	s.windows = append(s.windows, w)
	return nil
}

// RemoveWindow deletes the window with the given id.
func (s *Store) RemoveWindow(id int64) {
	for i, w := range s.windows {
		if w.ID == id {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return
		}
	}
}

// ReplaceWindows swaps in a whole new window set without validation.
// Used when loading persisted state that was validated on the way in.
func (s *Store) ReplaceWindows(windows []*AvailabilityWindow) {
	s.windows = append([]*AvailabilityWindow(nil), windows...)
	for _, w := range s.windows {
		if w.ID >= s.nextID {
			s.nextID = w.ID + 1
		}
	}
}
