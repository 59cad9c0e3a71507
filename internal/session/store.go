package session

import (
	"sync"

	"github.com/google/uuid"
)

// CartEntry pairs a product id with a quantity. Product ids are not
// validated on add; unknown ids only surface as empty joins at read or
// checkout time.
type CartEntry struct {
	ProductID int  `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

// Session holds per-visitor server-side state: the cart and, after login,
// the user identity. All mutations go through the session mutex so two
// rapid add-to-cart clicks from the same visitor cannot lose updates.
type Session struct {
	id string

	mu     sync.Mutex
	userID uint
	cart   []CartEntry
}

func (s *Session) ID() string { return s.id }

func (s *Session) UserID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) SetUser(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// AddItem increments the quantity for productID by one, inserting a new
// entry on first add. Entry order is first-add order.
func (s *Session) AddItem(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ProductID == productID {
			s.cart[i].Quantity++
			return
		}
	}
	s.cart = append(s.cart, CartEntry{ProductID: productID, Quantity: 1})
}

// Items returns a snapshot copy; callers never see concurrent mutation.
func (s *Session) Items() []CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartEntry, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// Store keeps all live sessions keyed by session id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// New creates an empty anonymous session with a fresh id.
func (st *Store) New() *Session {
	sess := &Session{id: uuid.NewString()}
	st.mu.Lock()
	st.sessions[sess.id] = sess
	st.mu.Unlock()
	return sess
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// Delete drops a session entirely; identity and cart go with it.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
