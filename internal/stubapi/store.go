package stubapi

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// 開発・E2E用のインメモリ実装。プロセスが生きている間だけ保持する。

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("duplicate")
	ErrLoginRejected = errors.New("login rejected")
)

type stubProduct struct {
	ID                string
	Title             string
	Handle            string
	VariantID         string
	Price             string
	Available         bool
	QuantityAvailable int
	Images            []string
}

type stubUser struct {
	ID           string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
}

type stubCartLine struct {
	ID        string
	VariantID string
	Quantity  int
}

type stubCart struct {
	ID      string
	Lines   []stubCartLine
	Deleted bool
}

type stubAddress struct {
	ID        string
	FirstName string
	LastName  string
	Address1  string
	Address2  string
	City      string
	Province  string
	Zip       string
	Country   string
	Phone     string
	IsDefault bool
}

type stubWishlistItem struct {
	ID        string
	ProductID string
	VariantID string
	Title     string
	Price     string
}

type stubOrder struct {
	ID         string
	Number     string
	Status     string
	TotalPrice string
	CreatedAt  string
}

type Store struct {
	mu sync.Mutex

	products  []stubProduct
	users     map[string]*stubUser // key: email
	carts     map[string]*stubCart
	userCarts map[string]string // userID -> cartID
	addresses map[string][]stubAddress
	wishlists map[string][]stubWishlistItem
	orders    map[string][]stubOrder
}

// NewStore はデモ商品とデモユーザー入りのストアを返す。
func NewStore() *Store {
	s := &Store{
		users:     map[string]*stubUser{},
		carts:     map[string]*stubCart{},
		userCarts: map[string]string{},
		addresses: map[string][]stubAddress{},
		wishlists: map[string][]stubWishlistItem{},
		orders:    map[string][]stubOrder{},
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	s.products = []stubProduct{
		{ID: "prod-1", Title: "Wool Runner", Handle: "wool-runner", VariantID: "var-1", Price: "98.00", Available: true, QuantityAvailable: 12,
			Images: []string{"https://img.example.com/wool-runner-1.jpg", "https://img.example.com/wool-runner-2.jpg", "https://img.example.com/wool-runner-3.jpg"}},
		{ID: "prod-2", Title: "Tree Dasher", Handle: "tree-dasher", VariantID: "var-2", Price: "135.00", Available: true, QuantityAvailable: 4,
			Images: []string{"https://img.example.com/tree-dasher-1.jpg", "https://img.example.com/tree-dasher-2.jpg"}},
		{ID: "prod-3", Title: "Canvas Tote", Handle: "canvas-tote", VariantID: "var-3", Price: "42.50", Available: true, QuantityAvailable: 30,
			Images: []string{"https://img.example.com/canvas-tote-1.jpg"}},
		{ID: "prod-4", Title: "Trail Sock", Handle: "trail-sock", VariantID: "var-4", Price: "16.00", Available: false, QuantityAvailable: 0,
			Images: []string{"https://img.example.com/trail-sock-1.jpg", "https://img.example.com/trail-sock-2.jpg"}},
		{ID: "prod-5", Title: "Merino Cap", Handle: "merino-cap", VariantID: "var-5", Price: "28.00", Available: true, QuantityAvailable: 9,
			Images: []string{"https://img.example.com/merino-cap-1.jpg"}},
		{ID: "prod-6", Title: "Rain Shell", Handle: "rain-shell", VariantID: "var-6", Price: "180.00", Available: true, QuantityAvailable: 2,
			Images: nil},
	}

	//デモユーザー（demo@example.com / password123）
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	demo := &stubUser{
		ID:           "user-demo",
		Email:        "demo@example.com",
		PasswordHash: hash,
		FirstName:    "Demo",
		LastName:     "Taro",
	}
	s.users[demo.Email] = demo

	s.orders[demo.ID] = []stubOrder{
		{ID: "order-1001", Number: "#1001", Status: "FULFILLED", TotalPrice: "140.50", CreatedAt: "2026-07-01T09:30:00Z"},
		{ID: "order-1002", Number: "#1002", Status: "UNFULFILLED", TotalPrice: "98.00", CreatedAt: "2026-08-12T18:05:00Z"},
	}
}

func (s *Store) Products() []stubProduct {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]stubProduct, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) ProductByVariant(variantID string) (stubProduct, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.VariantID == variantID {
			return p, true
		}
	}
	return stubProduct{}, false
}

// CreateUser は会員を追加する。同じemailは拒否。
func (s *Store) CreateUser(email string, password string, firstName string, lastName string) (*stubUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return nil, ErrDuplicate
	}
	u := &stubUser{
		ID:           "user-" + uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	s.users[email] = u
	return u, nil
}

// Authenticate はemail+passwordを検証してユーザーを返す。
func (s *Store) Authenticate(email string, password string) (*stubUser, error) {
	s.mu.Lock()
	u, ok := s.users[email]
	s.mu.Unlock()

	if !ok {
		return nil, ErrLoginRejected
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrLoginRejected
	}
	return u, nil
}

func (s *Store) UserByID(userID string) (*stubUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == userID {
			return u, true
		}
	}
	return nil, false
}

// CreateCart は最初の1点入りのカートを作る。
func (s *Store) CreateCart(variantID string, quantity int, userID string) *stubCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := &stubCart{ID: "cart-" + uuid.NewString()}
	cart.Lines = append(cart.Lines, stubCartLine{
		ID:        "line-" + uuid.NewString(),
		VariantID: variantID,
		Quantity:  quantity,
	})
	s.carts[cart.ID] = cart
	if userID != "" {
		s.userCarts[userID] = cart.ID
	}
	return cart
}

func (s *Store) Cart(cartID string) (*stubCart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok || cart.Deleted {
		return nil, false
	}
	//ミューテーション競合を避けるためコピーを返す
	cp := &stubCart{ID: cart.ID, Deleted: cart.Deleted}
	cp.Lines = append(cp.Lines, cart.Lines...)
	return cp, true
}

// AddToCart は同一バリアントなら数量を合算する（サーバー側マージ）。
func (s *Store) AddToCart(cartID string, variantID string, quantity int, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok || cart.Deleted {
		return ErrNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].VariantID == variantID {
			cart.Lines[i].Quantity += quantity
			if userID != "" {
				s.userCarts[userID] = cartID
			}
			return nil
		}
	}
	cart.Lines = append(cart.Lines, stubCartLine{
		ID:        "line-" + uuid.NewString(),
		VariantID: variantID,
		Quantity:  quantity,
	})
	if userID != "" {
		s.userCarts[userID] = cartID
	}
	return nil
}

func (s *Store) UpdateCartLine(cartID string, variantID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok || cart.Deleted {
		return ErrNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].VariantID == variantID {
			cart.Lines[i].Quantity = quantity
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) RemoveCartLine(cartID string, variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok || cart.Deleted {
		return ErrNotFound
	}
	next := cart.Lines[:0]
	for _, l := range cart.Lines {
		if l.VariantID != variantID {
			next = append(next, l)
		}
	}
	cart.Lines = next
	return nil
}

// DeleteCart はカートを論理削除する（チェックアウト完了の再現用）。
func (s *Store) DeleteCart(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart, ok := s.carts[cartID]; ok {
		cart.Deleted = true
	}
}

// UserCart はユーザーに紐付いたカートを返す。
func (s *Store) UserCart(userID string) (cartID string, deleted bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cartID, ok = s.userCarts[userID]
	if !ok {
		return "", false, false
	}
	cart, exists := s.carts[cartID]
	if !exists {
		return cartID, true, true
	}
	return cartID, cart.Deleted, true
}

func (s *Store) Addresses(userID string) []stubAddress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]stubAddress, len(s.addresses[userID]))
	copy(out, s.addresses[userID])
	return out
}

func (s *Store) CreateAddress(userID string, a stubAddress) stubAddress {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = "addr-" + uuid.NewString()
	//最初の1件をデフォルトにする
	a.IsDefault = len(s.addresses[userID]) == 0
	s.addresses[userID] = append(s.addresses[userID], a)
	return a
}

func (s *Store) UpdateAddress(userID string, addressID string, a stubAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.addresses[userID]
	for i := range list {
		if list[i].ID == addressID {
			a.ID = addressID
			a.IsDefault = list[i].IsDefault
			list[i] = a
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) DeleteAddress(userID string, addressID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.addresses[userID]
	for i := range list {
		if list[i].ID == addressID {
			s.addresses[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) Wishlist(customerID string) []stubWishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]stubWishlistItem, len(s.wishlists[customerID]))
	copy(out, s.wishlists[customerID])
	return out
}

func (s *Store) AddWishlistItem(customerID string, productID string, variantID string) (stubWishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var title, price string
	for _, p := range s.products {
		if p.ID == productID {
			title = p.Title
			price = p.Price
		}
	}
	if title == "" {
		return stubWishlistItem{}, ErrNotFound
	}

	item := stubWishlistItem{
		ID:        "wish-" + uuid.NewString(),
		ProductID: productID,
		VariantID: variantID,
		Title:     title,
		Price:     price,
	}
	s.wishlists[customerID] = append(s.wishlists[customerID], item)
	return item, nil
}

func (s *Store) RemoveWishlistItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for customerID, list := range s.wishlists {
		for i := range list {
			if list[i].ID == itemID {
				s.wishlists[customerID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

func (s *Store) Orders(userID string) []stubOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]stubOrder, len(s.orders[userID]))
	copy(out, s.orders[userID])
	return out
}
