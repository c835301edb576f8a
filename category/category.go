package category

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	Travel           = "travel"
	LocalConvenience = "localConvenience"
	Equipment        = "equipment"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyName       = errors.New("subcategory name can't be empty")
	ErrInvalidRate     = errors.New("rate must be positive")
	ErrNotFound        = errors.New("subcategory not found")
)

type SubCategory struct {
	ID   uuid.UUID        `json:"id"`
	Name string           `json:"name"`
	Rate *decimal.Decimal `json:"rate,omitempty"` // per km, local convenience only
}

type Category struct {
	Key           string        `json:"key"`
	Title         string        `json:"title"`
	HasRate       bool          `json:"has_rate"`
	SubCategories []SubCategory `json:"subcategories"`
}

var defaults = []Category{
	{Key: Travel, Title: "Travel"},
	{Key: LocalConvenience, Title: "Local Convenience", HasRate: true},
	{Key: Equipment, Title: "Equipment"},
}

type Store struct {
	mu         sync.RWMutex
	categories []Category
}

func NewStore() *Store {
	s := &Store{}
	for _, c := range defaults {
		c.SubCategories = []SubCategory{}
		s.categories = append(s.categories, c)
	}
	return s
}

func (s *Store) index(key string) (int, error) {
	for i, c := range s.categories {
		if c.Key == key {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrUnknownCategory, "%q", key)
}

// AddSubCategory appends a subcategory. rate is ignored for categories that
// do not carry one.
func (s *Store) AddSubCategory(key, name string, rate *decimal.Decimal) (SubCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SubCategory{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.index(key)
	if err != nil {
		return SubCategory{}, err
	}

	sub := SubCategory{ID: uuid.New(), Name: name}
	if s.categories[i].HasRate && rate != nil {
		if !rate.IsPositive() {
			return SubCategory{}, ErrInvalidRate
		}
		r := *rate
		sub.Rate = &r
	}
	s.categories[i].SubCategories = append(s.categories[i].SubCategories, sub)
	return sub, nil
}

func (s *Store) RemoveSubCategory(key string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.index(key)
	if err != nil {
		return err
	}

	subs := s.categories[i].SubCategories
	for j, sub := range subs {
		if sub.ID == id {
			s.categories[i].SubCategories = append(subs[:j:j], subs[j+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) List() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		c.SubCategories = append([]SubCategory{}, c.SubCategories...)
		out = append(out, c)
	}
	return out
}
