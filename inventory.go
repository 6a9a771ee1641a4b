package cryptofolio

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"
)

// lot represents a single acquisition of an asset, used for cost basis calculations.
type lot struct {
	Time     time.Time
	Quantity Quantity // always > 0 while the lot is open
	UnitCost Money
}

// Lot is a read-only view of an open lot.
type Lot struct {
	Time     time.Time
	Quantity Quantity
	UnitCost Money
}

// CostBasis returns the cost of the remaining quantity of the lot.
func (l Lot) CostBasis() Money { return l.UnitCost.Mul(l.Quantity) }

// lots is a FIFO queue of lots, oldest first. Consumed lots are dropped from
// the front by advancing head, the backing array is compacted once the dead
// prefix dominates.
type lots struct {
	items []lot
	head  int
}

func (l *lots) len() int { return len(l.items) - l.head }

func (l *lots) push(x lot) { l.items = append(l.items, x) }

func (l *lots) front() *lot { return &l.items[l.head] }

func (l *lots) pop() {
	l.items[l.head] = lot{}
	l.head++
	if l.head == len(l.items) {
		l.items, l.head = l.items[:0], 0
		return
	}
	if l.head >= 32 && l.head*2 >= len(l.items) {
		n := copy(l.items, l.items[l.head:])
		clear(l.items[n:])
		l.items, l.head = l.items[:n], 0
	}
}

func (l *lots) all() iter.Seq[lot] {
	return func(yield func(lot) bool) {
		for _, x := range l.items[l.head:] {
			if !yield(x) {
				return
			}
		}
	}
}

// LotMatch is the part of a lot consumed by a disposal.
type LotMatch struct {
	Acquired time.Time
	Quantity Quantity
	UnitCost Money
}

// Consumption is the outcome of consuming a quantity from the inventory.
type Consumption struct {
	Requested Quantity
	Removed   Quantity
	CostBasis Money
	Matches   []LotMatch // consumed lots, oldest first
}

// Shortfall returns the quantity that could not be matched with any lot.
func (c Consumption) Shortfall() Quantity { return c.Requested.Sub(c.Removed) }

// Complete reports whether the whole requested quantity was matched.
func (c Consumption) Complete() bool { return c.Removed.Equal(c.Requested) }

// Inventory holds the open lots of every asset. Each acquisition is its own
// lot, lots are consumed in acquisition order.
//
// The zero value is not usable, use NewInventory.
type Inventory struct {
	currency string
	assets   map[string]*lots
}

// NewInventory creates an empty inventory valued in currency.
func NewInventory(currency string) *Inventory {
	return &Inventory{currency: currency, assets: make(map[string]*lots)}
}

// Acquire appends a new lot for asset.
//
// It panics if quantity is not positive or unitCost is negative: the caller
// must have classified the movement before.
func (inv *Inventory) Acquire(asset string, quantity Quantity, unitCost Money, t time.Time) {
	if !quantity.IsPositive() {
		panic(fmt.Sprintf("acquire %s: quantity must be positive, got %v", asset, quantity))
	}
	if unitCost.IsNegative() {
		panic(fmt.Sprintf("acquire %s: unit cost must not be negative, got %v", asset, unitCost.Decimal()))
	}
	q, ok := inv.assets[asset]
	if !ok {
		q = new(lots)
		inv.assets[asset] = q
	}
	q.push(lot{Time: t, Quantity: quantity, UnitCost: unitCost})
}

// Consume removes quantity of asset from the oldest lots first.
//
// If the lots run out before quantity is matched, consumption stops and the
// returned Consumption reports the shortfall. It panics if quantity is not
// positive.
func (inv *Inventory) Consume(asset string, quantity Quantity) Consumption {
	if !quantity.IsPositive() {
		panic(fmt.Sprintf("consume %s: quantity must be positive, got %v", asset, quantity))
	}
	c := Consumption{Requested: quantity, CostBasis: M(0, inv.currency)}
	q, ok := inv.assets[asset]
	if !ok {
		return c
	}
	remaining := quantity
	for remaining.IsPositive() && q.len() > 0 {
		current := q.front()
		if current.Quantity.LessThanOrEqual(remaining) {
			// Full sale of this lot
			c.add(*current, current.Quantity)
			remaining = remaining.Sub(current.Quantity)
			q.pop()
			continue
		}
		// Partial sale from this lot
		c.add(*current, remaining)
		current.Quantity = current.Quantity.Sub(remaining)
		remaining = Quantity{}
	}
	if q.len() == 0 {
		delete(inv.assets, asset)
	}
	return c
}

func (c *Consumption) add(l lot, quantity Quantity) {
	c.Removed = c.Removed.Add(quantity)
	c.CostBasis = c.CostBasis.Add(l.UnitCost.Mul(quantity))
	c.Matches = append(c.Matches, LotMatch{Acquired: l.Time, Quantity: quantity, UnitCost: l.UnitCost})
}

// Position returns the total quantity and cost basis of the open lots of asset.
func (inv *Inventory) Position(asset string) (quantity Quantity, costBasis Money) {
	costBasis = M(0, inv.currency)
	q, ok := inv.assets[asset]
	if !ok {
		return quantity, costBasis
	}
	for l := range q.all() {
		quantity = quantity.Add(l.Quantity)
		costBasis = costBasis.Add(l.UnitCost.Mul(l.Quantity))
	}
	return quantity, costBasis
}

// Lots returns a copy of the open lots of asset, oldest first.
func (inv *Inventory) Lots(asset string) []Lot {
	q, ok := inv.assets[asset]
	if !ok {
		return nil
	}
	res := make([]Lot, 0, q.len())
	for l := range q.all() {
		res = append(res, Lot(l))
	}
	return res
}

// Assets returns the assets with open lots, sorted by symbol.
func (inv *Inventory) Assets() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(inv.assets)))
}
