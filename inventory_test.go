package cryptofolio

import "testing"

func TestInventory_ConsumeFIFO(t *testing.T) {
	inv := NewInventory("USD")
	inv.Acquire("BTC", Q(1), USD(10000), day(1))
	inv.Acquire("BTC", Q(1), USD(20000), day(3))
	inv.Acquire("BTC", Q(2), USD(30000), day(4))

	c := inv.Consume("BTC", Q(1.5))

	if !c.Complete() {
		t.Errorf("Consume(1.5).Complete() = false, shortfall %v", c.Shortfall())
	}
	assertQuantity(t, "Removed", c.Removed, Q(1.5))
	assertMoney(t, "CostBasis", c.CostBasis, USD(20000))
	if len(c.Matches) != 2 {
		t.Fatalf("len(Matches) = %d, want 2", len(c.Matches))
	}
	if !c.Matches[0].Acquired.Equal(day(1)) || !c.Matches[1].Acquired.Equal(day(3)) {
		t.Errorf("Matches = %v, want oldest lots first", c.Matches)
	}

	lots := inv.Lots("BTC")
	if len(lots) != 2 {
		t.Fatalf("len(Lots()) = %d, want 2", len(lots))
	}
	assertQuantity(t, "Lots()[0].Quantity", lots[0].Quantity, Q(0.5))
	assertMoney(t, "Lots()[0].UnitCost", lots[0].UnitCost, USD(20000))
	assertQuantity(t, "Lots()[1].Quantity", lots[1].Quantity, Q(2))

	q, cost := inv.Position("BTC")
	assertQuantity(t, "Position() quantity", q, Q(2.5))
	assertMoney(t, "Position() cost", cost, USD(70000))
}

func TestInventory_ConsumeExactLotRemovesIt(t *testing.T) {
	inv := NewInventory("USD")
	inv.Acquire("ETH", Q(2), USD(1000), day(1))
	inv.Acquire("ETH", Q(3), USD(2000), day(2))

	inv.Consume("ETH", Q(2))

	lots := inv.Lots("ETH")
	if len(lots) != 1 {
		t.Fatalf("len(Lots()) = %d, want 1", len(lots))
	}
	if !lots[0].Time.Equal(day(2)) {
		t.Errorf("remaining lot acquired %v, want %v", lots[0].Time, day(2))
	}
	for _, l := range lots {
		if !l.Quantity.IsPositive() {
			t.Errorf("lot with non positive quantity %v", l.Quantity)
		}
	}

	inv.Consume("ETH", Q(3))
	if got := inv.Lots("ETH"); len(got) != 0 {
		t.Errorf("Lots() = %v, want none", got)
	}
	for a := range inv.Assets() {
		t.Errorf("Assets() yielded %q, want nothing", a)
	}
}

func TestInventory_ConsumeShortfall(t *testing.T) {
	inv := NewInventory("USD")
	inv.Acquire("BTC", Q(0.4), USD(100), day(1))

	c := inv.Consume("BTC", Q(1))

	if c.Complete() {
		t.Error("Complete() = true, want false")
	}
	assertQuantity(t, "Removed", c.Removed, Q(0.4))
	assertQuantity(t, "Shortfall()", c.Shortfall(), Q(0.6))
	assertMoney(t, "CostBasis", c.CostBasis, USD(40))

	c = inv.Consume("DOGE", Q(10))
	assertQuantity(t, "Removed of unknown asset", c.Removed, Q(0))
	assertQuantity(t, "Shortfall() of unknown asset", c.Shortfall(), Q(10))
}

func TestInventory_ManyLotsCompaction(t *testing.T) {
	inv := NewInventory("USD")
	for i := 1; i <= 100; i++ {
		inv.Acquire("SOL", Q(1), USD(float64(i)), day(1))
	}
	// consume one lot at a time to go through the queue compaction.
	for i := 1; i <= 70; i++ {
		c := inv.Consume("SOL", Q(1))
		assertMoney(t, "CostBasis", c.CostBasis, USD(float64(i)))
	}
	lots := inv.Lots("SOL")
	if len(lots) != 30 {
		t.Fatalf("len(Lots()) = %d, want 30", len(lots))
	}
	assertMoney(t, "oldest remaining unit cost", lots[0].UnitCost, USD(71))
	inv.Acquire("SOL", Q(1), USD(1000), day(2))
	lots = inv.Lots("SOL")
	assertMoney(t, "newest unit cost", lots[len(lots)-1].UnitCost, USD(1000))
}

func TestInventory_NoMerging(t *testing.T) {
	inv := NewInventory("USD")
	inv.Acquire("BTC", Q(1), USD(100), day(1))
	inv.Acquire("BTC", Q(1), USD(100), day(2))
	if got := len(inv.Lots("BTC")); got != 2 {
		t.Errorf("len(Lots()) = %d, want 2 lots with the same cost", got)
	}
}

func TestInventory_ProgrammerErrors(t *testing.T) {
	tests := []struct {
		name string
		f    func(inv *Inventory)
	}{
		{"acquire zero", func(inv *Inventory) { inv.Acquire("BTC", Q(0), USD(1), day(1)) }},
		{"acquire negative", func(inv *Inventory) { inv.Acquire("BTC", Q(-1), USD(1), day(1)) }},
		{"acquire negative cost", func(inv *Inventory) { inv.Acquire("BTC", Q(1), USD(-1), day(1)) }},
		{"consume zero", func(inv *Inventory) { inv.Consume("BTC", Q(0)) }},
		{"consume negative", func(inv *Inventory) { inv.Consume("BTC", Q(-1)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic", tt.name)
				}
			}()
			tt.f(NewInventory("USD"))
		})
	}
}
