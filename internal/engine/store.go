package engine

// ClaimStoreItem spends medals on a store item. Each hero may claim a given
// item once; stock decrements unless the item is marked infinite.
func (e *Engine) ClaimStoreItem(hero *Hero, item *StoreItem) (*StoreClaim, error) {
	if hero.Medals < item.Cost {
		return nil, ErrInsufficientMedals
	}
	if !item.Available || (item.Stock <= 0 && item.Stock != InfiniteStock) {
		return nil, ErrOutOfStock
	}
	for _, c := range hero.StoreClaims {
		if c.ItemID == item.ID {
			return nil, ErrAlreadyClaimed
		}
	}

	hero.Medals -= item.Cost
	if item.Stock != InfiniteStock {
		item.Stock--
	}

	claim := StoreClaim{
		ItemID:    item.ID,
		ItemName:  item.Name,
		Cost:      item.Cost,
		ClaimedAt: e.nowMillis(),
	}
	hero.StoreClaims = append(hero.StoreClaims, claim)
	return &claim, nil
}
