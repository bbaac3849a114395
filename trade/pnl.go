package trade

// ForexLotUnits is the size of one standard lot in base currency units.
const ForexLotUnits = 100000

// ComputePnL returns the signed monetary result of a trade.
//
// Forex quantities are standard lots. Index and Futures quantities already
// carry the per point dollar multiplier, so they price like every other
// asset class: price difference times quantity. No rounding is applied.
func ComputePnL(entry, exit, quantity float64, dir Direction, asset AssetClass) float64 {
	diff := entry - exit
	if dir == Long {
		diff = exit - entry
	}

	switch asset {
	case Forex:
		return diff * quantity * ForexLotUnits
	case Index, Futures:
		return diff * quantity
	default:
		return diff * quantity
	}
}
