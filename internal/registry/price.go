package registry

import (
	"math"
	"strconv"

	"multi-unit-enrichment/internal/match"
)

// HousePrice is the normalized outcome of the possession → house-price
// pipeline: the most recent published price in 만원 and its reference year.
type HousePrice struct {
	Manwon int
	Year   int
}

// UnitKey finds the internal registry primary key for the requested unit
// among the possession rows. Dong is a wildcard when blank; ho must match.
func UnitKey(items []PossessionItem, dong, ho string) string {
	for _, it := range items {
		if match.DongEquals(dong, it.DongNm.String()) && match.HoEquals(ho, it.HoNm.String()) {
			return it.MgmBldrgstPk.String()
		}
	}
	return ""
}

// SelectHousePrice picks the unit's most recent price entry. Reference dates
// are zero-padded YYYYMMDD strings, so lexicographic comparison orders them
// correctly. Prices larger than 1,000,000 are whole-won figures and are
// normalized to 만원; anything non-positive counts as not found.
func SelectHousePrice(items []PriceItem, unitKey string) *HousePrice {
	if unitKey == "" || len(items) == 0 {
		return nil
	}

	var latest *PriceItem
	for i := range items {
		it := &items[i]
		if it.MgmBldrgstPk.String() != unitKey {
			continue
		}
		if latest == nil || it.StdrDay.String() > latest.StdrDay.String() {
			latest = it
		}
	}
	if latest == nil {
		return nil
	}

	price := latest.Hsprc.Int()
	if price <= 0 {
		return nil
	}
	if price > 1000000 {
		price = int(math.Round(float64(price) / 10000))
	}

	year := 0
	if day := latest.StdrDay.String(); len(day) >= 4 {
		year, _ = strconv.Atoi(day[:4])
	}
	return &HousePrice{Manwon: price, Year: year}
}
