package registry

import (
	"encoding/json"

	"multi-unit-enrichment/internal/models"
)

// The hub service wraps every dataset in the same envelope. items is kept
// raw because its shape drifts: an object with an item array, an object with
// a single item, or an empty string when the dataset has no rows.
type envelope struct {
	Response struct {
		Header struct {
			ResultCode models.Flex `json:"resultCode"`
			ResultMsg  models.Flex `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			TotalCount models.Flex     `json:"totalCount"`
			Items      json.RawMessage `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// RecapItem is one 총괄표제부 (complex title) row: the apartment-style
// complex described as a whole.
type RecapItem struct {
	PlatArea         models.Flex `json:"platArea"`         // site area
	TotArea          models.Flex `json:"totArea"`          // total floor area
	VlRatEstmTotArea models.Flex `json:"vlRatEstmTotArea"` // floor-area-ratio basis
	ArchArea         models.Flex `json:"archArea"`         // building footprint
	BcRat            models.Flex `json:"bcRat"`            // coverage ratio
	VlRat            models.Flex `json:"vlRat"`            // floor-area ratio
	BldNm            models.Flex `json:"bldNm"`
	TotPkngCnt       models.Flex `json:"totPkngCnt"`
	UseAprDay        models.Flex `json:"useAprDay"`
	HhldCnt          models.Flex `json:"hhldCnt"`
	FmlyCnt          models.Flex `json:"fmlyCnt"`
	HoCnt            models.Flex `json:"hoCnt"`
	MainBldCnt       models.Flex `json:"mainBldCnt"`
}

// TitleItem is one 표제부 (single title) row: one building.
type TitleItem struct {
	DongNm           models.Flex `json:"dongNm"`
	MainAtchGbCdNm   models.Flex `json:"mainAtchGbCdNm"` // 주건축물 / 부속건축물
	NewPlatPlc       models.Flex `json:"newPlatPlc"`     // road address
	BldNm            models.Flex `json:"bldNm"`
	Heit             models.Flex `json:"heit"`
	StrctCdNm        models.Flex `json:"strctCdNm"`
	RoofCdNm         models.Flex `json:"roofCdNm"`
	MainPurpsCdNm    models.Flex `json:"mainPurpsCdNm"`
	GrndFlrCnt       models.Flex `json:"grndFlrCnt"`
	UgrndFlrCnt      models.Flex `json:"ugrndFlrCnt"`
	HhldCnt          models.Flex `json:"hhldCnt"`
	FmlyCnt          models.Flex `json:"fmlyCnt"`
	HoCnt            models.Flex `json:"hoCnt"`
	RideUseElvtCnt   models.Flex `json:"rideUseElvtCnt"`
	EmgenUseElvtCnt  models.Flex `json:"emgenUseElvtCnt"`
	IndrMechUtcnt    models.Flex `json:"indrMechUtcnt"`
	OudrMechUtcnt    models.Flex `json:"oudrMechUtcnt"`
	IndrAutoUtcnt    models.Flex `json:"indrAutoUtcnt"`
	OudrAutoUtcnt    models.Flex `json:"oudrAutoUtcnt"`
	PlatArea         models.Flex `json:"platArea"`
	TotArea          models.Flex `json:"totArea"`
	VlRatEstmTotArea models.Flex `json:"vlRatEstmTotArea"`
	ArchArea         models.Flex `json:"archArea"`
	BcRat            models.Flex `json:"bcRat"`
	VlRat            models.Flex `json:"vlRat"`
	UseAprDay        models.Flex `json:"useAprDay"`
}

// AreaItem is one 전유공용면적 row: a floor-area line item for one unit,
// split by exclusive (전유) vs common (공용) use.
type AreaItem struct {
	DongNm            models.Flex `json:"dongNm"`
	HoNm              models.Flex `json:"hoNm"`
	FlrNoNm           models.Flex `json:"flrNoNm"`
	MainAtchGbCdNm    models.Flex `json:"mainAtchGbCdNm"`
	ExposPubuseGbCdNm models.Flex `json:"exposPubuseGbCdNm"`
	Area              models.Flex `json:"area"`
}

// PossessionItem is one 전유부 row, carrying the internal registry primary
// key that links a unit to its house-price history.
type PossessionItem struct {
	DongNm       models.Flex `json:"dongNm"`
	HoNm         models.Flex `json:"hoNm"`
	FlrNo        models.Flex `json:"flrNo"`
	MgmBldrgstPk models.Flex `json:"mgmBldrgstPk"`
}

// PriceItem is one 주택가격 row.
type PriceItem struct {
	MgmBldrgstPk models.Flex `json:"mgmBldrgstPk"`
	StdrDay      models.Flex `json:"stdrDay"` // reference date, YYYYMMDD, zero-padded
	Hsprc        models.Flex `json:"hsprc"`   // price in won
}

// decodeItems normalizes the items payload to a flat slice, accepting the
// array, single-object, and empty-string shapes observed in production.
func decodeItems[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return nil
	}
	var wrap struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(raw, &wrap); err != nil || len(wrap.Item) == 0 {
		return nil
	}

	var many []T
	if err := json.Unmarshal(wrap.Item, &many); err == nil {
		return many
	}
	var one T
	if err := json.Unmarshal(wrap.Item, &one); err == nil {
		return []T{one}
	}
	return nil
}
