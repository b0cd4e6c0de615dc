// Package merge folds the per-record API responses into a single column
// map for the datastore. Merging is pure: it never performs I/O, and a
// given Input always yields the same map.
package merge

import (
	"fmt"
	"strings"
	"time"

	"multi-unit-enrichment/internal/match"
	"multi-unit-enrichment/internal/models"
	"multi-unit-enrichment/internal/registry"
	"multi-unit-enrichment/internal/vworld"
)

// BuildingKind tags which merge branch applies to a building.
type BuildingKind int

const (
	// KindComplex is a multi-building complex with a recap sheet
	// (apartments). Complex-wide figures come from the recap row and
	// per-dong figures from the matching title row.
	KindComplex BuildingKind = iota
	// KindSingle is a standalone building with title rows only (villas,
	// row houses). Its first title row is authoritative for everything.
	KindSingle
)

const (
	mainBuilding  = "주건축물"
	exclusiveUse  = "전유"
	commonUse     = "공용"
)

// Input is everything a merge needs, already fetched. Areas carries the
// semantic nil/empty distinction: nil means the unit-area lookup found
// nothing anywhere, an empty slice means rows existed but none survived.
type Input struct {
	RecapTotal int
	Recap      []registry.RecapItem
	Title      []registry.TitleItem
	Areas      []registry.AreaItem
	Land       *vworld.LandInfo
	Price      *registry.HousePrice
	Share      *float64
	Dong       string
	Ho         string
}

// Kind reports which branch Merge will take for this input.
func (in Input) Kind() BuildingKind {
	if in.RecapTotal > 0 {
		return KindComplex
	}
	return KindSingle
}

// Merge builds the datastore column map. Registry-sourced fields are
// written only when the upstream value is present and parseable; absent
// values never become zeros. Price and land share always get a value,
// with 0 standing in for "not found".
func Merge(in Input) map[string]any {
	result := make(map[string]any)

	if in.Kind() == KindComplex {
		mergeComplex(in, result)
	} else {
		mergeSingle(in, result)
	}

	mergeUnitAreas(in.Areas, result)

	if in.Land != nil {
		if in.Land.UseZone != "" {
			result[FieldUseZone] = in.Land.UseZone
		}
		if in.Land.LandArea != nil {
			result[FieldLandArea] = *in.Land.LandArea
		}
	}

	if in.Price != nil {
		result[FieldHousePrice] = in.Price.Manwon
		result[FieldHousePriceYear] = in.Price.Year
	} else {
		result[FieldHousePrice] = 0
		result[FieldHousePriceYear] = 0
	}

	if in.Share != nil {
		result[FieldLandShare] = *in.Share
	} else {
		result[FieldLandShare] = 0
	}

	return result
}

func mergeComplex(in Input, result map[string]any) {
	if len(in.Recap) > 0 {
		recap := in.Recap[0]

		putFloat(result, FieldPlotArea, recap.PlatArea)
		putFloat(result, FieldTotalFloorArea, recap.TotArea)
		putFloat(result, FieldFARFloorArea, recap.VlRatEstmTotArea)
		putFloat(result, FieldBuildingArea, recap.ArchArea)
		putFloat(result, FieldCoverageRatio, recap.BcRat)
		putFloat(result, FieldFloorAreaRatio, recap.VlRat)
		putString(result, FieldBuildingName, recap.BldNm)
		putInt(result, FieldParkingTotal, recap.TotPkngCnt)

		if date := formatDateISO(recap.UseAprDay.String()); date != "" {
			result[FieldApprovalDate] = date
		}

		result[FieldTotalHouseholds] = householdComposite(recap.HhldCnt, recap.FmlyCnt, recap.HoCnt)

		putInt(result, FieldMainBuildings, recap.MainBldCnt)
	}

	if dong := matchTitleDong(in.Title, in.Dong); dong != nil {
		putFloat(result, FieldHeight, dong.Heit)
		putString(result, FieldStructure, dong.StrctCdNm)
		putString(result, FieldRoof, dong.RoofCdNm)
		putString(result, FieldMainUse, dong.MainPurpsCdNm)

		result[FieldTotalFloors] = floorComposite(dong.UgrndFlrCnt, dong.GrndFlrCnt)
		result[FieldDongHouseholds] = householdComposite(dong.HhldCnt, dong.FmlyCnt, dong.HoCnt)

		if n := dong.RideUseElvtCnt.Int() + dong.EmgenUseElvtCnt.Int(); n > 0 {
			result[FieldDongElevators] = n
		}

		// A dong-level approval date is more specific than the
		// complex-wide one and takes precedence.
		if !dong.UseAprDay.Empty() {
			if date := formatDateISO(dong.UseAprDay.String()); date != "" {
				result[FieldApprovalDate] = date
			}
		}
	}

	// The recap sheet has no road address; backfill from any title row.
	if len(in.Title) > 0 {
		if _, set := result[FieldRoadAddress]; !set {
			putString(result, FieldRoadAddress, in.Title[0].NewPlatPlc)
		}
	}
}

func mergeSingle(in Input, result map[string]any) {
	if len(in.Title) == 0 {
		return
	}
	main := in.Title[0]

	putString(result, FieldRoadAddress, main.NewPlatPlc)
	putString(result, FieldBuildingName, main.BldNm)
	putFloat(result, FieldHeight, main.Heit)
	putString(result, FieldStructure, main.StrctCdNm)
	putString(result, FieldRoof, main.RoofCdNm)
	putString(result, FieldMainUse, main.MainPurpsCdNm)

	putFloat(result, FieldPlotArea, main.PlatArea)
	putFloat(result, FieldTotalFloorArea, main.TotArea)
	putFloat(result, FieldFARFloorArea, main.VlRatEstmTotArea)
	putFloat(result, FieldBuildingArea, main.ArchArea)
	putFloat(result, FieldCoverageRatio, main.BcRat)
	putFloat(result, FieldFloorAreaRatio, main.VlRat)

	if !main.UseAprDay.Empty() {
		if date := formatDateISO(main.UseAprDay.String()); date != "" {
			result[FieldApprovalDate] = date
		}
	}

	result[FieldTotalFloors] = floorComposite(main.UgrndFlrCnt, main.GrndFlrCnt)

	// One building means the dong-level and total figures coincide.
	households := householdComposite(main.HhldCnt, main.FmlyCnt, main.HoCnt)
	result[FieldDongHouseholds] = households
	result[FieldTotalHouseholds] = households

	parking := main.IndrMechUtcnt.Int() + main.OudrMechUtcnt.Int() +
		main.IndrAutoUtcnt.Int() + main.OudrAutoUtcnt.Int()
	if parking > 0 {
		result[FieldParkingTotal] = parking
	}

	if n := main.RideUseElvtCnt.Int() + main.EmgenUseElvtCnt.Int(); n > 0 {
		result[FieldDongElevators] = n
	}

	result[FieldMainBuildings] = 1
}

// mergeUnitAreas sums the unit's exclusive and common floor areas over
// main-building rows. The exclusive sum is written only when positive,
// and the supply area (exclusive + common) only when exclusive is set,
// so a unit with no area rows shows no area columns at all.
func mergeUnitAreas(areas []registry.AreaItem, result map[string]any) {
	if areas == nil {
		return
	}

	var exclusive, common float64
	for _, item := range areas {
		area, ok := item.Area.Float()
		if !ok {
			continue
		}
		if item.MainAtchGbCdNm.String() != mainBuilding {
			continue
		}
		switch item.ExposPubuseGbCdNm.String() {
		case exclusiveUse:
			exclusive += area
		case commonUse:
			common += area
		}
	}

	if exclusive > 0 {
		result[FieldExclusiveArea] = exclusive
		result[FieldSupplyArea] = exclusive + common
	}
}

// matchTitleDong finds the title row for the record's dong. A blank dong
// falls back to the first main-building row.
func matchTitleDong(title []registry.TitleItem, dong string) *registry.TitleItem {
	if strings.TrimSpace(dong) != "" {
		for i := range title {
			if match.DongEquals(dong, title[i].DongNm.String()) {
				return &title[i]
			}
		}
		return nil
	}
	for i := range title {
		if title[i].MainAtchGbCdNm.String() == mainBuilding {
			return &title[i]
		}
	}
	return nil
}

// HasMeaningfulData reports whether a merged map carries any substantive
// unit data. A map holding only the zero-valued price/share defaults is
// a degenerate merge and must not be written back.
func HasMeaningfulData(attrs map[string]any) bool {
	for _, field := range []string{FieldHousePrice, FieldLandShare, FieldExclusiveArea, FieldSupplyArea} {
		if asFloat(attrs[field]) > 0 {
			return true
		}
	}
	if v, ok := attrs[FieldUseZone].(string); ok && v != "" {
		return true
	}
	if v, ok := attrs[FieldMainUse].(string); ok && v != "" {
		return true
	}
	return false
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	}
	return 0
}

// formatDateISO turns a YYYYMMDD registry date into an RFC 3339 UTC
// timestamp. Absent, short, or all-zero dates yield "".
func formatDateISO(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) != 8 || raw == "00000000" {
		return ""
	}
	t, err := time.Parse("20060102", raw)
	if err != nil {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func putFloat(result map[string]any, field string, v models.Flex) {
	if f, ok := v.Float(); ok && !v.Empty() {
		result[field] = f
	}
}

func putInt(result map[string]any, field string, v models.Flex) {
	if v.Empty() {
		return
	}
	if _, ok := v.Float(); ok {
		result[field] = v.Int()
	}
}

func putString(result map[string]any, field string, v models.Flex) {
	if s := strings.TrimSpace(v.String()); s != "" {
		result[field] = s
	}
}

func householdComposite(hhld, fmly, ho models.Flex) string {
	return fmt.Sprintf("%s/%s/%s", hhld.Or("0"), fmly.Or("0"), ho.Or("0"))
}

func floorComposite(under, ground models.Flex) string {
	return fmt.Sprintf("-%s/%s", under.Or("0"), ground.Or("0"))
}
