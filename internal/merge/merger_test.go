package merge

import (
	"reflect"
	"testing"

	"multi-unit-enrichment/internal/registry"
	"multi-unit-enrichment/internal/vworld"
)

func float64Ptr(v float64) *float64 { return &v }

func complexInput() Input {
	return Input{
		RecapTotal: 1,
		Recap: []registry.RecapItem{{
			PlatArea:         "1000.5",
			TotArea:          "8500.2",
			VlRatEstmTotArea: "7200.0",
			ArchArea:         "450.3",
			BcRat:            "45.2",
			VlRat:            "249.8",
			BldNm:            "테스트아파트",
			TotPkngCnt:       "150",
			UseAprDay:        "20150320",
			HhldCnt:          "120",
			FmlyCnt:          "0",
			HoCnt:            "120",
			MainBldCnt:       "3",
		}},
		Title: []registry.TitleItem{
			{
				DongNm:          "101동",
				MainAtchGbCdNm:  "주건축물",
				NewPlatPlc:      "테헤란로 123",
				Heit:            "45.5",
				StrctCdNm:       "철근콘크리트구조",
				RoofCdNm:        "평지붕",
				MainPurpsCdNm:   "공동주택",
				GrndFlrCnt:      "15",
				UgrndFlrCnt:     "2",
				HhldCnt:         "60",
				RideUseElvtCnt:  "2",
				EmgenUseElvtCnt: "1",
			},
			{
				DongNm:         "102동",
				MainAtchGbCdNm: "주건축물",
				Heit:           "48.0",
				GrndFlrCnt:     "16",
				UgrndFlrCnt:    "2",
				HhldCnt:        "64",
				UseAprDay:      "20150401",
			},
		},
		Areas: []registry.AreaItem{
			{MainAtchGbCdNm: "주건축물", ExposPubuseGbCdNm: "전유", Area: "59.5"},
			{MainAtchGbCdNm: "주건축물", ExposPubuseGbCdNm: "공용", Area: "25.25"},
			{MainAtchGbCdNm: "부속건축물", ExposPubuseGbCdNm: "공용", Area: "10.0"},
		},
		Land:  &vworld.LandInfo{UseZone: "제2종일반주거지역", LandArea: float64Ptr(1000.5)},
		Price: &registry.HousePrice{Manwon: 28000, Year: 2024},
		Share: float64Ptr(35.2),
		Dong:  "102",
		Ho:    "201",
	}
}

func TestMergeComplexBranch(t *testing.T) {
	got := Merge(complexInput())

	checks := map[string]any{
		FieldPlotArea:        1000.5,
		FieldTotalFloorArea:  8500.2,
		FieldBuildingName:    "테스트아파트",
		FieldParkingTotal:    150,
		FieldTotalHouseholds: "120/0/120",
		FieldMainBuildings:   3,
		FieldHeight:          48.0,
		FieldTotalFloors:     "-2/16",
		FieldDongHouseholds:  "64/0/0",
		FieldRoadAddress:     "테헤란로 123",
		FieldExclusiveArea:   59.5,
		FieldSupplyArea:      84.75,
		FieldUseZone:         "제2종일반주거지역",
		FieldLandArea:        1000.5,
		FieldHousePrice:      28000,
		FieldHousePriceYear:  2024,
		FieldLandShare:       35.2,
	}
	for field, want := range checks {
		if got[field] != want {
			t.Errorf("%s = %v (%T), want %v (%T)", field, got[field], got[field], want, want)
		}
	}

	// The matched dong (102) carries its own approval date, which overrides
	// the complex-wide one.
	if got[FieldApprovalDate] != "2015-04-01T00:00:00.000Z" {
		t.Errorf("approval date = %v, want the matched dong's date", got[FieldApprovalDate])
	}

	// Dong 102 has no elevator counts: the column must be absent, not zero.
	if _, present := got[FieldDongElevators]; present {
		t.Errorf("zero elevator sum must omit the column, got %v", got[FieldDongElevators])
	}
}

func TestMergeSingleBranch(t *testing.T) {
	in := Input{
		Title: []registry.TitleItem{{
			NewPlatPlc:     "언주로 45",
			BldNm:          "테스트빌라",
			MainAtchGbCdNm: "주건축물",
			Heit:           "12.5",
			StrctCdNm:      "연와조",
			MainPurpsCdNm:  "다세대주택",
			GrndFlrCnt:     "4",
			HhldCnt:        "8",
			IndrMechUtcnt:  "2",
			OudrAutoUtcnt:  "3",
			UseAprDay:      "19981120",
		}},
		Areas: []registry.AreaItem{
			{MainAtchGbCdNm: "주건축물", ExposPubuseGbCdNm: "전유", Area: "45.5"},
		},
		Ho: "201",
	}

	got := Merge(in)

	if got[FieldRoadAddress] != "언주로 45" || got[FieldBuildingName] != "테스트빌라" {
		t.Errorf("single branch should take identity from the first title row, got %+v", got)
	}
	if got[FieldTotalFloors] != "-0/4" {
		t.Errorf("총층수 = %v, want -0/4", got[FieldTotalFloors])
	}
	if got[FieldDongHouseholds] != "8/0/0" || got[FieldTotalHouseholds] != "8/0/0" {
		t.Errorf("single building must report identical dong and total households, got %v / %v",
			got[FieldDongHouseholds], got[FieldTotalHouseholds])
	}
	if got[FieldParkingTotal] != 5 {
		t.Errorf("parking should sum the four lot kinds: got %v, want 5", got[FieldParkingTotal])
	}
	if got[FieldMainBuildings] != 1 {
		t.Errorf("주건물수 = %v, want 1", got[FieldMainBuildings])
	}
	if got[FieldApprovalDate] != "1998-11-20T00:00:00.000Z" {
		t.Errorf("approval date = %v", got[FieldApprovalDate])
	}
	if got[FieldExclusiveArea] != 45.5 || got[FieldSupplyArea] != 45.5 {
		t.Errorf("area columns = %v / %v", got[FieldExclusiveArea], got[FieldSupplyArea])
	}
}

func TestMergeKind(t *testing.T) {
	if (Input{RecapTotal: 1}).Kind() != KindComplex {
		t.Error("positive recap total should select the complex branch")
	}
	if (Input{}).Kind() != KindSingle {
		t.Error("zero recap total should select the single branch")
	}
}

func TestMergeAbsentValuesStayAbsent(t *testing.T) {
	in := Input{
		Title: []registry.TitleItem{{BldNm: "이름만있는건물"}},
	}
	got := Merge(in)

	for _, field := range []string{FieldPlotArea, FieldTotalFloorArea, FieldHeight, FieldParkingTotal,
		FieldApprovalDate, FieldExclusiveArea, FieldSupplyArea, FieldUseZone, FieldLandArea} {
		if _, present := got[field]; present {
			t.Errorf("%s should be absent when the source value is missing, got %v", field, got[field])
		}
	}
}

func TestMergeZeroDefaults(t *testing.T) {
	got := Merge(Input{Title: []registry.TitleItem{{BldNm: "x"}}})

	if got[FieldHousePrice] != 0 || got[FieldHousePriceYear] != 0 {
		t.Errorf("missing price must default to 0/0, got %v/%v", got[FieldHousePrice], got[FieldHousePriceYear])
	}
	if got[FieldLandShare] != 0 {
		t.Errorf("missing land share must default to 0, got %v", got[FieldLandShare])
	}
}

func TestMergeNilAreasWritesNoAreaColumns(t *testing.T) {
	in := Input{Title: []registry.TitleItem{{BldNm: "x"}}, Areas: nil}
	got := Merge(in)

	if _, present := got[FieldExclusiveArea]; present {
		t.Error("nil area data must not produce an exclusive-area column")
	}
	if _, present := got[FieldSupplyArea]; present {
		t.Error("nil area data must not produce a supply-area column")
	}
}

func TestMergeCommonOnlyAreasOmitted(t *testing.T) {
	in := Input{
		Title: []registry.TitleItem{{BldNm: "x"}},
		Areas: []registry.AreaItem{
			{MainAtchGbCdNm: "주건축물", ExposPubuseGbCdNm: "공용", Area: "25.25"},
		},
	}
	got := Merge(in)

	if _, present := got[FieldExclusiveArea]; present {
		t.Error("zero exclusive sum must omit both area columns")
	}
	if _, present := got[FieldSupplyArea]; present {
		t.Error("supply area requires a positive exclusive sum")
	}
}

func TestMergeIsPure(t *testing.T) {
	in := complexInput()
	first := Merge(in)
	second := Merge(in)
	if !reflect.DeepEqual(first, second) {
		t.Error("Merge must be deterministic for identical input")
	}
}

func TestFormatDateISO(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"20150320", "2015-03-20T00:00:00.000Z"},
		{"00000000", ""},
		{"2015032", ""},
		{"", ""},
		{"20151341", ""},
	}
	for _, tt := range tests {
		if got := formatDateISO(tt.input); got != tt.want {
			t.Errorf("formatDateISO(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHasMeaningfulData(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]any
		want  bool
	}{
		{"price only", map[string]any{FieldHousePrice: 28000}, true},
		{"share only", map[string]any{FieldLandShare: 35.2}, true},
		{"exclusive area only", map[string]any{FieldExclusiveArea: 59.9}, true},
		{"use zone only", map[string]any{FieldUseZone: "제2종일반주거지역"}, true},
		{"main use only", map[string]any{FieldMainUse: "공동주택"}, true},
		{"zero defaults only", map[string]any{FieldHousePrice: 0, FieldHousePriceYear: 0, FieldLandShare: 0}, false},
		{"empty", map[string]any{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasMeaningfulData(tt.attrs); got != tt.want {
				t.Errorf("HasMeaningfulData() = %v, want %v", got, tt.want)
			}
		})
	}
}
