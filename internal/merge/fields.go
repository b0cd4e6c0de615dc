package merge

// Datastore column names. These are the exact labels of the destination
// table and must not be translated or normalized.
const (
	FieldPlotArea        = "대지면적(㎡)"
	FieldTotalFloorArea  = "연면적(㎡)"
	FieldFARFloorArea    = "용적률산정용연면적(㎡)"
	FieldBuildingArea    = "건축면적(㎡)"
	FieldCoverageRatio   = "건폐율(%)"
	FieldFloorAreaRatio  = "용적률(%)"
	FieldBuildingName    = "건물명"
	FieldParkingTotal    = "총주차대수"
	FieldApprovalDate    = "사용승인일"
	FieldTotalHouseholds = "총 세대/가구/호"
	FieldMainBuildings   = "주건물수"
	FieldHeight          = "높이(m)"
	FieldStructure       = "주구조"
	FieldRoof            = "지붕"
	FieldMainUse         = "주용도"
	FieldTotalFloors     = "총층수"
	FieldDongHouseholds  = "해당동 세대/가구/호"
	FieldDongElevators   = "해당동 승강기수"
	FieldRoadAddress     = "도로명주소"
	FieldExclusiveArea   = "전용면적(㎡)"
	FieldSupplyArea      = "공급면적(㎡)"
	FieldUseZone         = "용도지역"
	FieldLandArea        = "토지면적(㎡)"
	FieldHousePrice      = "주택가격(만원)"
	FieldHousePriceYear  = "주택가격기준년도"
	FieldLandShare       = "대지지분(㎡)"
)
