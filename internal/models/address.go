package models

// ParsedAddress holds the jurisdiction/parcel fields extracted from a
// free-text 지번 address. Bun and Ji are zero-padded to 4 digits; Ji is
// "0000" when the address carries no sub-number.
type ParsedAddress struct {
	Sigungu string `json:"시군구"` // jurisdiction, e.g. 강남구
	Bjdong  string `json:"법정동"` // administrative division, e.g. 역삼동
	Bun     string `json:"번"`   // parcel main number, 4 digits
	Ji      string `json:"지"`   // parcel sub number, 4 digits
}

// ResolvedCodes is a ParsedAddress plus the official numeric codes resolved
// for its jurisdiction and division. Every registry call keys off these.
type ResolvedCodes struct {
	ParsedAddress
	SigunguCode string `json:"시군구코드"`
	BjdongCode  string `json:"법정동코드"`
}
