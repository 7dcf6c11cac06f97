package domain

import "strings"

// RegionTable maps first-level administrative area names to mid-range region codes.
type RegionTable struct {
	Default RegionCodePair
	Areas   map[string]RegionCodePair
}

// Resolve returns the region codes for an area name. Unknown or empty names
// resolve to the default pair.
func (t RegionTable) Resolve(area string) RegionCodePair {
	if codes, ok := t.Areas[area]; ok {
		return codes
	}
	return t.Default
}

// AreaPrefix returns the first-level area of a geocoder address, e.g.
// "부산 해운대구 우동" yields "부산".
func AreaPrefix(address string) string {
	fields := strings.Fields(address)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// DefaultRegionTable returns the KMA mid-range region codes.
func DefaultRegionTable() RegionTable {
	capital := RegionCodePair{Temperature: "11B10101", Condition: "11B00000"}
	gangwon := RegionCodePair{Temperature: "11D20501", Condition: "11D20000"}
	chungnam := RegionCodePair{Temperature: "11C20401", Condition: "11C20000"}
	chungbuk := RegionCodePair{Temperature: "11C10301", Condition: "11C10000"}
	jeonnam := RegionCodePair{Temperature: "11F20501", Condition: "11F20000"}
	jeonbuk := RegionCodePair{Temperature: "11F10201", Condition: "11F10000"}
	gyeongbuk := RegionCodePair{Temperature: "11H10701", Condition: "11H10000"}
	gyeongnam := RegionCodePair{Temperature: "11H20201", Condition: "11H20000"}
	jeju := RegionCodePair{Temperature: "11G00201", Condition: "11G00000"}

	return RegionTable{
		Default: capital,
		Areas: map[string]RegionCodePair{
			"서울": capital,

			"강원특별자치도": gangwon,
			"강원":      gangwon,

			"대전":      chungnam,
			"세종특별자치시": chungnam,
			"세종":      chungnam,
			"충남":      chungnam,
			"충청남도":    chungnam,

			"충북":   chungbuk,
			"충청북도": chungbuk,

			"광주":   jeonnam,
			"전남":   jeonnam,
			"전라남도": jeonnam,

			"전북특별자치도": jeonbuk,
			"전북":      jeonbuk,

			"대구":   gyeongbuk,
			"경북":   gyeongbuk,
			"경상북도": gyeongbuk,

			"부산":   gyeongnam,
			"울산":   gyeongnam,
			"경남":   gyeongnam,
			"경상남도": gyeongnam,

			"제주특별자치도": jeju,
			"제주":      jeju,
		},
	}
}
