package domain

import "math"

const degToRad = math.Pi / 180.0

// LambertProjection describes a Lambert Conformal Conic grid.
type LambertProjection struct {
	EarthRadiusKm float64
	GridSpacingKm float64
	StdParallel1  float64 // degrees
	StdParallel2  float64 // degrees
	OriginLon     float64 // degrees
	OriginLat     float64 // degrees
	OriginX       float64 // grid column of the origin
	OriginY       float64 // grid row of the origin
}

// KMAProjection is the projection of the KMA short-range forecast grid.
var KMAProjection = LambertProjection{
	EarthRadiusKm: 6371.00877,
	GridSpacingKm: 5.0,
	StdParallel1:  30.0,
	StdParallel2:  60.0,
	OriginLon:     126.0,
	OriginLat:     38.0,
	OriginX:       43,
	OriginY:       136,
}

// ConvertGrid maps a WGS-84 coordinate onto the KMA short-range grid.
func ConvertGrid(lat, lon float64) GridCell {
	return KMAProjection.Convert(lat, lon)
}

// Convert maps a coordinate to a grid cell. Coordinates outside the serviced
// area produce cells outside the grid; they are returned as computed.
func (p LambertProjection) Convert(lat, lon float64) GridCell {
	re := p.EarthRadiusKm / p.GridSpacingKm
	slat1 := p.StdParallel1 * degToRad
	slat2 := p.StdParallel2 * degToRad
	olon := p.OriginLon * degToRad
	olat := p.OriginLat * degToRad

	sn := math.Tan(math.Pi*0.25+slat2*0.5) / math.Tan(math.Pi*0.25+slat1*0.5)
	sn = math.Log(math.Cos(slat1)/math.Cos(slat2)) / math.Log(sn)

	sf := math.Pow(math.Tan(math.Pi*0.25+slat1*0.5), sn) * math.Cos(slat1) / sn
	ro := re * sf / math.Pow(math.Tan(math.Pi*0.25+olat*0.5), sn)
	ra := re * sf / math.Pow(math.Tan(math.Pi*0.25+lat*degToRad*0.5), sn)

	theta := lon*degToRad - olon
	if theta > math.Pi {
		theta -= 2.0 * math.Pi
	}
	if theta < -math.Pi {
		theta += 2.0 * math.Pi
	}
	theta *= sn

	return GridCell{
		NX: int(math.Floor(ra*math.Sin(theta) + p.OriginX + 0.5)),
		NY: int(math.Floor(ro - ra*math.Cos(theta) + p.OriginY + 0.5)),
	}
}
