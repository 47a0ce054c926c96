package controllers

import (
	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/lintang-b-s/gridwords/pkg/geocoder"
	"github.com/lintang-b-s/gridwords/pkg/http/usecases"
	"github.com/paulmach/orb/geojson"
)

type encodeRequest struct {
	Lat    float64  `json:"lat" validate:"min=-90,max=90"`
	Lon    float64  `json:"lon" validate:"min=-180,max=180"`
	Scheme string   `json:"scheme" validate:"omitempty,oneof=vocabulary words synthetic addressable decorative freeform custom"`
	Words  []string `json:"words" validate:"omitempty,len=3,dive,required"`
}

type decodeRequest struct {
	Words   []string `json:"words" validate:"omitempty,len=3,dive,required"`
	Address string   `json:"address" validate:"required_without=Words"`
	Scheme  string   `json:"scheme" validate:"omitempty,oneof=vocabulary words synthetic addressable decorative freeform custom"`
}

type customRequest struct {
	Words []string `json:"words" validate:"len=3,dive,required"`
}

type cellRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type batchPoint struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type batchEncodeRequest struct {
	Points []batchPoint `json:"points" validate:"required,min=1,max=10000,dive"`
	Scheme string       `json:"scheme" validate:"omitempty,oneof=vocabulary words synthetic addressable decorative"`
}

func (req batchEncodeRequest) toBatchPoints() []usecases.BatchPoint {
	points := make([]usecases.BatchPoint, 0, len(req.Points))
	for _, p := range req.Points {
		points = append(points, usecases.BatchPoint{Lat: p.Lat, Lon: p.Lon})
	}
	return points
}

type coordinateResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func newCoordinateResponse(c geo.Coordinate) coordinateResponse {
	return coordinateResponse{Lat: c.Lat, Lon: c.Lon}
}

type consistencyResponse struct {
	Derived        coordinateResponse `json:"derived"`
	DistanceMeters float64            `json:"distance_m"`
	BearingDegrees float64            `json:"bearing_deg"`
	ThresholdM     float64            `json:"threshold_m"`
	DerivedCellID  int64              `json:"derived_cell_id"`
	Consistent     bool               `json:"consistent"`
}

type encodeResponse struct {
	Scheme      string               `json:"scheme"`
	Words       []string             `json:"words"`
	Address     string               `json:"address"`
	CellID      int64                `json:"cell_id"`
	LatIndex    int64                `json:"lat_index"`
	LonIndex    int64                `json:"lon_index"`
	Consistency *consistencyResponse `json:"consistency,omitempty"`
}

func NewEncodeResponse(res *geocoder.EncodeResult) encodeResponse {
	resp := encodeResponse{
		Scheme:   res.Scheme.String(),
		Words:    res.Tokens.Slice(),
		Address:  res.Address(),
		CellID:   int64(res.Cell),
		LatIndex: res.GridCoordinate.LatIndex,
		LonIndex: res.GridCoordinate.LonIndex,
	}
	if rep := res.Report; rep != nil {
		resp.Consistency = &consistencyResponse{
			Derived:        newCoordinateResponse(rep.Derived),
			DistanceMeters: rep.DistanceMeters,
			BearingDegrees: rep.BearingDegrees,
			ThresholdM:     rep.ThresholdM,
			DerivedCellID:  int64(rep.DerivedCell),
			Consistent:     rep.Consistent,
		}
	}
	return resp
}

type decodeResponse struct {
	Scheme  string   `json:"scheme"`
	Words   []string `json:"words"`
	Address string   `json:"address"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	CellID  int64    `json:"cell_id"`
	Exact   bool     `json:"exact"`
}

func NewDecodeResponse(res *geocoder.DecodeResult) decodeResponse {
	return decodeResponse{
		Scheme:  res.Scheme.String(),
		Words:   res.Tokens.Slice(),
		Address: res.Tokens.String(),
		Lat:     res.Coordinate.Lat,
		Lon:     res.Coordinate.Lon,
		CellID:  int64(res.Cell),
		Exact:   res.Exact,
	}
}

type customResponse struct {
	Words []string `json:"words"`
	Lat   float64  `json:"lat"`
	Lon   float64  `json:"lon"`
}

type cellResponse struct {
	CellID   int64              `json:"cell_id"`
	LatIndex int64              `json:"lat_index"`
	LonIndex int64              `json:"lon_index"`
	Center   coordinateResponse `json:"center"`
	Polyline string             `json:"polyline"`
	Feature  *geojson.Feature   `json:"feature"`
}

func NewCellResponse(info *geocoder.CellInfo) cellResponse {
	feature := geojson.NewFeature(info.Bound.ToPolygon())
	feature.Properties["cell_id"] = int64(info.ID)
	feature.Properties["lat_index"] = info.GridCoordinate.LatIndex
	feature.Properties["lon_index"] = info.GridCoordinate.LonIndex

	return cellResponse{
		CellID:   int64(info.ID),
		LatIndex: info.GridCoordinate.LatIndex,
		LonIndex: info.GridCoordinate.LonIndex,
		Center:   newCoordinateResponse(info.Center),
		Polyline: geo.PolylineFromCoords(geo.BoundOutline(info.Bound)),
		Feature:  feature,
	}
}

type batchItemResponse struct {
	Lat     float64    `json:"lat"`
	Lon     float64    `json:"lon"`
	Address string     `json:"address,omitempty"`
	Words   []string   `json:"words,omitempty"`
	CellID  *int64     `json:"cell_id,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

func NewBatchResponse(items []usecases.BatchItem) []batchItemResponse {
	resp := make([]batchItemResponse, 0, len(items))
	for _, it := range items {
		item := batchItemResponse{Lat: it.Point.Lat, Lon: it.Point.Lon}
		if it.Err != nil {
			item.Error = &errorBody{Code: errorCode(it.Err), Message: it.Err.Error()}
		} else {
			id := int64(it.Result.Cell)
			item.Address = it.Result.Address()
			item.Words = it.Result.Tokens.Slice()
			item.CellID = &id
		}
		resp = append(resp, item)
	}
	return resp
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}
