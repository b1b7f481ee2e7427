package api

import (
	"fmt"
	"math"

	"wastewatch/internal/model"
)

func validateRouteRequest(req *model.RouteRequest) error {
	if len(req.Locations) < 2 {
		return fmt.Errorf("at least 2 locations required, got %d", len(req.Locations))
	}
	for i, l := range req.Locations {
		if math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) || math.IsNaN(l.Lng) || math.IsInf(l.Lng, 0) {
			return fmt.Errorf("location %d has non-finite coordinates", i)
		}
		if l.Lat < -90 || l.Lat > 90 {
			return fmt.Errorf("location %d latitude %v out of range [-90,90]", i, l.Lat)
		}
		if l.Lng < -180 || l.Lng > 180 {
			return fmt.Errorf("location %d longitude %v out of range [-180,180]", i, l.Lng)
		}
	}
	return nil
}

func validateReading(in *model.ReadingIn) error {
	if in.BinID == "" {
		return fmt.Errorf("binId required")
	}
	if in.Fill < 0 || in.Fill > 100 {
		return fmt.Errorf("fill %v out of range [0,100]", in.Fill)
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", in.Latitude)
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", in.Longitude)
	}
	return nil
}
