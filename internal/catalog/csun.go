// Package catalog holds the built-in course data and file-based course loading.
package catalog

import "campus-map-quiz/internal/domain"

// DefaultCourseID names the built-in campus course.
const DefaultCourseID = "csun"

// CSUN returns the California State University, Northridge campus course.
// The boxes are hand-drawn around each building and must not be recomputed from the centers.
func CSUN() domain.Course {
	return domain.Course{
		ID:     DefaultCourseID,
		Name:   "CSUN Campus Map Quiz",
		Center: domain.Coordinate{Lat: 34.2407, Lng: -118.5291},
		Zoom:   16,
		Locations: []domain.Location{
			{
				Name:   "BookStore",
				Prompt: "Where is the BookStore??",
				Center: domain.Coordinate{Lat: 34.2365, Lng: -118.5282},
				Bounds: domain.BoundingBox{North: 34.2375, South: 34.2355, East: -118.5262, West: -118.5302},
			},
			{
				Name:   "Bayramian Hall",
				Prompt: "Where is Bayramian Hall",
				Center: domain.Coordinate{Lat: 34.2400, Lng: -118.5365},
				Bounds: domain.BoundingBox{North: 34.2415, South: 34.2385, East: -118.5345, West: -118.5385},
			},
			{
				Name:   "Jacaranda Hall",
				Prompt: "Where is Jacaranda Hall",
				Center: domain.Coordinate{Lat: 34.2408, Lng: -118.5290},
				Bounds: domain.BoundingBox{North: 34.2420, South: 34.2396, East: -118.5270, West: -118.5310},
			},
			{
				Name:   "Manzanita Hall",
				Prompt: "Where is Manzanita Hall",
				Center: domain.Coordinate{Lat: 34.2370, Lng: -118.5320},
				Bounds: domain.BoundingBox{North: 34.2382, South: 34.2358, East: -118.5300, West: -118.5340},
			},
			{
				Name:   "Citrus Hall",
				Prompt: "Where is Citrus Hall",
				Center: domain.Coordinate{Lat: 34.2385, Lng: -118.5282},
				Bounds: domain.BoundingBox{North: 34.2397, South: 34.2373, East: -118.5262, West: -118.5302},
			},
		},
	}
}

// Builtin returns every course compiled into the binary, keyed by ID.
func Builtin() map[string]domain.Course {
	csun := CSUN()
	return map[string]domain.Course{csun.ID: csun}
}
